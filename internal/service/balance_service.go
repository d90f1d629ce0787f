package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
)

type BalanceService struct {
	operator actionProcessor
	logger   *logrus.Logger
}

func NewBalanceService(op actionProcessor, logger *logrus.Logger) *BalanceService {
	return &BalanceService{operator: op, logger: logger}
}

// Recompute rebuilds every account balance from the full ledger.
func (s *BalanceService) Recompute(ctx context.Context) (balance.Result, error) {
	action := &actions.RecomputeBalances{}
	if err := s.operator.Process(ctx, action); err != nil {
		return balance.Result{}, err
	}
	logDangling(s.logger, action.Result.Dangling)
	return action.Result, nil
}

// logDangling warns about transactions whose balance legs were skipped.
func logDangling(logger *logrus.Logger, dangling []uuid.UUID) {
	if len(dangling) == 0 {
		return
	}
	ids := make([]string, len(dangling))
	for i, id := range dangling {
		ids[i] = id.String()
	}
	logger.WithFields(logrus.Fields{
		"count":          len(ids),
		"transactionIDs": ids,
	}).Warn("Balance.Recompute.DanglingReferences")
}
