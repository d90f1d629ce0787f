package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/settlement"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// SettlementService exposes settlement dates, the upcoming payment projection
// and settlement posting.
type SettlementService struct {
	storage  *storage.Storage
	operator actionProcessor
	logger   *logrus.Logger
}

func NewSettlementService(store *storage.Storage, op actionProcessor, logger *logrus.Logger) *SettlementService {
	return &SettlementService{storage: store, operator: op, logger: logger}
}

// SettlementDate computes when a charge made on chargeDate is debited.
func (s *SettlementService) SettlementDate(chargeDate time.Time, closingDay, billingDay int) (time.Time, error) {
	if closingDay < 1 || closingDay > 31 {
		return time.Time{}, fmt.Errorf("%w: closingDay %d out of range [1,31]", ledger.ErrInvalidInstrument, closingDay)
	}
	if billingDay < 1 || billingDay > 31 {
		return time.Time{}, fmt.Errorf("%w: billingDay %d out of range [1,31]", ledger.ErrInvalidInstrument, billingDay)
	}
	return settlement.SettlementDate(chargeDate, closingDay, billingDay), nil
}

// Upcoming returns this month's and next month's projected payments as of
// now, served from the persisted cache while it is clean and from today.
func (s *SettlementService) Upcoming(ctx context.Context, now time.Time) (ledger.SettlementProjection, error) {
	cache, err := s.storage.Read().Projection(ctx)
	if err != nil {
		return ledger.SettlementProjection{}, err
	}
	if cache.Fresh(now) {
		return *cache.Projection, nil
	}

	action := &actions.RefreshProjection{Today: now, Now: now}
	if err := s.operator.Process(ctx, action); err != nil {
		return ledger.SettlementProjection{}, err
	}
	if action.Recomputed {
		s.logger.WithFields(logrus.Fields{
			"currentMonth": len(action.Projection.CurrentMonth),
			"nextMonth":    len(action.Projection.NextMonth),
		}).Debug("Settlement.Upcoming.Recomputed")
	}
	return action.Projection, nil
}

// PostDue posts every pending charge whose settlement date has arrived.
func (s *SettlementService) PostDue(ctx context.Context, now time.Time) (PostResult, error) {
	action := &actions.PostSettlements{Today: now, Now: now}
	if err := s.operator.Process(ctx, action); err != nil {
		return PostResult{}, err
	}
	logDangling(s.logger, action.Balances.Dangling)
	return PostResult{Posted: action.Posted, Created: action.Created}, nil
}
