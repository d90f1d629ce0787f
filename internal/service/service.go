package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// actionProcessor runs a mutating action in a serialized write. It is
// satisfied by *operator.OperatorDelegator.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Rule        *RuleService
	Recurring   *RecurringService
	Settlement  *SettlementService
	Balance     *BalanceService
}

// Options carries the settings services read from the environment.
type Options struct {
	RecurringCooldown time.Duration
	DefaultCurrency   string
}

// NewService creates a new Service over the given storage and operator.
func NewService(store *storage.Storage, op actionProcessor, logger *logrus.Logger, opts Options) *Service {
	settlementService := NewSettlementService(store, op, logger)
	return &Service{
		Transaction: NewTransactionService(store, op),
		Account:     NewAccountService(store, op, opts.DefaultCurrency),
		Rule:        NewRuleService(store, op),
		Recurring:   NewRecurringService(store, op, settlementService, logger, opts.RecurringCooldown),
		Settlement:  settlementService,
		Balance:     NewBalanceService(op, logger),
	}
}

// pageOf returns items[position:position+limit] and the position of the next
// page, or -1 when this is the last page.
func pageOf[T any](items []T, position, limit int) ([]T, int) {
	if position >= len(items) {
		return nil, -1
	}
	end := position + limit
	if end >= len(items) {
		return items[position:], -1
	}
	return items[position:end], end
}
