package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/storage"
)

const defaultLimit = 20

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage  *storage.Storage
	operator actionProcessor
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, op actionProcessor) *TransactionService {
	return &TransactionService{storage: store, operator: op}
}

// CreateTransaction records a ledger entry and returns it with its id and
// settlement fields filled in.
func (s *TransactionService) CreateTransaction(ctx context.Context, tx ledger.Transaction, now time.Time) (ledger.Transaction, error) {
	action := &actions.CreateTransaction{Transaction: tx, Now: now}
	if err := s.operator.Process(ctx, action); err != nil {
		return ledger.Transaction{}, err
	}
	return action.Created, nil
}

// DeleteTransaction removes a ledger entry and returns how many entries the
// settlement cascade removed in total.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID, now time.Time) (int, error) {
	action := &actions.DeleteTransaction{ID: id, Now: now}
	if err := s.operator.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.Removed, nil
}

// ListTransactions returns a page of transactions, newest first, using
// cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, filter TransactionFilter, cursor *TransactionCursor) ([]ledger.Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	var maxCreationTime *time.Time
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
		maxCreationTime = &cursor.MaxCreationTime
	}

	txs, err := s.storage.Read().Transactions(ctx)
	if err != nil {
		return nil, nil, err
	}

	matched := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if maxCreationTime != nil && tx.CreatedAt.After(*maxCreationTime) {
			continue
		}
		if filter.matches(tx) {
			matched = append(matched, tx)
		}
	}
	slices.SortStableFunc(matched, func(a, b ledger.Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	page, next := pageOf(matched, offset, limit)
	if len(page) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if next >= 0 {
		cursorMaxCreationTime := matched[0].CreatedAt
		if maxCreationTime != nil {
			cursorMaxCreationTime = *maxCreationTime
		}
		nextCursor = &TransactionCursor{
			Position:        next,
			Limit:           limit,
			MaxCreationTime: cursorMaxCreationTime,
		}
	}
	return page, nextCursor, nil
}

func (f TransactionFilter) matches(tx ledger.Transaction) bool {
	if f.AccountID != uuid.Nil && tx.AccountID != f.AccountID && tx.SourceAccountID != f.AccountID {
		return false
	}
	if f.InstrumentID != uuid.Nil && tx.InstrumentID != f.InstrumentID {
		return false
	}
	if f.RuleID != uuid.Nil && tx.RecurringRuleID != f.RuleID {
		return false
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	return true
}
