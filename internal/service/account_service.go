package service

import (
	"cmp"
	"context"
	"slices"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/storage"
)

const defaultAccountLimit = 20

// AccountService handles accounts and the funding instruments bound to them.
type AccountService struct {
	storage         *storage.Storage
	operator        actionProcessor
	defaultCurrency string
}

// NewAccountService creates a new AccountService.
func NewAccountService(store *storage.Storage, op actionProcessor, defaultCurrency string) *AccountService {
	return &AccountService{storage: store, operator: op, defaultCurrency: defaultCurrency}
}

// CreateAccount creates a new account with a zero balance.
func (s *AccountService) CreateAccount(ctx context.Context, account ledger.Account) (ledger.Account, error) {
	if account.Currency == "" {
		account.Currency = s.defaultCurrency
	}
	action := &actions.CreateAccount{Account: account}
	if err := s.operator.Process(ctx, action); err != nil {
		return ledger.Account{}, err
	}
	return action.Created, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	return s.storage.Read().Account(ctx, id)
}

// ListAccounts returns a page of accounts ordered by name using cursor pagination.
func (s *AccountService) ListAccounts(ctx context.Context, cursor *AccountCursor) ([]ledger.Account, *AccountCursor, error) {
	limit := defaultAccountLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	accounts, err := s.storage.Read().Accounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	slices.SortStableFunc(accounts, func(a, b ledger.Account) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	page, next := pageOf(accounts, offset, limit)
	if len(page) == 0 {
		return nil, nil, nil
	}

	var nextCursor *AccountCursor
	if next >= 0 {
		nextCursor = &AccountCursor{
			Position: next,
			Limit:    limit,
		}
	}
	return page, nextCursor, nil
}

// CreateInstrument binds a new funding instrument to an existing account.
func (s *AccountService) CreateInstrument(ctx context.Context, instrument ledger.FundingInstrument) (ledger.FundingInstrument, error) {
	action := &actions.CreateInstrument{Instrument: instrument}
	if err := s.operator.Process(ctx, action); err != nil {
		return ledger.FundingInstrument{}, err
	}
	return action.Created, nil
}

func (s *AccountService) ListInstruments(ctx context.Context) ([]ledger.FundingInstrument, error) {
	return s.storage.Read().Instruments(ctx)
}
