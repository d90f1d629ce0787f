package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// Reader decodes collections from the store. A Reader owned by a Writer sees
// the Writer's staged collections before the stored ones.
type Reader struct {
	store  CollectionStore
	staged map[string][]byte
}

func NewReader(store CollectionStore) *Reader {
	return &Reader{store: store}
}

func (r *Reader) get(ctx context.Context, name string) ([]byte, error) {
	if payload, ok := r.staged[name]; ok {
		return payload, nil
	}
	return r.store.Get(ctx, name)
}

func loadList[T any](ctx context.Context, r *Reader, name string) ([]T, error) {
	payload, err := r.get(ctx, name)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func loadValue[T any](ctx context.Context, r *Reader, name string) (T, error) {
	var out T
	payload, err := r.get(ctx, name)
	if err != nil || len(payload) == 0 {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

func findByID[T any](items []T, id uuid.UUID, idOf func(T) uuid.UUID) (T, error) {
	for _, item := range items {
		if idOf(item) == id {
			return item, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

func (r *Reader) Rules(ctx context.Context) ([]ledger.RecurrenceRule, error) {
	return loadList[ledger.RecurrenceRule](ctx, r, CollectionRules)
}

// Rule returns ErrNotFound when no rule has the id.
func (r *Reader) Rule(ctx context.Context, id uuid.UUID) (ledger.RecurrenceRule, error) {
	rules, err := r.Rules(ctx)
	if err != nil {
		return ledger.RecurrenceRule{}, err
	}
	return findByID(rules, id, func(rule ledger.RecurrenceRule) uuid.UUID { return rule.ID })
}

func (r *Reader) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	return loadList[ledger.Transaction](ctx, r, CollectionTransactions)
}

func (r *Reader) Transaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
	txs, err := r.Transactions(ctx)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return findByID(txs, id, func(tx ledger.Transaction) uuid.UUID { return tx.ID })
}

func (r *Reader) Accounts(ctx context.Context) ([]ledger.Account, error) {
	return loadList[ledger.Account](ctx, r, CollectionAccounts)
}

func (r *Reader) Account(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
	accounts, err := r.Accounts(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	return findByID(accounts, id, func(acc ledger.Account) uuid.UUID { return acc.ID })
}

func (r *Reader) Instruments(ctx context.Context) ([]ledger.FundingInstrument, error) {
	return loadList[ledger.FundingInstrument](ctx, r, CollectionInstruments)
}

func (r *Reader) Instrument(ctx context.Context, id uuid.UUID) (ledger.FundingInstrument, error) {
	instruments, err := r.Instruments(ctx)
	if err != nil {
		return ledger.FundingInstrument{}, err
	}
	return findByID(instruments, id, func(inst ledger.FundingInstrument) uuid.UUID { return inst.ID })
}

func (r *Reader) Links(ctx context.Context) ([]ledger.SettlementLink, error) {
	return loadList[ledger.SettlementLink](ctx, r, CollectionLinks)
}

func (r *Reader) Cooldown(ctx context.Context) (ledger.RecurringCooldown, error) {
	return loadValue[ledger.RecurringCooldown](ctx, r, CollectionCooldown)
}

func (r *Reader) Projection(ctx context.Context) (ledger.SettlementProjectionCache, error) {
	return loadValue[ledger.SettlementProjectionCache](ctx, r, CollectionProjection)
}
