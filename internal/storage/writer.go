package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// Writer stages whole collections and writes the changed ones on Commit.
// Reads through the embedded Reader see staged data.
type Writer struct {
	Reader
	done bool
}

func NewWriter(store CollectionStore) *Writer {
	return &Writer{
		Reader: Reader{
			store:  store,
			staged: make(map[string][]byte),
		},
	}
}

func (w *Writer) put(name string, value any) error {
	if w.done {
		return fmt.Errorf("stage %s: writer already finished", name)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	w.staged[name] = payload
	return nil
}

func (w *Writer) PutRules(rules []ledger.RecurrenceRule) error {
	return w.put(CollectionRules, rules)
}

// PutTransactions stages the ledger and marks the settlement projection dirty.
func (w *Writer) PutTransactions(ctx context.Context, txs []ledger.Transaction) error {
	if err := w.put(CollectionTransactions, txs); err != nil {
		return err
	}
	cache, err := w.Projection(ctx)
	if err != nil {
		return err
	}
	cache.Dirty = true
	return w.PutProjection(cache)
}

func (w *Writer) PutAccounts(accounts []ledger.Account) error {
	return w.put(CollectionAccounts, accounts)
}

func (w *Writer) PutInstruments(instruments []ledger.FundingInstrument) error {
	return w.put(CollectionInstruments, instruments)
}

func (w *Writer) PutLinks(links []ledger.SettlementLink) error {
	return w.put(CollectionLinks, links)
}

func (w *Writer) PutCooldown(cooldown ledger.RecurringCooldown) error {
	return w.put(CollectionCooldown, cooldown)
}

func (w *Writer) PutProjection(cache ledger.SettlementProjectionCache) error {
	return w.put(CollectionProjection, cache)
}

// Commit writes every staged collection. Stores implementing BatchSetter
// write them atomically; others are written one by one in name order.
func (w *Writer) Commit(ctx context.Context) error {
	if w.done {
		return nil
	}
	w.done = true
	if len(w.staged) == 0 {
		return nil
	}

	if batch, ok := w.store.(BatchSetter); ok {
		return batch.SetMany(ctx, w.staged)
	}

	names := make([]string, 0, len(w.staged))
	for name := range w.staged {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := w.store.Set(ctx, name, w.staged[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// Rollback discards everything staged.
func (w *Writer) Rollback() error {
	w.done = true
	w.staged = make(map[string][]byte)
	return nil
}
