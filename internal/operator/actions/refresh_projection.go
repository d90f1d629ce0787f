package actions

import (
	"context"
	"time"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/settlement"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// RefreshProjection returns the cached settlement projection, recomputing and
// storing it when it is dirty or was computed on another day.
type RefreshProjection struct {
	Today time.Time
	Now   time.Time

	Projection ledger.SettlementProjection
	Recomputed bool
	IAction
}

func (r *RefreshProjection) Perform(ctx context.Context, writer *storage.Writer) error {
	cache, err := writer.Projection(ctx)
	if err != nil {
		return err
	}
	if cache.Fresh(r.Today) {
		r.Projection = *cache.Projection
		return nil
	}

	txs, err := writer.Transactions(ctx)
	if err != nil {
		return err
	}
	instruments, err := writer.Instruments(ctx)
	if err != nil {
		return err
	}
	accounts, err := writer.Accounts(ctx)
	if err != nil {
		return err
	}

	projection := settlement.UpcomingSettlements(txs, instruments, accounts, r.Today)
	err = writer.PutProjection(ledger.SettlementProjectionCache{
		Dirty:      false,
		ComputedAt: r.Now,
		Projection: &projection,
	})
	if err != nil {
		return err
	}

	r.Projection = projection
	r.Recomputed = true
	return nil
}
