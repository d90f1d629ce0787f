package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/settlement"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// DeleteTransaction removes a ledger entry and cascades over settlement links.
type DeleteTransaction struct {
	ID  uuid.UUID
	Now time.Time

	Removed  int
	Balances balance.Result
	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	txs, err := writer.Transactions(ctx)
	if err != nil {
		return err
	}
	links, err := writer.Links(ctx)
	if err != nil {
		return err
	}

	remaining, remainingLinks, ok := settlement.RemoveTransaction(txs, links, d.ID, d.Now)
	if !ok {
		return fmt.Errorf("transaction %s: %w", d.ID, storage.ErrNotFound)
	}

	if err := writer.PutTransactions(ctx, remaining); err != nil {
		return err
	}
	if err := writer.PutLinks(remainingLinks); err != nil {
		return err
	}

	balances, err := recomputeBalances(ctx, writer)
	if err != nil {
		return err
	}

	d.Removed = len(txs) - len(remaining)
	d.Balances = balances
	return nil
}
