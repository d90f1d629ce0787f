package actions

import (
	"context"
	"time"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/settlement"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// PostSettlements folds due pending charges into settlement entries.
type PostSettlements struct {
	Today time.Time
	Now   time.Time

	Posted   int
	Created  int
	Balances balance.Result
	IAction
}

func (p *PostSettlements) Perform(ctx context.Context, writer *storage.Writer) error {
	txs, err := writer.Transactions(ctx)
	if err != nil {
		return err
	}
	links, err := writer.Links(ctx)
	if err != nil {
		return err
	}
	instruments, err := writer.Instruments(ctx)
	if err != nil {
		return err
	}

	result := settlement.PostDueSettlements(txs, links, instruments, p.Today, p.Now, newID)
	p.Posted = result.Posted
	p.Created = result.Created
	if result.Posted == 0 {
		return nil
	}

	if err := writer.PutTransactions(ctx, result.Transactions); err != nil {
		return err
	}
	if err := writer.PutLinks(result.Links); err != nil {
		return err
	}

	balances, err := recomputeBalances(ctx, writer)
	if err != nil {
		return err
	}
	p.Balances = balances
	return nil
}
