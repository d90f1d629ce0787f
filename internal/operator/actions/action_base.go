package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// recomputeBalances refolds the staged ledger into every account balance.
// Actions that touch transactions call it before returning.
func recomputeBalances(ctx context.Context, writer *storage.Writer) (balance.Result, error) {
	txs, err := writer.Transactions(ctx)
	if err != nil {
		return balance.Result{}, err
	}
	accounts, err := writer.Accounts(ctx)
	if err != nil {
		return balance.Result{}, err
	}
	instruments, err := writer.Instruments(ctx)
	if err != nil {
		return balance.Result{}, err
	}

	result := balance.Recompute(txs, accounts, instruments)
	if err := writer.PutAccounts(result.Accounts); err != nil {
		return balance.Result{}, err
	}
	return result, nil
}
