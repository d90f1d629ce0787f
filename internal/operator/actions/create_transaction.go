package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/settlement"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// CreateTransaction records a directly entered ledger entry. Settlement
// fields are derived from the funding instrument, never taken from input.
type CreateTransaction struct {
	Transaction ledger.Transaction
	Now         time.Time

	Created  ledger.Transaction
	Balances balance.Result
	IAction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx := t.Transaction
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.Status == ledger.TransactionStatusSettlement {
		return fmt.Errorf("%w: settlement entries are posted by the engine", ledger.ErrInvalidTransaction)
	}

	instrument, err := lookupInstrument(ctx, writer, tx.InstrumentID)
	if err != nil {
		return err
	}

	tx.ID = newID()
	tx.CreatedAt = t.Now
	tx.UpdatedAt = t.Now
	settlement.Attach(&tx, instrument)

	txs, err := writer.Transactions(ctx)
	if err != nil {
		return err
	}
	if err := writer.PutTransactions(ctx, append(txs, tx)); err != nil {
		return err
	}

	balances, err := recomputeBalances(ctx, writer)
	if err != nil {
		return err
	}

	t.Created = tx
	t.Balances = balances
	return nil
}

// lookupInstrument returns nil for uuid.Nil and an invalid-transaction error
// for an unknown instrument.
func lookupInstrument(ctx context.Context, writer *storage.Writer, id uuid.UUID) (*ledger.FundingInstrument, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	instrument, err := writer.Instrument(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: funding instrument %s does not exist", ledger.ErrInvalidTransaction, id)
	}
	if err != nil {
		return nil, err
	}
	return &instrument, nil
}
