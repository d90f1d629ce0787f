package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage"
)

type CreateInstrument struct {
	Instrument ledger.FundingInstrument

	Created ledger.FundingInstrument
	IAction
}

func (c *CreateInstrument) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := c.Instrument.Validate(); err != nil {
		return err
	}

	_, err := writer.Account(ctx, c.Instrument.AccountID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: account %s does not exist", ledger.ErrInvalidInstrument, c.Instrument.AccountID)
	}
	if err != nil {
		return err
	}

	instruments, err := writer.Instruments(ctx)
	if err != nil {
		return err
	}

	instrument := c.Instrument
	instrument.ID = newID()
	if err := writer.PutInstruments(append(instruments, instrument)); err != nil {
		return err
	}

	c.Created = instrument
	return nil
}
