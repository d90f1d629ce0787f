package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage"
)

type CreateAccount struct {
	Account ledger.Account

	Created ledger.Account
	IAction
}

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := c.Account.Validate(); err != nil {
		return err
	}

	accounts, err := writer.Accounts(ctx)
	if err != nil {
		return err
	}

	account := c.Account
	account.ID = newID()
	account.Balance = decimal.Zero
	if err := writer.PutAccounts(append(accounts, account)); err != nil {
		return err
	}

	c.Created = account
	return nil
}
