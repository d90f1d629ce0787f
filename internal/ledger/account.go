package ledger

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Account is a balance holder. Balance is derived from the ledger and is
// overwritten on every recompute.
type Account struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Type     AccountType     `json:"type"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

func (a Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAccount)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, a.Type)
	}
	if a.Currency != "" && !KnownCurrency(a.Currency) {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidAccount, a.Currency)
	}
	return nil
}
