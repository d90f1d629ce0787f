package ledger

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// FundingInstrument is a payment method bound to the account it draws from.
type FundingInstrument struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	AccountID  uuid.UUID      `json:"accountId"`
	Kind       InstrumentKind `json:"kind"`
	ClosingDay *int           `json:"closingDay,omitempty"`
	BillingDay *int           `json:"billingDay,omitempty"`
}

// BillingCycle returns the closing and billing days when the instrument is
// cycle-billed with both days configured.
func (f FundingInstrument) BillingCycle() (closingDay, billingDay int, ok bool) {
	if !f.Kind.SupportsCycleBilling() || f.ClosingDay == nil || f.BillingDay == nil {
		return 0, 0, false
	}
	return *f.ClosingDay, *f.BillingDay, true
}

func (f FundingInstrument) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInstrument)
	}
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInstrument, f.Kind)
	}
	if (f.ClosingDay == nil) != (f.BillingDay == nil) {
		return fmt.Errorf("%w: closingDay and billingDay must be set together", ErrInvalidInstrument)
	}
	if f.ClosingDay == nil {
		return nil
	}
	if !f.Kind.SupportsCycleBilling() {
		return fmt.Errorf("%w: %s does not support a billing cycle", ErrInvalidInstrument, f.Kind)
	}
	if *f.ClosingDay < 1 || *f.ClosingDay > 31 {
		return fmt.Errorf("%w: closingDay %d out of range [1,31]", ErrInvalidInstrument, *f.ClosingDay)
	}
	if *f.BillingDay < 1 || *f.BillingDay > 31 {
		return fmt.Errorf("%w: billingDay %d out of range [1,31]", ErrInvalidInstrument, *f.BillingDay)
	}
	return nil
}
