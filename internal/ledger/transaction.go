package ledger

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	AccountID   uuid.UUID       `json:"accountId"`
	// SourceAccountID is the debited side of a transfer.
	SourceAccountID uuid.UUID         `json:"sourceAccountId"`
	InstrumentID    uuid.UUID         `json:"instrumentId"`
	Status          TransactionStatus `json:"status"`
	SettlementDate  *time.Time        `json:"settlementDate,omitempty"`
	RecurringRuleID uuid.UUID         `json:"recurringRuleId"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Validate checks a directly entered transaction.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	if t.Status != "" && !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransaction, t.Status)
	}
	if t.Type == TransactionTypeTransfer {
		if t.SourceAccountID == uuid.Nil || t.AccountID == uuid.Nil {
			return fmt.Errorf("%w: transfers need source and destination accounts", ErrInvalidTransaction)
		}
		if t.SourceAccountID == t.AccountID {
			return fmt.Errorf("%w: transfer source and destination must differ", ErrInvalidTransaction)
		}
	}
	return nil
}

// SettlementLink ties an originating charge to the settlement entry that
// debits it. An origin appears at most once; a settlement may appear many times.
type SettlementLink struct {
	OriginID     uuid.UUID `json:"originId"`
	SettlementID uuid.UUID `json:"settlementId"`
}
