package ledger

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// RecurrenceRule is a template for a repeating financial event.
type RecurrenceRule struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Frequency       Frequency       `json:"frequency"`
	Interval        int             `json:"interval"`
	DayOfMonth      *int            `json:"dayOfMonth,omitempty"`
	DayOfWeek       *int            `json:"dayOfWeek,omitempty"`
	MonthOfYear     *int            `json:"monthOfYear,omitempty"`
	CategoryID      uuid.UUID       `json:"categoryId"`
	AccountID       uuid.UUID       `json:"accountId"`
	SourceAccountID uuid.UUID       `json:"sourceAccountId"`
	InstrumentID    uuid.UUID       `json:"instrumentId"`
	Status          RuleStatus      `json:"status"`

	// LastGeneratedDate is the highest materialized occurrence. Only the
	// recurring processor moves it.
	LastGeneratedDate *time.Time `json:"lastGeneratedDate,omitempty"`
}

// Validate rejects rules the recurrence engine cannot step safely.
func (r RecurrenceRule) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRule)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRule, r.Type)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRule)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidRule)
	}
	if r.EndDate != nil && !r.EndDate.After(r.StartDate) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidRule)
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval must be at least 1", ErrInvalidRule)
	}
	if r.DayOfMonth != nil {
		if r.Frequency != FrequencyMonthly && r.Frequency != FrequencyYearly {
			return fmt.Errorf("%w: dayOfMonth only applies to monthly and yearly rules", ErrInvalidRule)
		}
		if *r.DayOfMonth < 1 || *r.DayOfMonth > 31 {
			return fmt.Errorf("%w: dayOfMonth %d out of range [1,31]", ErrInvalidRule, *r.DayOfMonth)
		}
	}
	if r.DayOfWeek != nil {
		if r.Frequency != FrequencyWeekly {
			return fmt.Errorf("%w: dayOfWeek only applies to weekly rules", ErrInvalidRule)
		}
		if *r.DayOfWeek < 0 || *r.DayOfWeek > 6 {
			return fmt.Errorf("%w: dayOfWeek %d out of range [0,6]", ErrInvalidRule, *r.DayOfWeek)
		}
	}
	if r.MonthOfYear != nil {
		if r.Frequency != FrequencyYearly {
			return fmt.Errorf("%w: monthOfYear only applies to yearly rules", ErrInvalidRule)
		}
		if *r.MonthOfYear < 1 || *r.MonthOfYear > 12 {
			return fmt.Errorf("%w: monthOfYear %d out of range [1,12]", ErrInvalidRule, *r.MonthOfYear)
		}
	}
	if r.Type == TransactionTypeTransfer && r.SourceAccountID == uuid.Nil {
		return fmt.Errorf("%w: transfer rules need a sourceAccountId", ErrInvalidRule)
	}
	if r.Status == "" {
		return nil
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRule, r.Status)
	}
	return nil
}

// NewTransaction materializes one occurrence of the rule. Settlement fields
// are left for the settlement calculator.
func (r RecurrenceRule) NewTransaction(id uuid.UUID, occurrence, now time.Time) Transaction {
	return Transaction{
		ID:              id,
		Type:            r.Type,
		Amount:          r.Amount,
		Date:            occurrence,
		Description:     r.Title,
		CategoryID:      r.CategoryID,
		AccountID:       r.AccountID,
		SourceAccountID: r.SourceAccountID,
		InstrumentID:    r.InstrumentID,
		Status:          TransactionStatusCompleted,
		RecurringRuleID: r.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
