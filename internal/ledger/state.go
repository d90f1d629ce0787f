package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// RecurringCooldown is the persisted marker of the last recurring run.
type RecurringCooldown struct {
	LastRunAt *time.Time `json:"lastRunAt,omitempty"`
}

// Due reports whether a run is allowed at now for the given window.
func (c RecurringCooldown) Due(now time.Time, window time.Duration) bool {
	if c.LastRunAt == nil {
		return true
	}
	return now.Sub(*c.LastRunAt) > window
}

// ScheduledPayment is one projected debit of a cycle-billed instrument in a month.
type ScheduledPayment struct {
	InstrumentID   uuid.UUID       `json:"instrumentId"`
	InstrumentName string          `json:"instrumentName"`
	Kind           InstrumentKind  `json:"kind"`
	AccountID      uuid.UUID       `json:"accountId"`
	AccountName    string          `json:"accountName"`
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	Display        string          `json:"display"`
	BillingDay     int             `json:"billingDay"`
	BillingDate    time.Time       `json:"billingDate"`
}

// SettlementProjection is the this-month / next-month payment outlook.
type SettlementProjection struct {
	CurrentMonth      []ScheduledPayment `json:"currentMonth"`
	NextMonth         []ScheduledPayment `json:"nextMonth"`
	TotalCurrentMonth decimal.Decimal    `json:"totalCurrentMonth"`
	TotalNextMonth    decimal.Decimal    `json:"totalNextMonth"`
}

// SettlementProjectionCache is the persisted projection plus its dirty flag.
// Every transaction write marks it dirty.
type SettlementProjectionCache struct {
	Dirty      bool                  `json:"dirty"`
	ComputedAt time.Time             `json:"computedAt"`
	Projection *SettlementProjection `json:"projection,omitempty"`
}

// Fresh reports whether the cached projection can be served for today.
func (c SettlementProjectionCache) Fresh(today time.Time) bool {
	return !c.Dirty && c.Projection != nil && !c.ComputedAt.IsZero() && SameDay(today, c.ComputedAt)
}
