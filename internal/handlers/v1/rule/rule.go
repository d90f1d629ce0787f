package rule

import (
	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
)

// Rule is the API response model for a recurrence rule.
type Rule struct {
	ID                string `json:"id" doc:"Rule UUID"`
	Title             string `json:"title" doc:"Title copied onto generated transactions"`
	Type              string `json:"type" doc:"Type of the generated transactions"`
	Amount            string `json:"amount" doc:"Decimal amount of each occurrence"`
	StartDate         string `json:"startDate" doc:"First occurrence (YYYY-MM-DD)"`
	EndDate           string `json:"endDate,omitempty" doc:"Last allowed occurrence (YYYY-MM-DD)"`
	Frequency         string `json:"frequency" doc:"daily, weekly, monthly or yearly"`
	Interval          int    `json:"interval" doc:"Step multiplier"`
	DayOfMonth        *int   `json:"dayOfMonth,omitempty" doc:"Anchor day for monthly and yearly rules"`
	DayOfWeek         *int   `json:"dayOfWeek,omitempty" doc:"Anchor weekday for weekly rules, 0=Sunday"`
	MonthOfYear       *int   `json:"monthOfYear,omitempty" doc:"Anchor month for yearly rules"`
	CategoryID        string `json:"categoryId,omitempty" doc:"Category UUID"`
	AccountID         string `json:"accountId,omitempty" doc:"Credited account UUID"`
	SourceAccountID   string `json:"sourceAccountId,omitempty" doc:"Debited account UUID for transfers"`
	InstrumentID      string `json:"instrumentId,omitempty" doc:"Funding instrument UUID"`
	Status            string `json:"status" doc:"active, paused or cancelled"`
	LastGeneratedDate string `json:"lastGeneratedDate,omitempty" doc:"Most recent materialized occurrence (YYYY-MM-DD)"`
}

func fromLedger(r ledger.RecurrenceRule) Rule {
	return Rule{
		ID:                r.ID.String(),
		Title:             r.Title,
		Type:              string(r.Type),
		Amount:            r.Amount.String(),
		StartDate:         handlerutil.FormatDate(r.StartDate),
		EndDate:           handlerutil.FormatOptionalDate(r.EndDate),
		Frequency:         string(r.Frequency),
		Interval:          r.Interval,
		DayOfMonth:        r.DayOfMonth,
		DayOfWeek:         r.DayOfWeek,
		MonthOfYear:       r.MonthOfYear,
		CategoryID:        handlerutil.FormatID(r.CategoryID),
		AccountID:         handlerutil.FormatID(r.AccountID),
		SourceAccountID:   handlerutil.FormatID(r.SourceAccountID),
		InstrumentID:      handlerutil.FormatID(r.InstrumentID),
		Status:            string(r.Status),
		LastGeneratedDate: handlerutil.FormatOptionalDate(r.LastGeneratedDate),
	}
}
