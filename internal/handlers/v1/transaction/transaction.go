package transaction

import (
	"time"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID              string `json:"id" doc:"Transaction UUID"`
	Type            string `json:"type" doc:"income, expense, transfer or investment"`
	Amount          string `json:"amount" doc:"Decimal amount"`
	Date            string `json:"date" doc:"Transaction date (YYYY-MM-DD)"`
	Description     string `json:"description" doc:"Free-form description"`
	CategoryID      string `json:"categoryId,omitempty" doc:"Category UUID"`
	AccountID       string `json:"accountId,omitempty" doc:"Credited account UUID"`
	SourceAccountID string `json:"sourceAccountId,omitempty" doc:"Debited account UUID for transfers"`
	InstrumentID    string `json:"instrumentId,omitempty" doc:"Funding instrument UUID"`
	Status          string `json:"status" doc:"completed, pending_settlement or settlement"`
	SettlementDate  string `json:"settlementDate,omitempty" doc:"Date the charge is debited (YYYY-MM-DD)"`
	RecurringRuleID string `json:"recurringRuleId,omitempty" doc:"Rule that generated this transaction"`
	CreatedAt       string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromLedger(tx ledger.Transaction) Transaction {
	return Transaction{
		ID:              tx.ID.String(),
		Type:            string(tx.Type),
		Amount:          tx.Amount.String(),
		Date:            handlerutil.FormatDate(tx.Date),
		Description:     tx.Description,
		CategoryID:      handlerutil.FormatID(tx.CategoryID),
		AccountID:       handlerutil.FormatID(tx.AccountID),
		SourceAccountID: handlerutil.FormatID(tx.SourceAccountID),
		InstrumentID:    handlerutil.FormatID(tx.InstrumentID),
		Status:          string(tx.Status),
		SettlementDate:  handlerutil.FormatOptionalDate(tx.SettlementDate),
		RecurringRuleID: handlerutil.FormatID(tx.RecurringRuleID),
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
	}
}
