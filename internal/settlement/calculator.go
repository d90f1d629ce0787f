// Package settlement maps cycle-billed charges to the dates they debit their
// funding account, projects upcoming payments and posts due settlements.
package settlement

import (
	"time"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// SettlementDate returns the day a charge made on chargeDate leaves the
// funding account. A charge after the closing day of its month belongs to the
// next cycle and settles two months later; otherwise it settles next month.
// The billing day is not clamped: a day past the month's end rolls forward.
func SettlementDate(chargeDate time.Time, closingDay, billingDay int) time.Time {
	loc := chargeDate.Location()
	charge := ledger.StartOfDay(chargeDate)
	year, month, _ := charge.Date()

	closingDate := time.Date(year, month, closingDay, 0, 0, 0, 0, loc)

	settlementMonth := month + 1
	if charge.After(closingDate) {
		settlementMonth = month + 2
	}
	return time.Date(year, settlementMonth, billingDay, 0, 0, 0, 0, loc)
}

// Attach sets the settlement fields of tx for its funding instrument. Charges
// on a cycle-billed instrument become pending_settlement with a settlement
// date; everything else is completed with no settlement date.
func Attach(tx *ledger.Transaction, instrument *ledger.FundingInstrument) {
	if instrument != nil && tx.Type.IsCharge() {
		if closingDay, billingDay, ok := instrument.BillingCycle(); ok {
			date := SettlementDate(tx.Date, closingDay, billingDay)
			tx.SettlementDate = &date
			tx.Status = ledger.TransactionStatusPendingSettlement
			return
		}
	}
	tx.SettlementDate = nil
	tx.Status = ledger.TransactionStatusCompleted
}
