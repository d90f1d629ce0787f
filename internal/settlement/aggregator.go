package settlement

import (
	"cmp"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// UpcomingSettlements projects, per cycle-billed instrument, the single
// aggregated payment due this month and next month as seen from today.
//
// Charges carrying a settlement date are bucketed by that date. Instruments
// whose charges predate write-time settlement dates fall back to summing the
// open billing window (previous closing date, current closing date].
func UpcomingSettlements(
	transactions []ledger.Transaction,
	instruments []ledger.FundingInstrument,
	accounts []ledger.Account,
	today time.Time,
) ledger.SettlementProjection {
	today = ledger.StartOfDay(today)
	currentStart, nextStart := ledger.MonthBounds(today)
	nextEnd := nextStart.AddDate(0, 1, 0)

	accountsByID := make(map[uuid.UUID]ledger.Account, len(accounts))
	for _, acc := range accounts {
		accountsByID[acc.ID] = acc
	}

	chargesByInstrument := make(map[uuid.UUID][]ledger.Transaction)
	for _, tx := range transactions {
		if !tx.Type.IsCharge() || tx.Status == ledger.TransactionStatusSettlement {
			continue
		}
		chargesByInstrument[tx.InstrumentID] = append(chargesByInstrument[tx.InstrumentID], tx)
	}

	projection := ledger.SettlementProjection{
		CurrentMonth:      []ledger.ScheduledPayment{},
		NextMonth:         []ledger.ScheduledPayment{},
		TotalCurrentMonth: decimal.Zero,
		TotalNextMonth:    decimal.Zero,
	}

	for _, inst := range instruments {
		closingDay, billingDay, ok := inst.BillingCycle()
		if !ok {
			continue
		}
		charges := chargesByInstrument[inst.ID]
		if len(charges) == 0 {
			continue
		}

		payment := func(amount decimal.Decimal, billingDate time.Time) ledger.ScheduledPayment {
			acc := accountsByID[inst.AccountID]
			return ledger.ScheduledPayment{
				InstrumentID:   inst.ID,
				InstrumentName: inst.Name,
				Kind:           inst.Kind,
				AccountID:      inst.AccountID,
				AccountName:    acc.Name,
				Currency:       acc.Currency,
				Amount:         amount,
				Display:        ledger.FormatAmount(amount, acc.Currency),
				BillingDay:     billingDay,
				BillingDate:    billingDate,
			}
		}

		if !anySettlementDate(charges) {
			amount, n := sumBillingWindow(charges, today, closingDay)
			if n == 0 {
				continue
			}
			if billingDay >= closingDay && today.Day() <= billingDay {
				projection.CurrentMonth = append(projection.CurrentMonth,
					payment(amount, time.Date(today.Year(), today.Month(), billingDay, 0, 0, 0, 0, today.Location())))
			} else {
				projection.NextMonth = append(projection.NextMonth,
					payment(amount, time.Date(today.Year(), today.Month()+1, billingDay, 0, 0, 0, 0, today.Location())))
			}
			continue
		}

		current, next := decimal.Zero, decimal.Zero
		var currentN, nextN int
		for _, tx := range charges {
			if tx.SettlementDate == nil {
				continue
			}
			sd := ledger.StartOfDay(tx.SettlementDate.In(today.Location()))
			switch {
			case !sd.Before(currentStart) && sd.Before(nextStart):
				current = current.Add(tx.Amount)
				currentN++
			case !sd.Before(nextStart) && sd.Before(nextEnd):
				next = next.Add(tx.Amount)
				nextN++
			}
		}

		// This month's debit drops out once its billing day has passed.
		if currentN > 0 && today.Day() <= billingDay {
			projection.CurrentMonth = append(projection.CurrentMonth,
				payment(current, time.Date(today.Year(), today.Month(), billingDay, 0, 0, 0, 0, today.Location())))
		}
		if nextN > 0 {
			projection.NextMonth = append(projection.NextMonth,
				payment(next, time.Date(nextStart.Year(), nextStart.Month(), billingDay, 0, 0, 0, 0, today.Location())))
		}
	}

	sortPayments(projection.CurrentMonth)
	sortPayments(projection.NextMonth)
	for _, p := range projection.CurrentMonth {
		projection.TotalCurrentMonth = projection.TotalCurrentMonth.Add(p.Amount)
	}
	for _, p := range projection.NextMonth {
		projection.TotalNextMonth = projection.TotalNextMonth.Add(p.Amount)
	}
	return projection
}

func anySettlementDate(charges []ledger.Transaction) bool {
	for _, tx := range charges {
		if tx.SettlementDate != nil {
			return true
		}
	}
	return false
}

// sumBillingWindow sums the charges dated in (previous closing, current closing].
func sumBillingWindow(charges []ledger.Transaction, today time.Time, closingDay int) (decimal.Decimal, int) {
	loc := today.Location()
	currentClosing := time.Date(today.Year(), today.Month(), closingDay, 0, 0, 0, 0, loc)
	previousClosing := time.Date(today.Year(), today.Month()-1, closingDay, 0, 0, 0, 0, loc)

	sum := decimal.Zero
	n := 0
	for _, tx := range charges {
		d := ledger.StartOfDay(tx.Date.In(loc))
		if d.After(previousClosing) && !d.After(currentClosing) {
			sum = sum.Add(tx.Amount)
			n++
		}
	}
	return sum, n
}

func sortPayments(payments []ledger.ScheduledPayment) {
	slices.SortStableFunc(payments, func(a, b ledger.ScheduledPayment) int {
		if c := cmp.Compare(a.BillingDay, b.BillingDay); c != 0 {
			return c
		}
		return cmp.Compare(a.InstrumentName, b.InstrumentName)
	})
}
