package settlement

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// PostResult is the ledger after posting due settlements.
type PostResult struct {
	Transactions []ledger.Transaction
	Links        []ledger.SettlementLink
	// Posted counts charges newly linked to a settlement entry.
	Posted int
	// Created counts settlement entries added to the ledger.
	Created int
}

type postingKey struct {
	instrumentID uuid.UUID
	date         string
	txType       ledger.TransactionType
	targetID     uuid.UUID
}

func keyOf(tx ledger.Transaction, loc *time.Location) postingKey {
	key := postingKey{
		instrumentID: tx.InstrumentID,
		date:         tx.SettlementDate.In(loc).Format(time.DateOnly),
		txType:       tx.Type,
	}
	// Investment debits also credit the investment account, so those entries
	// cannot be merged across target accounts.
	if tx.Type == ledger.TransactionTypeInvestment {
		key.targetID = tx.AccountID
	}
	return key
}

// PostDueSettlements folds every unlinked pending charge whose settlement date
// is on or before today into one settlement entry per instrument, settlement
// date and type. Existing entries with the same key absorb new charges. The
// input slices are not modified.
func PostDueSettlements(
	transactions []ledger.Transaction,
	links []ledger.SettlementLink,
	instruments []ledger.FundingInstrument,
	today time.Time,
	now time.Time,
	newID func() uuid.UUID,
) PostResult {
	loc := today.Location()
	today = ledger.StartOfDay(today)

	out := make([]ledger.Transaction, len(transactions))
	copy(out, transactions)
	outLinks := make([]ledger.SettlementLink, len(links))
	copy(outLinks, links)

	instrumentsByID := make(map[uuid.UUID]ledger.FundingInstrument, len(instruments))
	for _, inst := range instruments {
		instrumentsByID[inst.ID] = inst
	}
	linked := make(map[uuid.UUID]struct{}, len(links))
	for _, l := range links {
		linked[l.OriginID] = struct{}{}
	}

	existing := make(map[postingKey]int)
	var order []postingKey
	groups := make(map[postingKey][]int)
	for i, tx := range out {
		if tx.SettlementDate == nil {
			continue
		}
		if tx.Status == ledger.TransactionStatusSettlement {
			if _, ok := existing[keyOf(tx, loc)]; !ok {
				existing[keyOf(tx, loc)] = i
			}
			continue
		}
		if tx.Status != ledger.TransactionStatusPendingSettlement || !tx.Type.IsCharge() {
			continue
		}
		if _, ok := linked[tx.ID]; ok {
			continue
		}
		if _, ok := instrumentsByID[tx.InstrumentID]; !ok {
			continue
		}
		if ledger.StartOfDay(tx.SettlementDate.In(loc)).After(today) {
			continue
		}
		key := keyOf(tx, loc)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	result := PostResult{}
	for _, key := range order {
		members := groups[key]
		sum := decimal.Zero
		for _, i := range members {
			sum = sum.Add(out[i].Amount)
		}

		var settlementID uuid.UUID
		if idx, ok := existing[key]; ok {
			out[idx].Amount = out[idx].Amount.Add(sum)
			out[idx].UpdatedAt = now
			settlementID = out[idx].ID
		} else {
			first := out[members[0]]
			inst := instrumentsByID[key.instrumentID]
			date := ledger.StartOfDay(first.SettlementDate.In(loc))
			accountID := inst.AccountID
			if key.txType == ledger.TransactionTypeInvestment {
				accountID = key.targetID
			}
			entry := ledger.Transaction{
				ID:             newID(),
				Type:           key.txType,
				Amount:         sum,
				Date:           date,
				Description:    inst.Name + " settlement",
				CategoryID:     first.CategoryID,
				AccountID:      accountID,
				InstrumentID:   inst.ID,
				Status:         ledger.TransactionStatusSettlement,
				SettlementDate: &date,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			out = append(out, entry)
			existing[key] = len(out) - 1
			settlementID = entry.ID
			result.Created++
		}

		for _, i := range members {
			outLinks = append(outLinks, ledger.SettlementLink{OriginID: out[i].ID, SettlementID: settlementID})
			result.Posted++
		}
	}

	result.Transactions = out
	result.Links = outLinks
	return result
}

// RemoveTransaction deletes id from the ledger and keeps the settlement links
// consistent. Deleting a settlement entry deletes the charges it aggregates.
// Deleting a linked charge shrinks its settlement entry, which is dropped once
// nothing links to it. It returns false when id is not in the ledger.
func RemoveTransaction(
	transactions []ledger.Transaction,
	links []ledger.SettlementLink,
	id uuid.UUID,
	now time.Time,
) ([]ledger.Transaction, []ledger.SettlementLink, bool) {
	idx := -1
	for i, tx := range transactions {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return transactions, links, false
	}
	target := transactions[idx]

	remove := map[uuid.UUID]struct{}{id: {}}
	adjust := map[uuid.UUID]decimal.Decimal{}

	if target.Status == ledger.TransactionStatusSettlement {
		for _, l := range links {
			if l.SettlementID == id {
				remove[l.OriginID] = struct{}{}
			}
		}
	} else {
		for _, l := range links {
			if l.OriginID == id {
				adjust[l.SettlementID] = target.Amount
				remaining := 0
				for _, other := range links {
					if other.SettlementID == l.SettlementID && other.OriginID != id {
						remaining++
					}
				}
				if remaining == 0 {
					remove[l.SettlementID] = struct{}{}
				}
			}
		}
	}

	outLinks := make([]ledger.SettlementLink, 0, len(links))
	for _, l := range links {
		_, originGone := remove[l.OriginID]
		_, settlementGone := remove[l.SettlementID]
		if originGone || settlementGone {
			continue
		}
		outLinks = append(outLinks, l)
	}

	out := make([]ledger.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if _, gone := remove[tx.ID]; gone {
			continue
		}
		if amount, ok := adjust[tx.ID]; ok {
			tx.Amount = tx.Amount.Sub(amount)
			tx.UpdatedAt = now
		}
		out = append(out, tx)
	}
	return out, outLinks, true
}
