package settlement

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

func newID() uuid.UUID { return uuid.Must(uuid.NewV4()) }

func settlementEntries(txs []ledger.Transaction) []ledger.Transaction {
	var out []ledger.Transaction
	for _, tx := range txs {
		if tx.Status == ledger.TransactionStatusSettlement {
			out = append(out, tx)
		}
	}
	return out
}

func TestPostDueSettlements_AggregatesDueCharges(t *testing.T) {
	inst := card(15, 10)
	c1 := charge(inst, "100", day(2024, 1, 20), ptr(day(2024, 3, 10)))
	c2 := charge(inst, "50", day(2024, 2, 1), ptr(day(2024, 3, 10)))
	c3 := charge(inst, "70", day(2024, 2, 20), ptr(day(2024, 4, 10)))
	txs := []ledger.Transaction{c1, c2, c3}
	now := day(2024, 3, 10)

	res := PostDueSettlements(txs, nil, []ledger.FundingInstrument{inst}, day(2024, 3, 10), now, newID)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Posted)
	require.Len(t, res.Transactions, 4)
	require.Len(t, res.Links, 2)

	entries := settlementEntries(res.Transactions)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.True(t, entry.Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, inst.AccountID, entry.AccountID)
	assert.Equal(t, inst.ID, entry.InstrumentID)
	assert.Equal(t, day(2024, 3, 10), entry.Date)
	assert.Equal(t, "Visa settlement", entry.Description)
	assert.ElementsMatch(t, []ledger.SettlementLink{
		{OriginID: c1.ID, SettlementID: entry.ID},
		{OriginID: c2.ID, SettlementID: entry.ID},
	}, res.Links)

	// inputs are untouched
	assert.Len(t, txs, 3)
}

func TestPostDueSettlements_IsIdempotent(t *testing.T) {
	inst := card(15, 10)
	txs := []ledger.Transaction{charge(inst, "100", day(2024, 1, 20), ptr(day(2024, 3, 10)))}
	first := PostDueSettlements(txs, nil, []ledger.FundingInstrument{inst}, day(2024, 3, 10), day(2024, 3, 10), newID)

	second := PostDueSettlements(first.Transactions, first.Links, []ledger.FundingInstrument{inst}, day(2024, 3, 11), day(2024, 3, 11), newID)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Posted)
	assert.Equal(t, first.Transactions, second.Transactions)
	assert.Equal(t, first.Links, second.Links)
}

func TestPostDueSettlements_LateChargeJoinsExistingEntry(t *testing.T) {
	inst := card(15, 10)
	txs := []ledger.Transaction{charge(inst, "100", day(2024, 1, 20), ptr(day(2024, 3, 10)))}
	first := PostDueSettlements(txs, nil, []ledger.FundingInstrument{inst}, day(2024, 3, 10), day(2024, 3, 10), newID)

	late := charge(inst, "25", day(2024, 2, 2), ptr(day(2024, 3, 10)))
	second := PostDueSettlements(append(first.Transactions, late), first.Links,
		[]ledger.FundingInstrument{inst}, day(2024, 3, 12), day(2024, 3, 12), newID)

	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Posted)
	entries := settlementEntries(second.Transactions)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("125")))
	assert.Len(t, second.Links, 2)
}

func TestPostDueSettlements_SeparatesInvestmentTargets(t *testing.T) {
	inst := card(15, 10)
	fundA, fundB := newID(), newID()
	a := charge(inst, "10", day(2024, 1, 20), ptr(day(2024, 3, 10)))
	a.Type, a.AccountID = ledger.TransactionTypeInvestment, fundA
	b := charge(inst, "20", day(2024, 1, 21), ptr(day(2024, 3, 10)))
	b.Type, b.AccountID = ledger.TransactionTypeInvestment, fundB
	c := charge(inst, "30", day(2024, 1, 22), ptr(day(2024, 3, 10)))

	res := PostDueSettlements([]ledger.Transaction{a, b, c}, nil, []ledger.FundingInstrument{inst}, day(2024, 3, 10), day(2024, 3, 10), newID)

	assert.Equal(t, 3, res.Created)
	targets := map[uuid.UUID]string{}
	for _, entry := range settlementEntries(res.Transactions) {
		targets[entry.AccountID] = entry.Amount.String()
	}
	assert.Equal(t, map[uuid.UUID]string{fundA: "10", fundB: "20", inst.AccountID: "30"}, targets)
}

func TestPostDueSettlements_SkipsUnknownInstrumentAndCompleted(t *testing.T) {
	inst := card(15, 10)
	orphan := charge(card(15, 10), "10", day(2024, 1, 20), ptr(day(2024, 3, 10)))
	done := charge(inst, "10", day(2024, 1, 20), nil)

	res := PostDueSettlements([]ledger.Transaction{orphan, done}, nil, []ledger.FundingInstrument{inst}, day(2024, 3, 10), day(2024, 3, 10), newID)

	assert.Equal(t, 0, res.Created)
	assert.Empty(t, res.Links)
}

// -- RemoveTransaction tests --

func postedLedger(t *testing.T) (PostResult, ledger.Transaction, ledger.Transaction, ledger.Transaction) {
	t.Helper()
	inst := card(15, 10)
	c1 := charge(inst, "100", day(2024, 1, 20), ptr(day(2024, 3, 10)))
	c2 := charge(inst, "50", day(2024, 2, 1), ptr(day(2024, 3, 10)))
	res := PostDueSettlements([]ledger.Transaction{c1, c2}, nil, []ledger.FundingInstrument{inst}, day(2024, 3, 10), day(2024, 3, 10), newID)
	entries := settlementEntries(res.Transactions)
	require.Len(t, entries, 1)
	return res, c1, c2, entries[0]
}

func TestRemoveTransaction_LinkedChargeShrinksEntry(t *testing.T) {
	res, c1, c2, entry := postedLedger(t)

	txs, links, ok := RemoveTransaction(res.Transactions, res.Links, c1.ID, day(2024, 3, 11))

	require.True(t, ok)
	assert.Len(t, txs, 2)
	assert.Equal(t, []ledger.SettlementLink{{OriginID: c2.ID, SettlementID: entry.ID}}, links)
	remaining := settlementEntries(txs)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[0].Amount.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, day(2024, 3, 11), remaining[0].UpdatedAt)
}

func TestRemoveTransaction_LastChargeDropsEntry(t *testing.T) {
	res, c1, c2, _ := postedLedger(t)

	txs, links, ok := RemoveTransaction(res.Transactions, res.Links, c1.ID, day(2024, 3, 11))
	require.True(t, ok)
	txs, links, ok = RemoveTransaction(txs, links, c2.ID, day(2024, 3, 11))

	require.True(t, ok)
	assert.Empty(t, txs)
	assert.Empty(t, links)
}

func TestRemoveTransaction_SettlementEntryCascades(t *testing.T) {
	res, _, _, entry := postedLedger(t)

	txs, links, ok := RemoveTransaction(res.Transactions, res.Links, entry.ID, day(2024, 3, 11))

	require.True(t, ok)
	assert.Empty(t, txs)
	assert.Empty(t, links)
}

func TestRemoveTransaction_UnlinkedAndMissing(t *testing.T) {
	inst := card(15, 10)
	keep := charge(inst, "10", day(2024, 3, 1), nil)
	drop := charge(inst, "20", day(2024, 3, 2), nil)

	txs, _, ok := RemoveTransaction([]ledger.Transaction{keep, drop}, nil, drop.ID, day(2024, 3, 3))
	require.True(t, ok)
	assert.Equal(t, []ledger.Transaction{keep}, txs)

	_, _, ok = RemoveTransaction(txs, nil, newID(), day(2024, 3, 3))
	assert.False(t, ok)
}
