// Package balance rebuilds account balances from the full transaction history.
package balance

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// Result holds the recomputed accounts and the transactions that referenced
// an account or instrument which does not exist.
type Result struct {
	Accounts []ledger.Account
	// Dangling lists transactions with at least one leg skipped for a missing
	// reference, in ledger order.
	Dangling []uuid.UUID
}

// Recompute resets every balance to zero and folds the whole ledger into it.
// The fold is commutative, so transaction order never changes the result.
//
//   - pending_settlement entries are ignored.
//   - income credits accountId.
//   - expense debits the instrument's funding account.
//   - investment debits the instrument's funding account and credits accountId.
//   - transfer debits sourceAccountId and credits accountId.
//
// A leg whose account cannot be resolved is skipped and the transaction is
// reported in Result.Dangling. The input accounts are not modified.
func Recompute(
	transactions []ledger.Transaction,
	accounts []ledger.Account,
	instruments []ledger.FundingInstrument,
) Result {
	out := make([]ledger.Account, len(accounts))
	index := make(map[uuid.UUID]int, len(accounts))
	for i, acc := range accounts {
		acc.Balance = decimal.Zero
		out[i] = acc
		index[acc.ID] = i
	}

	fundingAccount := make(map[uuid.UUID]uuid.UUID, len(instruments))
	for _, inst := range instruments {
		fundingAccount[inst.ID] = inst.AccountID
	}

	var dangling []uuid.UUID
	for _, tx := range transactions {
		if tx.Status != ledger.TransactionStatusCompleted && tx.Status != ledger.TransactionStatusSettlement {
			continue
		}

		ok := true
		apply := func(accountID uuid.UUID, delta decimal.Decimal) {
			i, found := index[accountID]
			if !found {
				ok = false
				return
			}
			out[i].Balance = out[i].Balance.Add(delta)
		}

		switch tx.Type {
		case ledger.TransactionTypeIncome:
			apply(tx.AccountID, tx.Amount)
		case ledger.TransactionTypeExpense:
			apply(fundingAccount[tx.InstrumentID], tx.Amount.Neg())
		case ledger.TransactionTypeInvestment:
			apply(fundingAccount[tx.InstrumentID], tx.Amount.Neg())
			apply(tx.AccountID, tx.Amount)
		case ledger.TransactionTypeTransfer:
			apply(tx.SourceAccountID, tx.Amount.Neg())
			apply(tx.AccountID, tx.Amount)
		}

		if !ok {
			dangling = append(dangling, tx.ID)
		}
	}

	return Result{Accounts: out, Dangling: dangling}
}
