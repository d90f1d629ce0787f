package account

import (
	"github.com/carson-networks/budget-engine/internal/ledger"
)

// Account is the API response model for an account.
type Account struct {
	ID       string `json:"id" doc:"Account UUID"`
	Name     string `json:"name" doc:"Account name"`
	Type     string `json:"type" doc:"cash, bank, credit or investment"`
	Currency string `json:"currency" doc:"ISO 4217 currency code"`
	Balance  string `json:"balance" doc:"Decimal balance derived from the ledger"`
	Display  string `json:"display" doc:"Balance formatted in the account currency"`
}

// Instrument is the API response model for a funding instrument.
type Instrument struct {
	ID         string `json:"id" doc:"Funding instrument UUID"`
	Name       string `json:"name" doc:"Instrument name"`
	AccountID  string `json:"accountId" doc:"UUID of the account the instrument draws from"`
	Kind       string `json:"kind" doc:"cash, credit_card, bank_transfer, electronic_money or direct_debit"`
	ClosingDay *int   `json:"closingDay,omitempty" doc:"Statement closing day of month"`
	BillingDay *int   `json:"billingDay,omitempty" doc:"Debit day of month"`
}

func accountFromLedger(acc ledger.Account) Account {
	return Account{
		ID:       acc.ID.String(),
		Name:     acc.Name,
		Type:     string(acc.Type),
		Currency: acc.Currency,
		Balance:  acc.Balance.String(),
		Display:  ledger.FormatAmount(acc.Balance, acc.Currency),
	}
}

func instrumentFromLedger(inst ledger.FundingInstrument) Instrument {
	return Instrument{
		ID:         inst.ID.String(),
		Name:       inst.Name,
		AccountID:  inst.AccountID.String(),
		Kind:       string(inst.Kind),
		ClosingDay: inst.ClosingDay,
		BillingDay: inst.BillingDay,
	}
}
