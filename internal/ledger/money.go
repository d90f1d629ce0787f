package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// KnownCurrency reports whether code is an ISO 4217 code go-money can format.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// FormatAmount renders amount in the currency's display format, e.g. "¥1,200"
// or "$12.50". Unknown currencies fall back to the plain decimal string.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.String()
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
