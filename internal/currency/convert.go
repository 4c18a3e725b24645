package currency

import (
	"github.com/shopspring/decimal"

	"costs/internal/core"
)

// Convert moves amount from one currency to another through the USD base:
// amount / rate(from) * rate(to), rounded to cents. Converting a currency
// to itself returns amount untouched.
func Convert(amount decimal.Decimal, from, to core.Currency, rates RateTable) decimal.Decimal {
	if from == to {
		return amount
	}
	base := amount.Div(rates.Rate(from))
	return core.Round2(base.Mul(rates.Rate(to)))
}
