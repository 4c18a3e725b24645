// Package currency converts cost amounts between the supported currencies
// using a rate table read from a remote exchange-rate endpoint.
package currency

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"costs/internal/core"
)

// RateTable maps a currency code to the units of that currency per one
// USD-equivalent base unit.
type RateTable struct {
	Rates     map[core.Currency]float64 `json:"rates"`
	Fallback  bool                      `json:"fallback"`
	Source    string                    `json:"source,omitempty"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// Source provides rate tables.
type Source interface {
	Fetch(ctx context.Context) (RateTable, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (RateTable, error)

func (f SourceFunc) Fetch(ctx context.Context) (RateTable, error) { return f(ctx) }

// Rates used when the source is unreachable or returns an unknown shape,
// and to fill gaps in the {"rates": {...}} payload.
const (
	defaultILS  = 3.4
	defaultGBP  = 0.6
	defaultEURO = 0.7
)

// FallbackRates returns a fresh copy of the built-in rate table.
func FallbackRates() map[core.Currency]float64 {
	return map[core.Currency]float64{
		core.USD:  1,
		core.ILS:  defaultILS,
		core.GBP:  defaultGBP,
		core.EURO: defaultEURO,
	}
}

// FallbackTable is the table substituted when fetching fails.
func FallbackTable() RateTable {
	return RateTable{
		Rates:     FallbackRates(),
		Fallback:  true,
		FetchedAt: time.Now(),
	}
}

// Rate returns the rate for c. Missing and zero rates count as 1.
func (t RateTable) Rate(c core.Currency) decimal.Decimal {
	r, ok := t.Rates[c]
	if !ok || r == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(r)
}
