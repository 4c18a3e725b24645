package core

import "github.com/shopspring/decimal"

// ReportItem is one cost converted into the report currency.
type ReportItem struct {
	Sum         decimal.Decimal `json:"sum"`
	Currency    Currency        `json:"currency"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Day         int             `json:"day"`
}

type ReportTotal struct {
	Currency Currency        `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

// Report is the monthly itemized view of costs in a single currency.
// FallbackRates is set when the conversion used the built-in rate table
// because the rate source could not be read.
type Report struct {
	Year          int          `json:"year"`
	Month         int          `json:"month"`
	Costs         []ReportItem `json:"costs"`
	Total         ReportTotal  `json:"total"`
	FallbackRates bool         `json:"fallback_rates"`
}

// ChartRow is one slice of a category chart or one bar of a monthly chart.
type ChartRow struct {
	Name  string          `json:"name"`
	Month int             `json:"month,omitempty"`
	Value decimal.Decimal `json:"value"`
}
