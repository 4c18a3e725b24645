// Package report turns stored costs into reports and chart series in a
// single currency.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"costs/internal/core"
	"costs/internal/currency"
)

// Build converts every cost of the month into target and totals them.
func Build(year, month int, costs []core.Cost, target core.Currency, rates currency.RateTable) core.Report {
	items := make([]core.ReportItem, 0, len(costs))
	total := decimal.Zero
	for _, c := range costs {
		sum := currency.Convert(c.Sum, c.Currency, target, rates)
		items = append(items, core.ReportItem{
			Sum:         sum,
			Currency:    target,
			Category:    c.Category,
			Description: c.Description,
			Day:         c.Day,
		})
		total = total.Add(sum)
	}
	return core.Report{
		Year:          year,
		Month:         month,
		Costs:         items,
		Total:         core.ReportTotal{Currency: target, Total: core.Round2(total)},
		FallbackRates: rates.Fallback,
	}
}

// ByCategory sums costs per category present in the input, sorted by name.
func ByCategory(costs []core.Cost, target core.Currency, rates currency.RateTable) []core.ChartRow {
	sums := make(map[core.Category]decimal.Decimal)
	for _, c := range costs {
		sums[c.Category] = sums[c.Category].Add(currency.Convert(c.Sum, c.Currency, target, rates))
	}

	rows := make([]core.ChartRow, 0, len(sums))
	for cat, v := range sums {
		rows = append(rows, core.ChartRow{Name: string(cat), Value: core.Round2(v)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// ByMonth returns twelve rows, January to December. Months without costs
// are zero; costs with a month outside 1-12 are ignored.
func ByMonth(costs []core.Cost, target core.Currency, rates currency.RateTable) []core.ChartRow {
	var sums [12]decimal.Decimal
	for _, c := range costs {
		if c.Month < 1 || c.Month > 12 {
			continue
		}
		sums[c.Month-1] = sums[c.Month-1].Add(currency.Convert(c.Sum, c.Currency, target, rates))
	}

	rows := make([]core.ChartRow, 12)
	for i := range sums {
		rows[i] = core.ChartRow{
			Name:  time.Month(i + 1).String()[:3],
			Month: i + 1,
			Value: core.Round2(sums[i]),
		}
	}
	return rows
}
