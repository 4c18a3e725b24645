// Package sheets exports costs to spreadsheets.
package sheets

import (
	"context"

	"costs/internal/core"
)

// CostAppender writes one stored cost as a spreadsheet row.
type CostAppender interface {
	Append(ctx context.Context, c core.Cost) (rowRef string, err error)
}
