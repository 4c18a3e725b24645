// Package worker exports stored costs announced over AMQP.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"costs/internal/amqp"
	applog "costs/internal/log"
	"costs/internal/sheets"
	"costs/internal/storage"
)

// ExportWorker copies each announced cost into the spreadsheet.
type ExportWorker struct {
	costs  storage.CostReader
	sheets sheets.CostAppender
}

func NewExportWorker(costs storage.CostReader, sheets sheets.CostAppender) *ExportWorker {
	return &ExportWorker{costs: costs, sheets: sheets}
}

// HandleCostAdded loads the cost by id and appends it. Unknown ids are
// logged and acknowledged; any other failure is returned so the message is
// redelivered.
func (w *ExportWorker) HandleCostAdded(ctx context.Context, msg *amqp.CostAddedMessage) error {
	slog.InfoContext(ctx, "Processing cost added message", applog.FieldComponent, applog.ComponentWorker, applog.FieldCostID, msg.ID, "published_at", msg.Timestamp)

	cost, err := w.costs.CostByID(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Cost not found, skipping export", applog.FieldComponent, applog.ComponentWorker, applog.FieldCostID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load cost %d: %w", msg.ID, err)
	}

	ref, err := w.sheets.Append(ctx, cost)
	if err != nil {
		return fmt.Errorf("export cost %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Cost exported", applog.FieldComponent, applog.ComponentWorker, applog.FieldCostID, cost.ID, "ref", ref)
	return nil
}
