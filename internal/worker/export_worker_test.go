package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"costs/internal/amqp"
	"costs/internal/core"
	"costs/internal/storage/memory"
)

type recordingAppender struct {
	rows []core.Cost
	err  error
}

func (r *recordingAppender) Append(_ context.Context, c core.Cost) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.rows = append(r.rows, c)
	return "Costs!A2:F2", nil
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	_, err := s.InsertCost(context.Background(), core.CostItem{
		Sum:         decimal.RequireFromString("4.20"),
		Currency:    core.GBP,
		Category:    core.Transportation,
		Description: "bus",
		Year:        2024,
		Month:       2,
		Day:         29,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestHandleCostAdded(t *testing.T) {
	app := &recordingAppender{}
	w := NewExportWorker(seededStore(t), app)

	if err := w.HandleCostAdded(context.Background(), amqp.NewCostAddedMessage(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(app.rows) != 1 || app.rows[0].Description != "bus" || app.rows[0].ID != 1 {
		t.Fatalf("unexpected exported rows: %+v", app.rows)
	}
}

func TestHandleCostAddedUnknownID(t *testing.T) {
	app := &recordingAppender{}
	w := NewExportWorker(seededStore(t), app)

	if err := w.HandleCostAdded(context.Background(), amqp.NewCostAddedMessage(99)); err != nil {
		t.Fatalf("unknown ids must be acknowledged, got %v", err)
	}
	if len(app.rows) != 0 {
		t.Fatalf("nothing should be exported, got %+v", app.rows)
	}
}

func TestHandleCostAddedAppendFailure(t *testing.T) {
	sheetErr := errors.New("quota exceeded")
	w := NewExportWorker(seededStore(t), &recordingAppender{err: sheetErr})

	err := w.HandleCostAdded(context.Background(), amqp.NewCostAddedMessage(1))
	if !errors.Is(err, sheetErr) {
		t.Fatalf("expected append error to be returned for redelivery, got %v", err)
	}
}
