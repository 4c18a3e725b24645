// Package storage persists cost records.
package storage

import (
	"context"
	"errors"
	"fmt"

	"costs/internal/core"
)

// ErrNotFound is returned by CostByID when no record has the given id.
var ErrNotFound = errors.New("cost not found")

// Error is a failure of the backing store. Op names the operation that
// failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CostWriter stores new costs and returns the assigned id.
type CostWriter interface {
	InsertCost(ctx context.Context, item core.CostItem) (int64, error)
}

// CostReader queries stored costs. Results are ordered by id.
type CostReader interface {
	CostsByYearMonth(ctx context.Context, year, month int) ([]core.Cost, error)
	CostsByYear(ctx context.Context, year int) ([]core.Cost, error)
	AllCosts(ctx context.Context) ([]core.Cost, error)
	CostByID(ctx context.Context, id int64) (core.Cost, error)
}

// Store is a complete cost store.
type Store interface {
	CostWriter
	CostReader
	Close() error
}
