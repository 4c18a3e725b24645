package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"costs/internal/core"
	applog "costs/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the SQLite cost store.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewRepositoryWithDB(db), nil
}

// NewRepositoryWithDB wraps an open database that already has the costs
// schema.
func NewRepositoryWithDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

func (r *SQLiteRepository) InsertCost(ctx context.Context, item core.CostItem) (int64, error) {
	id, err := r.queries.InsertCost(ctx, InsertCostParams{
		Sum:         item.Sum.String(),
		Currency:    string(item.Currency),
		Category:    string(item.Category),
		Description: item.Description,
		Year:        int64(item.Year),
		Month:       int64(item.Month),
		Day:         int64(item.Day),
		CreatedAt:   r.now().UTC(),
	})
	if err != nil {
		return 0, &Error{Op: "insert cost", Err: err}
	}

	slog.InfoContext(ctx, "Cost saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldCostID, id,
		"sum", item.Sum.String(),
		applog.FieldCurrency, item.Currency,
		applog.FieldCategory, item.Category,
		applog.FieldYear, item.Year,
		applog.FieldMonth, item.Month,
		"day", item.Day)

	return id, nil
}

func (r *SQLiteRepository) CostsByYearMonth(ctx context.Context, year, month int) ([]core.Cost, error) {
	rows, err := r.queries.ListCostsByYearMonth(ctx, int64(year), int64(month))
	if err != nil {
		return nil, &Error{Op: "list costs by year and month", Err: err}
	}
	return toCosts(rows)
}

func (r *SQLiteRepository) CostsByYear(ctx context.Context, year int) ([]core.Cost, error) {
	rows, err := r.queries.ListCostsByYear(ctx, int64(year))
	if err != nil {
		return nil, &Error{Op: "list costs by year", Err: err}
	}
	return toCosts(rows)
}

func (r *SQLiteRepository) AllCosts(ctx context.Context) ([]core.Cost, error) {
	rows, err := r.queries.ListCosts(ctx)
	if err != nil {
		return nil, &Error{Op: "list costs", Err: err}
	}
	return toCosts(rows)
}

func (r *SQLiteRepository) CostByID(ctx context.Context, id int64) (core.Cost, error) {
	row, err := r.queries.GetCost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Cost{}, fmt.Errorf("cost %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Cost{}, &Error{Op: "get cost", Err: err}
	}
	return toCost(row)
}

func toCosts(rows []CostRow) ([]core.Cost, error) {
	costs := make([]core.Cost, 0, len(rows))
	for _, row := range rows {
		c, err := toCost(row)
		if err != nil {
			return nil, err
		}
		costs = append(costs, c)
	}
	return costs, nil
}

func toCost(row CostRow) (core.Cost, error) {
	sum, err := decimal.NewFromString(row.Sum)
	if err != nil {
		return core.Cost{}, &Error{Op: "decode cost sum", Err: fmt.Errorf("cost %d: %w", row.ID, err)}
	}
	return core.Cost{
		ID: row.ID,
		CostItem: core.CostItem{
			Sum:         sum,
			Currency:    core.Currency(row.Currency),
			Category:    core.Category(row.Category),
			Description: row.Description,
			Year:        int(row.Year),
			Month:       int(row.Month),
			Day:         int(row.Day),
		},
		CreatedAt: row.CreatedAt,
	}, nil
}
