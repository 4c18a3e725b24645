// Package postgres is the PostgreSQL cost store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"costs/internal/core"
	applog "costs/internal/log"
	"costs/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS costs (
    id          BIGSERIAL PRIMARY KEY,
    sum         NUMERIC       NOT NULL CHECK (sum > 0),
    currency    TEXT          NOT NULL,
    category    TEXT          NOT NULL,
    description TEXT          NOT NULL,
    year        INTEGER       NOT NULL,
    month       INTEGER       NOT NULL CHECK (month BETWEEN 1 AND 12),
    day         INTEGER       NOT NULL CHECK (day BETWEEN 1 AND 31),
    created_at  TIMESTAMPTZ   NOT NULL DEFAULT now()
);
ALTER TABLE costs ALTER COLUMN sum TYPE NUMERIC;
CREATE INDEX IF NOT EXISTS idx_costs_year ON costs(year);
CREATE INDEX IF NOT EXISTS idx_costs_month ON costs(month);
CREATE INDEX IF NOT EXISTS idx_costs_year_month ON costs(year, month);
CREATE INDEX IF NOT EXISTS idx_costs_category ON costs(category);
`

const selectCosts = `SELECT id, sum::text, currency, category, description, year, month, day, created_at FROM costs`

type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Repository)(nil)

// New connects to dsn and makes sure the costs table exists.
func New(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	slog.InfoContext(ctx, "Connected to PostgreSQL cost store", applog.FieldComponent, applog.ComponentStorage)
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return &storage.Error{Op: "ping", Err: err}
	}
	return nil
}

func (r *Repository) InsertCost(ctx context.Context, item core.CostItem) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO costs (sum, currency, category, description, year, month, day)
		 VALUES ($1::numeric, $2, $3, $4, $5, $6, $7) RETURNING id`,
		item.Sum.String(), string(item.Currency), string(item.Category), item.Description,
		item.Year, item.Month, item.Day,
	).Scan(&id)
	if err != nil {
		return 0, &storage.Error{Op: "insert cost", Err: err}
	}

	slog.InfoContext(ctx, "Cost saved to PostgreSQL",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldCostID, id,
		"sum", item.Sum.String(),
		applog.FieldCurrency, item.Currency,
		applog.FieldCategory, item.Category)
	return id, nil
}

func (r *Repository) CostsByYearMonth(ctx context.Context, year, month int) ([]core.Cost, error) {
	return r.list(ctx, "list costs by year and month",
		selectCosts+` WHERE year = $1 AND month = $2 ORDER BY id`, year, month)
}

func (r *Repository) CostsByYear(ctx context.Context, year int) ([]core.Cost, error) {
	return r.list(ctx, "list costs by year", selectCosts+` WHERE year = $1 ORDER BY id`, year)
}

func (r *Repository) AllCosts(ctx context.Context) ([]core.Cost, error) {
	return r.list(ctx, "list costs", selectCosts+` ORDER BY id`)
}

func (r *Repository) CostByID(ctx context.Context, id int64) (core.Cost, error) {
	c, err := scanCost(r.pool.QueryRow(ctx, selectCosts+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Cost{}, fmt.Errorf("cost %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return core.Cost{}, &storage.Error{Op: "get cost", Err: err}
	}
	return c, nil
}

func (r *Repository) list(ctx context.Context, op, query string, args ...any) ([]core.Cost, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &storage.Error{Op: op, Err: err}
	}
	defer rows.Close()

	costs := make([]core.Cost, 0)
	for rows.Next() {
		c, err := scanCost(rows)
		if err != nil {
			return nil, &storage.Error{Op: op, Err: err}
		}
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.Error{Op: op, Err: err}
	}
	return costs, nil
}

func scanCost(row pgx.Row) (core.Cost, error) {
	var (
		c        core.Cost
		sum      string
		cur, cat string
	)
	if err := row.Scan(&c.ID, &sum, &cur, &cat, &c.Description, &c.Year, &c.Month, &c.Day, &c.CreatedAt); err != nil {
		return core.Cost{}, err
	}
	d, err := decimal.NewFromString(sum)
	if err != nil {
		return core.Cost{}, fmt.Errorf("decode sum of cost %d: %w", c.ID, err)
	}
	c.Sum = d
	c.Currency = core.Currency(cur)
	c.Category = core.Category(cat)
	return c, nil
}
