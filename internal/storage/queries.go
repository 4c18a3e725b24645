package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// CostRow mirrors a row of the costs table. Sum is kept as decimal text.
type CostRow struct {
	ID          int64
	Sum         string
	Currency    string
	Category    string
	Description string
	Year        int64
	Month       int64
	Day         int64
	CreatedAt   time.Time
}

const insertCost = `INSERT INTO costs (sum, currency, category, description, year, month, day, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type InsertCostParams struct {
	Sum         string
	Currency    string
	Category    string
	Description string
	Year        int64
	Month       int64
	Day         int64
	CreatedAt   time.Time
}

func (q *Queries) InsertCost(ctx context.Context, arg InsertCostParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertCost,
		arg.Sum,
		arg.Currency,
		arg.Category,
		arg.Description,
		arg.Year,
		arg.Month,
		arg.Day,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const costColumns = `id, sum, currency, category, description, year, month, day, created_at`

const getCost = `SELECT ` + costColumns + ` FROM costs WHERE id = ?`

func (q *Queries) GetCost(ctx context.Context, id int64) (CostRow, error) {
	row := q.db.QueryRowContext(ctx, getCost, id)
	var i CostRow
	err := row.Scan(
		&i.ID,
		&i.Sum,
		&i.Currency,
		&i.Category,
		&i.Description,
		&i.Year,
		&i.Month,
		&i.Day,
		&i.CreatedAt,
	)
	return i, err
}

const listCostsByYearMonth = `SELECT ` + costColumns + ` FROM costs WHERE year = ? AND month = ? ORDER BY id`

func (q *Queries) ListCostsByYearMonth(ctx context.Context, year, month int64) ([]CostRow, error) {
	return q.list(ctx, listCostsByYearMonth, year, month)
}

const listCostsByYear = `SELECT ` + costColumns + ` FROM costs WHERE year = ? ORDER BY id`

func (q *Queries) ListCostsByYear(ctx context.Context, year int64) ([]CostRow, error) {
	return q.list(ctx, listCostsByYear, year)
}

const listCosts = `SELECT ` + costColumns + ` FROM costs ORDER BY id`

func (q *Queries) ListCosts(ctx context.Context) ([]CostRow, error) {
	return q.list(ctx, listCosts)
}

func (q *Queries) list(ctx context.Context, query string, args ...interface{}) ([]CostRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CostRow
	for rows.Next() {
		var i CostRow
		if err := rows.Scan(
			&i.ID,
			&i.Sum,
			&i.Currency,
			&i.Category,
			&i.Description,
			&i.Year,
			&i.Month,
			&i.Day,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
