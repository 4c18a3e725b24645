package storage

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costs/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "costs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func item(sum string, cur core.Currency, cat core.Category, y, m, d int) core.CostItem {
	return core.CostItem{
		Sum:         decimal.RequireFromString(sum),
		Currency:    cur,
		Category:    cat,
		Description: "test " + string(cat),
		Year:        y,
		Month:       m,
		Day:         d,
	}
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := item("12.34", core.ILS, core.Food, 2024, 3, 15)
	id, err := repo.InsertCost(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got, err := repo.CostByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, got.Sum.Equal(in.Sum), "sum %s", got.Sum)
	assert.Equal(t, "12.34", got.Sum.String())
	assert.Equal(t, in.Currency, got.Currency)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, 3, got.Month)
	assert.Equal(t, 15, got.Day)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLiteRepositoryQueries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, it := range []core.CostItem{
		item("10", core.USD, core.Food, 2024, 1, 5),
		item("20", core.USD, core.Bills, 2024, 2, 5),
		item("30", core.EURO, core.Food, 2024, 1, 20),
		item("40", core.GBP, core.Other, 2023, 1, 1),
	} {
		_, err := repo.InsertCost(ctx, it)
		require.NoError(t, err)
	}

	jan, err := repo.CostsByYearMonth(ctx, 2024, 1)
	require.NoError(t, err)
	require.Len(t, jan, 2)
	assert.Equal(t, int64(1), jan[0].ID)
	assert.Equal(t, int64(3), jan[1].ID)

	y2024, err := repo.CostsByYear(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, y2024, 3)

	all, err := repo.AllCosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	none, err := repo.CostsByYearMonth(ctx, 2025, 6)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRepositoryNotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CostByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRepositoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "costs.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	_, err = repo.InsertCost(context.Background(), item("1.50", core.USD, core.Health, 2024, 6, 1))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()
	all, err := repo.AllCosts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "1.5", all[0].Sum.String())
}

func newMockRepo(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewRepositoryWithDB(db)
	repo.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestSQLiteRepositoryInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(insertCost)).
		WithArgs("9.99", "USD", "Food", "test Food", int64(2024), int64(3), int64(1), sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	_, err := repo.InsertCost(context.Background(), item("9.99", core.USD, core.Food, 2024, 3, 1))

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "insert cost", serr.Op)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepositoryListError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(listCostsByYearMonth)).
		WithArgs(int64(2024), int64(3)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.CostsByYearMonth(context.Background(), 2024, 3)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "list costs by year and month", serr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepositoryCorruptSum(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "sum", "currency", "category", "description", "year", "month", "day", "created_at"}).
		AddRow(int64(1), "12.5", "USD", "Food", "ok", int64(2024), int64(1), int64(1), time.Now()).
		AddRow(int64(2), "twelve", "USD", "Food", "bad", int64(2024), int64(1), int64(2), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(listCosts)).WillReturnRows(rows)

	_, err := repo.AllCosts(context.Background())

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "decode cost sum", serr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepositoryGetCostMock(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(getCost)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sum", "currency", "category", "description", "year", "month", "day", "created_at"}).
			AddRow(int64(7), "3.10", "GBP", "Shopping", "socks", int64(2024), int64(5), int64(2), created))
	mock.ExpectQuery(regexp.QuoteMeta(getCost)).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, err := repo.CostByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, core.GBP, c.Currency)
	assert.True(t, c.Sum.Equal(decimal.RequireFromString("3.1")))
	assert.Equal(t, created, c.CreatedAt)

	_, err = repo.CostByID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
