package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"costs/internal/core"
	"costs/internal/currency"
	applog "costs/internal/log"
	"costs/internal/report"
	"costs/internal/storage"
)

// Publisher announces stored costs to other processes.
type Publisher interface {
	PublishCostAdded(ctx context.Context, id int64) error
}

// CostService records costs and builds reports over them.
type CostService struct {
	store     storage.Store
	rates     currency.Source
	publisher Publisher
	now       func() time.Time
}

type Option func(*CostService)

// WithPublisher enables cost-added events.
func WithPublisher(p Publisher) Option {
	return func(s *CostService) { s.publisher = p }
}

// WithClock overrides the clock used to date costs submitted without a date.
func WithClock(now func() time.Time) Option {
	return func(s *CostService) { s.now = now }
}

func NewCostService(store storage.Store, rates currency.Source, opts ...Option) *CostService {
	s := &CostService{
		store: store,
		rates: rates,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCost validates and stores a cost. Date fields left at zero are taken
// from today's date; a borrowed day is clamped to the last day of the
// chosen month. The stored fields are returned.
func (s *CostService) AddCost(ctx context.Context, item core.CostItem) (core.CostItem, error) {
	today := s.now()
	if item.Year == 0 {
		item.Year = today.Year()
	}
	if item.Month == 0 {
		item.Month = int(today.Month())
	}
	if item.Day == 0 {
		item.Day = today.Day()
		if item.Year >= 1 && item.Month >= 1 && item.Month <= 12 {
			item.Day = min(item.Day, core.DaysIn(item.Year, item.Month))
		}
	}
	if err := item.Validate(); err != nil {
		return core.CostItem{}, err
	}

	id, err := s.store.InsertCost(ctx, item)
	if err != nil {
		return core.CostItem{}, fmt.Errorf("save cost: %w", err)
	}

	slog.InfoContext(ctx, "Cost added",
		applog.FieldComponent, applog.ComponentCosts,
		applog.FieldCostID, id,
		"sum", item.Sum.String(),
		applog.FieldCurrency, item.Currency,
		applog.FieldCategory, item.Category,
		"date", item.Date().Format(time.DateOnly))

	if s.publisher != nil {
		if err := s.publisher.PublishCostAdded(ctx, id); err != nil {
			// The cost is stored; export catches up on the next event.
			slog.ErrorContext(ctx, "Failed to publish cost added event",
				applog.FieldComponent, applog.ComponentCosts,
				applog.FieldCostID, id,
				applog.FieldError, err)
		}
	}
	return item, nil
}

func (s *CostService) CostsByYearMonth(ctx context.Context, year, month int) ([]core.Cost, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, err
	}
	return s.store.CostsByYearMonth(ctx, year, month)
}

func (s *CostService) CostsByYear(ctx context.Context, year int) ([]core.Cost, error) {
	return s.store.CostsByYear(ctx, year)
}

func (s *CostService) AllCosts(ctx context.Context) ([]core.Cost, error) {
	return s.store.AllCosts(ctx)
}

// Report converts the costs of one month into target and totals them.
func (s *CostService) Report(ctx context.Context, year, month int, target core.Currency) (core.Report, error) {
	if err := core.ValidateMonth(month); err != nil {
		return core.Report{}, err
	}
	if err := core.ValidateCurrency(target); err != nil {
		return core.Report{}, err
	}

	costs, rates, err := s.load(ctx, func(ctx context.Context) ([]core.Cost, error) {
		return s.store.CostsByYearMonth(ctx, year, month)
	})
	if err != nil {
		return core.Report{}, err
	}

	r := report.Build(year, month, costs, target, rates)
	slog.DebugContext(ctx, "Report built",
		applog.FieldComponent, applog.ComponentCosts,
		applog.FieldYear, year,
		applog.FieldMonth, month,
		applog.FieldCurrency, target,
		"items", len(r.Costs),
		"fallback_rates", rates.Fallback)
	return r, nil
}

// CategoryChart totals the month's costs per category in target. The
// returned flag reports whether fallback rates were used.
func (s *CostService) CategoryChart(ctx context.Context, year, month int, target core.Currency) ([]core.ChartRow, bool, error) {
	if err := core.ValidateMonth(month); err != nil {
		return nil, false, err
	}
	if err := core.ValidateCurrency(target); err != nil {
		return nil, false, err
	}
	costs, rates, err := s.load(ctx, func(ctx context.Context) ([]core.Cost, error) {
		return s.store.CostsByYearMonth(ctx, year, month)
	})
	if err != nil {
		return nil, false, err
	}
	return report.ByCategory(costs, target, rates), rates.Fallback, nil
}

// MonthlyChart totals the year's costs per month in target.
func (s *CostService) MonthlyChart(ctx context.Context, year int, target core.Currency) ([]core.ChartRow, bool, error) {
	if err := core.ValidateCurrency(target); err != nil {
		return nil, false, err
	}
	costs, rates, err := s.load(ctx, func(ctx context.Context) ([]core.Cost, error) {
		return s.store.CostsByYear(ctx, year)
	})
	if err != nil {
		return nil, false, err
	}
	return report.ByMonth(costs, target, rates), rates.Fallback, nil
}

// Rates returns the current rate table.
func (s *CostService) Rates(ctx context.Context) (currency.RateTable, error) {
	return s.rates.Fetch(ctx)
}

// load reads costs and rates concurrently.
func (s *CostService) load(ctx context.Context, costsFn func(context.Context) ([]core.Cost, error)) ([]core.Cost, currency.RateTable, error) {
	var (
		costs []core.Cost
		rates currency.RateTable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		costs, err = costsFn(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rates, err = s.rates.Fetch(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, currency.RateTable{}, err
	}
	return costs, rates, nil
}

// Close releases the store and the publisher.
func (s *CostService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close cost service: %w", errors.Join(errs...))
	}
	return nil
}
