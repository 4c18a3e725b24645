// Package commands implements the costctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"costs/internal/core"
	"costs/internal/currency"
)

// Service is the part of the cost service driven from the command line.
type Service interface {
	AddCost(ctx context.Context, item core.CostItem) (core.CostItem, error)
	CostsByYearMonth(ctx context.Context, year, month int) ([]core.Cost, error)
	CostsByYear(ctx context.Context, year int) ([]core.Cost, error)
	AllCosts(ctx context.Context) ([]core.Cost, error)
	Report(ctx context.Context, year, month int, target core.Currency) (core.Report, error)
	CategoryChart(ctx context.Context, year, month int, target core.Currency) ([]core.ChartRow, bool, error)
	MonthlyChart(ctx context.Context, year int, target core.Currency) ([]core.ChartRow, bool, error)
	Rates(ctx context.Context) (currency.RateTable, error)
}

// Provider opens the service for one command run. The returned func
// releases it.
type Provider func(ctx context.Context) (Service, func() error, error)

type globals struct {
	provider Provider
	out      io.Writer
	json     bool
	timeout  time.Duration
}

// NewRootCmd builds costctl with all subcommands.
func NewRootCmd(provider Provider, out io.Writer) *cobra.Command {
	g := &globals{provider: provider, out: out}
	cmd := &cobra.Command{
		Use:           "costctl",
		Short:         "Record costs and build monthly reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().BoolVar(&g.json, "json", false, "Print JSON instead of a table")
	cmd.PersistentFlags().DurationVar(&g.timeout, "timeout", 60*time.Second, "Deadline for the whole command")

	cmd.AddCommand(
		newAddCmd(g),
		newListCmd(g),
		newReportCmd(g),
		newChartCmd(g),
		newRatesCmd(g),
	)
	return cmd
}

// run opens the service, calls fn and closes the service again.
func (g *globals) run(cmd *cobra.Command, fn func(ctx context.Context, svc Service) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	defer cancel()

	svc, closeFn, err := g.provider(ctx)
	if err != nil {
		return fmt.Errorf("failed to open cost store: %w", err)
	}
	defer func() {
		if closeFn != nil {
			_ = closeFn()
		}
	}()
	return fn(ctx, svc)
}

func (g *globals) writeJSON(v any) error {
	enc := json.NewEncoder(g.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (g *globals) table(header string, rows func(w io.Writer)) error {
	tw := tabwriter.NewWriter(g.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func (g *globals) warnFallback(fallback bool) {
	if fallback && !g.json {
		fmt.Fprintln(g.out, "warning: exchange rate source unavailable, built-in rates used")
	}
}

func parseTarget(s string) core.Currency {
	return core.Currency(strings.ToUpper(strings.TrimSpace(s)))
}
