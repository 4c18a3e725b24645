package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"costs/internal/core"
)

type reportCmd struct {
	*globals
	currency string
}

func newReportCmd(g *globals) *cobra.Command {
	rc := &reportCmd{globals: g}
	cmd := &cobra.Command{
		Use:   "report YEAR MONTH",
		Short: "Show a month of costs converted into one currency",
		Args:  cobra.ExactArgs(2),
		RunE:  rc.run,
	}
	cmd.Flags().StringVar(&rc.currency, "currency", string(core.USD), "Report currency")
	return cmd
}

func (rc *reportCmd) run(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid month %q", args[1])
	}

	return rc.globals.run(cmd, func(ctx context.Context, svc Service) error {
		rep, err := svc.Report(ctx, year, month, parseTarget(rc.currency))
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if rc.json {
			return rc.writeJSON(rep)
		}
		rc.warnFallback(rep.FallbackRates)
		err = rc.table("DAY\tCATEGORY\tDESCRIPTION\tSUM", func(w io.Writer) {
			for _, it := range rep.Costs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", it.Day, it.Category, it.Description, it.Sum.StringFixed(2))
			}
			fmt.Fprintf(w, "\t\tTOTAL\t%s %s\n", rep.Total.Total.StringFixed(2), rep.Total.Currency)
		})
		return err
	})
}

type chartCmd struct {
	*globals
	year     int
	month    int
	currency string
}

func newChartCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Aggregate costs for charts",
	}

	cc := &chartCmd{globals: g}
	categories := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category for one month",
		RunE:  cc.runCategories,
	}
	categories.Flags().IntVar(&cc.year, "year", 0, "Year")
	categories.Flags().IntVar(&cc.month, "month", 0, "Month")
	categories.Flags().StringVar(&cc.currency, "currency", string(core.USD), "Chart currency")
	_ = categories.MarkFlagRequired("year")
	_ = categories.MarkFlagRequired("month")

	mc := &chartCmd{globals: g}
	months := &cobra.Command{
		Use:   "months",
		Short: "Totals per month for one year",
		RunE:  mc.runMonths,
	}
	months.Flags().IntVar(&mc.year, "year", 0, "Year")
	months.Flags().StringVar(&mc.currency, "currency", string(core.USD), "Chart currency")
	_ = months.MarkFlagRequired("year")

	cmd.AddCommand(categories, months)
	return cmd
}

func (cc *chartCmd) runCategories(cmd *cobra.Command, args []string) error {
	return cc.globals.run(cmd, func(ctx context.Context, svc Service) error {
		rows, fallback, err := svc.CategoryChart(ctx, cc.year, cc.month, parseTarget(cc.currency))
		if err != nil {
			return fmt.Errorf("failed to build category chart: %w", err)
		}
		return cc.print(rows, fallback)
	})
}

func (cc *chartCmd) runMonths(cmd *cobra.Command, args []string) error {
	return cc.globals.run(cmd, func(ctx context.Context, svc Service) error {
		rows, fallback, err := svc.MonthlyChart(ctx, cc.year, parseTarget(cc.currency))
		if err != nil {
			return fmt.Errorf("failed to build monthly chart: %w", err)
		}
		return cc.print(rows, fallback)
	})
}

func (cc *chartCmd) print(rows []core.ChartRow, fallback bool) error {
	if rows == nil {
		rows = []core.ChartRow{}
	}
	if cc.json {
		return cc.writeJSON(struct {
			Rows          []core.ChartRow `json:"rows"`
			FallbackRates bool            `json:"fallback_rates"`
		}{rows, fallback})
	}
	cc.warnFallback(fallback)
	return cc.table("NAME\tVALUE", func(w io.Writer) {
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Value.StringFixed(2))
		}
	})
}

func newRatesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show the current exchange rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, func(ctx context.Context, svc Service) error {
				table, err := svc.Rates(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch rates: %w", err)
				}
				if g.json {
					return g.writeJSON(table)
				}
				g.warnFallback(table.Fallback)
				return g.table("CURRENCY\tRATE", func(w io.Writer) {
					for _, c := range core.Currencies() {
						fmt.Fprintf(w, "%s\t%s\n", c, table.Rate(c).String())
					}
				})
			})
		},
	}
}
