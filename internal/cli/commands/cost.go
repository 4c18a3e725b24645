package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"costs/internal/core"
)

type addCmd struct {
	*globals
	sum         string
	currency    string
	category    string
	description string
	year        int
	month       int
	day         int
}

func newAddCmd(g *globals) *cobra.Command {
	ac := &addCmd{globals: g}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a cost",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.sum, "sum", "", "Amount, e.g. 12.50 or 12,50")
	cmd.Flags().StringVar(&ac.currency, "currency", string(core.USD), "Currency code (USD, ILS, GBP, EURO)")
	cmd.Flags().StringVar(&ac.category, "category", "", "Category, e.g. Food")
	cmd.Flags().StringVar(&ac.description, "description", "", "What the cost was for")
	cmd.Flags().IntVar(&ac.year, "year", 0, "Year (default: today)")
	cmd.Flags().IntVar(&ac.month, "month", 0, "Month (default: today)")
	cmd.Flags().IntVar(&ac.day, "day", 0, "Day (default: today)")

	_ = cmd.MarkFlagRequired("sum")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func (ac *addCmd) run(cmd *cobra.Command, args []string) error {
	sum, err := core.ParseSum(ac.sum)
	if err != nil {
		return err
	}
	item := core.CostItem{
		Sum:         sum,
		Currency:    parseTarget(ac.currency),
		Category:    core.Category(ac.category),
		Description: ac.description,
		Year:        ac.year,
		Month:       ac.month,
		Day:         ac.day,
	}

	return ac.globals.run(cmd, func(ctx context.Context, svc Service) error {
		stored, err := svc.AddCost(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to add cost: %w", err)
		}
		if ac.json {
			return ac.writeJSON(stored)
		}
		fmt.Fprintf(ac.out, "added %s %s %s (%s) on %04d-%02d-%02d\n",
			stored.Sum.StringFixed(2), stored.Currency, stored.Description, stored.Category,
			stored.Year, stored.Month, stored.Day)
		return nil
	})
}

type listCmd struct {
	*globals
	year  int
	month int
}

func newListCmd(g *globals) *cobra.Command {
	lc := &listCmd{globals: g}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded costs",
		RunE:  lc.run,
	}
	cmd.Flags().IntVar(&lc.year, "year", 0, "Only costs of this year")
	cmd.Flags().IntVar(&lc.month, "month", 0, "Only costs of this month (requires --year)")
	return cmd
}

func (lc *listCmd) run(cmd *cobra.Command, args []string) error {
	if lc.month != 0 && lc.year == 0 {
		return fmt.Errorf("--month requires --year")
	}

	return lc.globals.run(cmd, func(ctx context.Context, svc Service) error {
		var (
			costs []core.Cost
			err   error
		)
		switch {
		case lc.month != 0:
			costs, err = svc.CostsByYearMonth(ctx, lc.year, lc.month)
		case lc.year != 0:
			costs, err = svc.CostsByYear(ctx, lc.year)
		default:
			costs, err = svc.AllCosts(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list costs: %w", err)
		}
		if costs == nil {
			costs = []core.Cost{}
		}
		if lc.json {
			return lc.writeJSON(costs)
		}
		return lc.table("ID\tDATE\tSUM\tCURRENCY\tCATEGORY\tDESCRIPTION", func(w io.Writer) {
			for _, c := range costs {
				fmt.Fprintf(w, "%d\t%04d-%02d-%02d\t%s\t%s\t%s\t%s\n",
					c.ID, c.Year, c.Month, c.Day, c.Sum.StringFixed(2), c.Currency, c.Category, c.Description)
			}
		})
	})
}
