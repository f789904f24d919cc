package main

import (
	"fmt"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/currency"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *options) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and spending statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rng, err := parseRange(start, end)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, user, err := openUser(ctx, opts)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.ListTransactions(ctx, user.ID, rng)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			money := func(v float64) string { return currency.Format(v, opts.currency) }
			plain := lipgloss.NewStyle()
			totals := analytics.ComputeTotals(rows)

			top := analytics.NoDataLabel
			if t, ok := analytics.HighestSpendingCategory(rows); ok {
				top = fmt.Sprintf("%s (%s)", t.Category, money(t.Amount))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTitle(fmt.Sprintf("Budget summary for %s", user.Username)))
			fmt.Fprintln(out)
			fmt.Fprint(out, renderSection(analytics.TimeRangeLabel(start, end), []row{
				{"Transactions", fmt.Sprintf("%d", len(rows)), plain},
				{"Income", money(totals.Income), incomeStyle},
				{"Expenses", money(totals.Expense), expenseStyle},
				{"Balance", money(totals.Balance), plain},
				{"Top category", top, plain},
				{"Average daily spend", money(analytics.AverageDailySpend(rows)), plain},
			}))

			if cats := analytics.CategoryTotals(rows); len(cats) > 0 {
				fmt.Fprintln(out)
				byCat := make([]row, 0, len(cats))
				for _, c := range cats {
					pct := 0.0
					if totals.Expense > 0 {
						pct = c.Amount / totals.Expense * 100
					}
					byCat = append(byCat, row{c.Category, fmt.Sprintf("%s  %.0f%%", money(c.Amount), pct), expenseStyle})
				}
				fmt.Fprint(out, renderSection("By category", byCat))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	return cmd
}
