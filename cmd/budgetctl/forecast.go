package main

import (
	"fmt"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/currency"
	"budget-tracker/internal/storage"

	"github.com/spf13/cobra"
)

func newForecastCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast",
		Short: "Predict next month's expenses from monthly history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, user, err := openUser(ctx, opts)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.ListTransactions(ctx, user.ID, storage.DateRange{})
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			months := analytics.MonthlyExpenses(rows)
			history := make([]row, 0, len(months)+1)
			for _, m := range months {
				history = append(history, row{m.Month.Format("Jan 2006"), currency.Format(m.Amount, opts.currency), expenseStyle})
			}

			forecast := analytics.InsufficientDataLabel
			if v, ok := analytics.Forecast(rows); ok {
				forecast = currency.Format(v, opts.currency)
			}
			history = append(history, row{"Next month", forecast, headerStyle})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTitle("Expense forecast"))
			fmt.Fprintln(out)
			fmt.Fprint(out, renderSection("Monthly expenses", history))
			return nil
		},
	}
}
