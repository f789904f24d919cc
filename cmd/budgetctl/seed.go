package main

import (
	"errors"
	"fmt"
	"time"

	"budget-tracker/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
)

var seedCategories = []string{"Food", "Transport", "Shopping", "Entertainment", "Bills", "Health", "Other"}

func newSeedCmd(opts *options) *cobra.Command {
	var (
		count  int
		months int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert random demo transactions",
		Long:  "Insert random expenses spread over the last --months months, plus one salary per month.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return errors.New("--count cannot be negative")
			}
			if months < 1 {
				return errors.New("--months must be at least 1")
			}

			ctx := cmd.Context()
			db, user, err := openUser(ctx, opts)
			if err != nil {
				return err
			}
			defer db.Close()

			rows := fakeTransactions(gofakeit.New(seed), user.ID, count, months, time.Now())
			for i := range rows {
				if err := db.CreateTransaction(ctx, &rows[i]); err != nil {
					return fmt.Errorf("failed to insert transaction: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d transactions for %s\n", len(rows), user.Username)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 50, "Number of expenses to generate")
	cmd.Flags().IntVarP(&months, "months", "m", 3, "Spread transactions over this many months")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}

// fakeTransactions builds count expenses dated within the last months months
// and one income on the first day of each of those months.
func fakeTransactions(f *gofakeit.Faker, userID int64, count, months int, now time.Time) []models.Transaction {
	from := now.AddDate(0, -months, 0)
	out := make([]models.Transaction, 0, count+months)

	for i := months - 1; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		out = append(out, models.Transaction{
			UserID:      userID,
			Type:        models.Income,
			Amount:      f.Price(2000, 4000),
			Category:    "Salary",
			Description: "Monthly salary",
			Date:        time.Date(m.Year(), m.Month(), 1, 9, 0, 0, 0, now.Location()),
		})
	}

	for range count {
		out = append(out, models.Transaction{
			UserID:      userID,
			Type:        models.Expense,
			Amount:      f.Price(1, 200),
			Category:    f.RandomString(seedCategories),
			Description: f.Sentence(3),
			Date:        f.DateRange(from, now).In(now.Location()).Truncate(time.Second),
		})
	}
	return out
}
