package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/models"
	"budget-tracker/internal/storage"

	"github.com/spf13/cobra"
)

const defaultDBPath = "budget.db"

// options holds the persistent flags shared by every subcommand.
type options struct {
	dbPath   string
	username string
	currency string
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "budgetctl",
		Short:         "Budget tracker CLI",
		Long:          "Summarize, forecast, export and seed budget tracker data without the web UI.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// DB_PATH applies only when --db was not given explicitly.
			if path := os.Getenv("DB_PATH"); path != "" && !cmd.Flags().Changed("db") {
				opts.dbPath = path
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDBPath, "Path to database file")
	rootCmd.PersistentFlags().StringVarP(&opts.username, "user", "u", "", "Username whose data to use")
	rootCmd.PersistentFlags().StringVarP(&opts.currency, "currency", "c", "USD", "Display currency")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newForecastCmd(opts),
		newExportCmd(opts),
		newSeedCmd(opts),
	)
	return rootCmd
}

// openUser opens the database and resolves the --user flag.
// The caller closes the returned DB.
func openUser(ctx context.Context, opts *options) (*storage.DB, *models.User, error) {
	name := strings.TrimSpace(opts.username)
	if name == "" {
		return nil, nil, errors.New("--user is required")
	}

	db, err := storage.NewDB(opts.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	user, err := db.GetUserByUsername(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		db.Close()
		return nil, nil, fmt.Errorf("user %s not found", name)
	}
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}
	return db, user, nil
}

// parseRange turns --start/--end flag values into a storage range.
func parseRange(start, end string) (storage.DateRange, error) {
	var r storage.DateRange
	var err error
	if start != "" {
		if r.From, err = time.ParseInLocation(analytics.InputDateLayout, start, time.Local); err != nil {
			return r, fmt.Errorf("invalid --start %q: want YYYY-MM-DD", start)
		}
	}
	if end != "" {
		if r.To, err = time.ParseInLocation(analytics.InputDateLayout, end, time.Local); err != nil {
			return r, fmt.Errorf("invalid --end %q: want YYYY-MM-DD", end)
		}
	}
	return r, nil
}
