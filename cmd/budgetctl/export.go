package main

import (
	"fmt"
	"os"

	"budget-tracker/internal/models"
	"budget-tracker/internal/report"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	var start, end, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions as CSV",
		Long:  "Write transactions as CSV to stdout, or to the file given by --out.",
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

			if outPath == "" {
				if err := report.WriteCSV(cmd.OutOrStdout(), rows); err != nil {
					return fmt.Errorf("failed to write csv: %w", err)
				}
				return nil
			}

			if err := writeCSVFile(outPath, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d transactions to %s\n", len(rows), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// writeCSVFile writes rows to path and reports a failed close.
func writeCSVFile(path string, rows []models.Transaction) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := report.WriteCSV(f, rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
