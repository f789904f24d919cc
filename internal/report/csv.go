// Package report renders transactions as CSV and expenses as a pie chart.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"budget-tracker/internal/models"
)

// CSVHeader is the first record of every export.
var CSVHeader = []string{"type", "amount", "category", "description", "date"}

// CSVFilename is the suggested download name.
const CSVFilename = "transactions.csv"

// WriteCSV writes a header and one record per transaction in the given order.
func WriteCSV(w io.Writer, rows []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, t := range rows {
		rec := []string{
			string(t.Type),
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Category,
			t.Description,
			t.Date.Format(models.DateLayout),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write transaction %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
