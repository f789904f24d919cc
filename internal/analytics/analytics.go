// Package analytics computes summaries over a user's transactions.
//
// Every function is pure: callers load rows from storage (optionally
// date-filtered) and pass them in.
package analytics

import (
	"math"
	"sort"
	"time"

	"budget-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Totals holds income, expense and balance sums.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is the summed expense amount of one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthTotal is the summed expense amount of one calendar month.
type MonthTotal struct {
	Month  time.Time `json:"month"`
	Amount float64   `json:"amount"`
}

// ComputeTotals sums income and expense rows.
func ComputeTotals(rows []models.Transaction) Totals {
	var t Totals
	for _, r := range rows {
		switch r.Type {
		case models.Income:
			t.Income += r.Amount
		case models.Expense:
			t.Expense += r.Amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// CategoryTotals groups expense rows by category, largest total first.
// Equal totals are ordered by category name.
func CategoryTotals(rows []models.Transaction) []CategoryTotal {
	sums := make(map[string]float64)
	for _, r := range rows {
		if r.IsExpense() {
			sums[r.Category] += r.Amount
		}
	}

	out := make([]CategoryTotal, 0, len(sums))
	for c, a := range sums {
		out = append(out, CategoryTotal{Category: c, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// HighestSpendingCategory returns the expense category with the largest sum.
// ok is false when rows contain no expenses.
func HighestSpendingCategory(rows []models.Transaction) (top CategoryTotal, ok bool) {
	totals := CategoryTotals(rows)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	return totals[0], true
}

// AverageDailySpend averages the per-calendar-day expense sums.
// Days without expenses do not count. Returns 0 when there are no expenses.
func AverageDailySpend(rows []models.Transaction) float64 {
	days := make(map[string]float64)
	for _, r := range rows {
		if r.IsExpense() {
			days[r.Date.Format("2006-01-02")] += r.Amount
		}
	}
	if len(days) == 0 {
		return 0
	}

	var sum float64
	for _, v := range days {
		sum += v
	}
	return sum / float64(len(days))
}

// MonthlyExpenses buckets expense rows by calendar month, oldest first.
func MonthlyExpenses(rows []models.Transaction) []MonthTotal {
	sums := make(map[time.Time]float64)
	for _, r := range rows {
		if !r.IsExpense() {
			continue
		}
		m := time.Date(r.Date.Year(), r.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		sums[m] += r.Amount
	}

	out := make([]MonthTotal, 0, len(sums))
	for m, a := range sums {
		out = append(out, MonthTotal{Month: m, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}

// Forecast predicts next month's expense total with an ordinary least squares
// line through the monthly totals, using each month's position as x.
// The prediction is floored at zero and rounded to cents.
// ok is false when fewer than two months have expenses or the fit overflows.
func Forecast(rows []models.Transaction) (value float64, ok bool) {
	months := MonthlyExpenses(rows)
	if len(months) < 2 {
		return 0, false
	}

	xs := make([]float64, len(months))
	ys := make([]float64, len(months))
	for i, m := range months {
		xs[i] = float64(i)
		ys[i] = m.Amount
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	next := alpha + beta*float64(len(months))
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0, false
	}
	next = math.Max(next, 0)

	return decimal.NewFromFloat(next).Round(2).InexactFloat64(), true
}
