package analytics

import (
	"time"

	"budget-tracker/internal/models"
)

// GoalStatus compares a monthly limit with what was spent in that month.
type GoalStatus struct {
	Goal      models.Goal `json:"goal"`
	Spent     float64     `json:"spent"`
	Remaining float64     `json:"remaining"`
	Percent   float64     `json:"percent"`
	Over      bool        `json:"over"`
}

// GoalProgress reports, for each goal, the expenses of its category during
// the calendar month containing month.
func GoalProgress(goals []models.Goal, rows []models.Transaction, month time.Time) []GoalStatus {
	spent := make(map[string]float64)
	for _, r := range rows {
		if !r.IsExpense() {
			continue
		}
		if r.Date.Year() != month.Year() || r.Date.Month() != month.Month() {
			continue
		}
		spent[r.Category] += r.Amount
	}

	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		s := spent[g.Category]
		st := GoalStatus{
			Goal:      g,
			Spent:     s,
			Remaining: g.MonthlyLimit - s,
			Over:      s > g.MonthlyLimit,
		}
		if g.MonthlyLimit > 0 {
			st.Percent = s / g.MonthlyLimit * 100
		}
		out = append(out, st)
	}
	return out
}
