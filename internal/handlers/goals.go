package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/storage"
)

// GoalsViewModel is the data passed to the goals template.
type GoalsViewModel struct {
	Page
	Month      string
	Goals      []analytics.GoalStatus
	Category   string
	Limit      string
	Categories []CategoryDef
}

// Goals lists monthly limits with this month's progress.
func (h *Handlers) Goals(w http.ResponseWriter, r *http.Request) {
	vm := &GoalsViewModel{Categories: categories}
	if err := h.loadGoals(r, vm); err != nil {
		h.serverError(w, r, "list goals", err)
		return
	}
	h.render(w, r, "goals.html", vm)
}

func (h *Handlers) loadGoals(r *http.Request, vm *GoalsViewModel) error {
	user := GetUserFromContext(r)
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	goals, err := h.db.ListGoals(r.Context(), user.ID)
	if err != nil {
		return err
	}
	rows, err := h.db.ListTransactions(r.Context(), user.ID, storage.DateRange{From: monthStart, To: now})
	if err != nil {
		return err
	}

	vm.Month = now.Format("January 2006")
	vm.Goals = analytics.GoalProgress(goals, rows, now)
	return nil
}

// SaveGoal creates or replaces the monthly limit of a category.
func (h *Handlers) SaveGoal(w http.ResponseWriter, r *http.Request) {
	vm := &GoalsViewModel{Categories: categories}
	if err := r.ParseForm(); err != nil {
		vm.Error = "Invalid form submission"
	} else {
		vm.Category = strings.TrimSpace(r.FormValue("category"))
		vm.Limit = strings.TrimSpace(r.FormValue("limit"))
	}

	var limit float64
	if vm.Error == "" {
		limit, vm.Error = parseGoalForm(vm.Category, vm.Limit)
	}
	if vm.Error != "" {
		if err := h.loadGoals(r, vm); err != nil {
			h.serverError(w, r, "list goals", err)
			return
		}
		h.renderStatus(w, r, http.StatusBadRequest, "goals.html", vm)
		return
	}

	user := GetUserFromContext(r)
	if err := h.db.UpsertGoal(r.Context(), user.ID, vm.Category, limit); err != nil {
		h.serverError(w, r, "save goal", err)
		return
	}
	h.setFlash(w, "Goal saved")
	http.Redirect(w, r, "/goals", http.StatusFound)
}

func parseGoalForm(category, limit string) (float64, string) {
	if category == "" {
		return 0, "Category is required"
	}
	v, err := strconv.ParseFloat(limit, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "Limit must be a number"
	}
	if v <= 0 {
		return 0, "Limit must be greater than zero"
	}
	if v > MaxAmount {
		return 0, "Limit is too large"
	}
	return v, ""
}

// DeleteGoal removes one of the current user's goals.
func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid goal id", http.StatusBadRequest)
		return
	}
	user := GetUserFromContext(r)
	if err := h.db.DeleteGoal(r.Context(), id, user.ID); err != nil {
		h.serverError(w, r, "delete goal", err)
		return
	}
	http.Redirect(w, r, "/goals", http.StatusFound)
}

// overGoals keeps the goals whose limit is exceeded.
func overGoals(statuses []analytics.GoalStatus) []analytics.GoalStatus {
	var out []analytics.GoalStatus
	for _, st := range statuses {
		if st.Over {
			out = append(out, st)
		}
	}
	return out
}
