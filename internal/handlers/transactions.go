package handlers

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/currency"
	"budget-tracker/internal/log"
	"budget-tracker/internal/models"
	"budget-tracker/internal/storage"

	"golang.org/x/sync/errgroup"
)

// MaxAmount caps a single amount so that sums and the forecast fit stay finite.
const MaxAmount = 1e12

// Sentinels shown when an aggregate has no value.
const (
	NoDataLabel           = analytics.NoDataLabel
	InsufficientDataLabel = analytics.InsufficientDataLabel
)

// CategoryDef defines the properties of a suggested category.
type CategoryDef struct {
	Name  string
	Color string
}

var categories = []CategoryDef{
	{"Food", "#60a5fa"},
	{"Transport", "#a78bfa"},
	{"Entertainment", "#f472b6"},
	{"Utilities", "#fbbf24"},
	{"Housing", "#818cf8"},
	{"Gifts", "#fb7185"},
	{"Salary", "#34d399"},
	{"Other", "#94a3b8"},
}

const defaultCategory = "Other"

func categoryColor(category string) string {
	for _, c := range categories {
		if strings.EqualFold(c.Name, category) {
			return c.Color
		}
	}
	return "#94a3b8"
}

// TransactionItem represents a transaction in the list view.
type TransactionItem struct {
	models.Transaction
	Time  string
	Color string
}

// TransactionGroup groups transactions by calendar day.
type TransactionGroup struct {
	Title string
	Date  string
	Net   float64
	Items []TransactionItem
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	Page
	Start        string
	End          string
	RangeLabel   string
	Totals       analytics.Totals
	TopCategory  string
	AverageDaily float64
	Forecast     string
	Groups       []TransactionGroup
	OverGoals    []analytics.GoalStatus
}

// Dashboard renders totals, analytics and the transaction list, optionally
// limited to ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	cur := CurrencyFromContext(r)
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")

	var (
		filtered []models.Transaction
		history  []models.Transaction
		goals    []models.Goal
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		filtered, err = h.db.ListTransactions(ctx, user.ID, parseDateRange(start, end))
		return err
	})
	g.Go(func() error {
		var err error
		history, err = h.db.ListTransactions(ctx, user.ID, storage.DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = h.db.ListGoals(ctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		h.serverError(w, r, "load dashboard", err)
		return
	}

	vm := &DashboardViewModel{
		Start:        start,
		End:          end,
		RangeLabel:   analytics.TimeRangeLabel(start, end),
		Totals:       analytics.ComputeTotals(filtered),
		TopCategory:  NoDataLabel,
		AverageDaily: analytics.AverageDailySpend(filtered),
		Forecast:     InsufficientDataLabel,
		Groups:       groupByDay(filtered),
	}
	if top, ok := analytics.HighestSpendingCategory(filtered); ok {
		vm.TopCategory = top.Category + " (" + currency.Format(top.Amount, cur) + ")"
	}
	if f, ok := analytics.Forecast(filtered); ok {
		vm.Forecast = currency.Format(f, cur)
	}
	vm.OverGoals = overGoals(analytics.GoalProgress(goals, history, time.Now()))

	h.render(w, r, "dashboard.html", vm)
}

// parseDateRange turns form bounds into a storage range. Bounds that do not
// parse as YYYY-MM-DD are ignored.
func parseDateRange(start, end string) storage.DateRange {
	var rng storage.DateRange
	if t, err := time.ParseInLocation(analytics.InputDateLayout, strings.TrimSpace(start), time.Local); err == nil {
		rng.From = t
	}
	if t, err := time.ParseInLocation(analytics.InputDateLayout, strings.TrimSpace(end), time.Local); err == nil {
		rng.To = t
	}
	return rng
}

func groupByDay(rows []models.Transaction) []TransactionGroup {
	groupsMap := make(map[string]*TransactionGroup)
	for _, t := range rows {
		dateStr := t.Date.Format("2006-01-02")
		group, ok := groupsMap[dateStr]
		if !ok {
			group = &TransactionGroup{Date: dateStr, Title: formatGroupTitle(t.Date)}
			groupsMap[dateStr] = group
		}
		if t.IsExpense() {
			group.Net -= t.Amount
		} else {
			group.Net += t.Amount
		}
		group.Items = append(group.Items, TransactionItem{
			Transaction: t,
			Time:        t.Date.Format("15:04"),
			Color:       categoryColor(t.Category),
		})
	}

	groups := make([]TransactionGroup, 0, len(groupsMap))
	for _, g := range groupsMap {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

func formatGroupTitle(date time.Time) string {
	dateStr := date.Format("2006-01-02")
	now := time.Now()

	if dateStr == now.Format("2006-01-02") {
		return "TODAY"
	}
	if dateStr == now.AddDate(0, 0, -1).Format("2006-01-02") {
		return "YESTERDAY"
	}
	return strings.ToUpper(date.Format("Mon, 02 Jan '06"))
}

// FormViewModel is the data passed to the add-transaction template.
type FormViewModel struct {
	Page
	Type        string
	Amount      string
	Category    string
	Description string
	Date        string
	Categories  []CategoryDef
}

// AddForm renders the form to record a transaction.
func (h *Handlers) AddForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "add.html", &FormViewModel{
		Type:       string(models.Expense),
		Date:       time.Now().Format("2006-01-02T15:04"),
		Categories: categories,
	})
}

// AddTransaction records a transaction for the current user.
func (h *Handlers) AddTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "add.html", &FormViewModel{
			Page:       Page{Error: "Invalid form submission"},
			Categories: categories,
		})
		return
	}

	vm := &FormViewModel{
		Type:        r.FormValue("type"),
		Amount:      strings.TrimSpace(r.FormValue("amount")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Categories:  categories,
	}

	t, err := parseTransactionForm(vm)
	if err != nil {
		vm.Error = err.Error()
		h.renderStatus(w, r, http.StatusBadRequest, "add.html", vm)
		return
	}

	user := GetUserFromContext(r)
	t.UserID = user.ID
	if err := h.db.CreateTransaction(r.Context(), t); err != nil {
		h.serverError(w, r, "create transaction", err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "Transaction added",
		log.FieldUserID, user.ID, "transaction_id", t.ID, "type", t.Type)
	h.setFlash(w, "Transaction added")
	http.Redirect(w, r, "/", http.StatusFound)
}

// formError is a validation message shown to the user as-is.
type formError string

func (e formError) Error() string { return string(e) }

// Form layouts accepted for the transaction date, tried in order.
var formDateLayouts = []string{
	models.DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	analytics.InputDateLayout,
}

func parseTransactionForm(vm *FormViewModel) (*models.Transaction, error) {
	typ := models.TransactionType(vm.Type)
	if !typ.Valid() {
		return nil, formError("Type must be income or expense")
	}

	if vm.Amount == "" {
		return nil, formError("Amount is required")
	}
	amount, err := strconv.ParseFloat(vm.Amount, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, formError("Amount must be a number")
	}
	if amount < 0 {
		return nil, formError("Amount cannot be negative")
	}
	if amount > MaxAmount {
		return nil, formError("Amount is too large")
	}

	category := vm.Category
	if category == "" {
		category = defaultCategory
	}

	t := &models.Transaction{
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: vm.Description,
	}
	if vm.Date != "" {
		date, err := parseFormDate(vm.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}
	return t, nil
}

func parseFormDate(s string) (time.Time, error) {
	for _, layout := range formDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, formError("Date must look like YYYY-MM-DD HH:MM:SS")
}

// DeleteTransaction deletes one of the current user's transactions.
// Unknown or foreign ids are ignored.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	user := GetUserFromContext(r)
	deleted, err := h.db.DeleteTransaction(r.Context(), id, user.ID)
	if err != nil {
		h.serverError(w, r, "delete transaction", err)
		return
	}
	if deleted {
		h.setFlash(w, "Transaction deleted")
	}
	http.Redirect(w, r, localRedirectTarget(r, "/"), http.StatusFound)
}

// SetCurrency changes the display currency of the current session.
func (h *Handlers) SetCurrency(w http.ResponseWriter, r *http.Request) {
	c, ok := currency.Lookup(r.PathValue("code"))
	if !ok {
		h.setFlash(w, "Unsupported currency")
		http.Redirect(w, r, localRedirectTarget(r, "/"), http.StatusFound)
		return
	}

	s := sessionFromContext(r)
	if err := h.db.SetSessionCurrency(r.Context(), s.token, c.Code); err != nil {
		h.serverError(w, r, "set currency", err)
		return
	}
	http.Redirect(w, r, localRedirectTarget(r, "/"), http.StatusFound)
}
