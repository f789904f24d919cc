package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"budget-tracker/internal/analytics"
	"budget-tracker/internal/log"
	"budget-tracker/internal/report"

	json "github.com/goccy/go-json"
)

// SummaryCategoryItem represents a category with its share of spending.
type SummaryCategoryItem struct {
	Category   string
	Total      float64
	Percentage float64
	Color      string
}

// SummaryViewModel is the data passed to the summary template.
type SummaryViewModel struct {
	Page
	Start      string
	End        string
	RangeLabel string
	Total      float64
	Categories []SummaryCategoryItem
	ChartURL   string
}

// Summary renders spending by category with a pie chart.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")

	rows, err := h.db.ListTransactions(r.Context(), user.ID, parseDateRange(start, end))
	if err != nil {
		h.serverError(w, r, "summary", err)
		return
	}

	totals := analytics.CategoryTotals(rows)
	var total float64
	for _, ct := range totals {
		total += ct.Amount
	}

	items := make([]SummaryCategoryItem, 0, len(totals))
	for _, ct := range totals {
		percentage := 0.0
		if total > 0 {
			percentage = (ct.Amount / total) * 100
		}
		items = append(items, SummaryCategoryItem{
			Category:   ct.Category,
			Total:      ct.Amount,
			Percentage: percentage,
			Color:      categoryColor(ct.Category),
		})
	}

	vm := &SummaryViewModel{
		Start:      start,
		End:        end,
		RangeLabel: analytics.TimeRangeLabel(start, end),
		Total:      total,
		Categories: items,
	}
	if total > 0 {
		vm.ChartURL = "/summary/chart.png"
		if q := r.URL.RawQuery; q != "" {
			vm.ChartURL += "?" + q
		}
	}
	h.render(w, r, "summary.html", vm)
}

// SummaryChart writes the expense-by-category pie chart as a PNG.
// It answers 404 when there is nothing to chart.
func (h *Handlers) SummaryChart(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	rows, err := h.db.ListTransactions(r.Context(), user.ID, parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end")))
	if err != nil {
		h.serverError(w, r, "summary chart", err)
		return
	}

	var buf bytes.Buffer
	err = report.WritePieChart(&buf, analytics.CategoryTotals(rows))
	if errors.Is(err, report.ErrNoData) {
		http.Error(w, "No expense data to chart", http.StatusNotFound)
		return
	}
	if err != nil {
		h.serverError(w, r, "render chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Write chart failed", log.FieldError, err)
	}
}

// ExportCSV downloads the current user's transactions as CSV.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	rows, err := h.db.ListTransactions(r.Context(), user.ID, parseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end")))
	if err != nil {
		h.serverError(w, r, "export csv", err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		h.serverError(w, r, "export csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.CSVFilename+`"`)
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentReport)
	if _, err := buf.WriteTo(w); err != nil {
		logger.DebugContext(r.Context(), "Write csv failed", log.FieldError, err)
		return
	}
	logger.InfoContext(r.Context(), "Transactions exported", log.FieldUserID, user.ID, "rows", len(rows))
}

// SummaryResponse is the JSON body of /api/summary.
type SummaryResponse struct {
	Start             string                    `json:"start,omitempty"`
	End               string                    `json:"end,omitempty"`
	RangeLabel        string                    `json:"range_label"`
	Currency          string                    `json:"currency"`
	Totals            analytics.Totals          `json:"totals"`
	Categories        []analytics.CategoryTotal `json:"categories"`
	HighestCategory   *analytics.CategoryTotal  `json:"highest_category"`
	AverageDailySpend float64                   `json:"average_daily_spend"`
	Forecast          *float64                  `json:"forecast"`
	TransactionCount  int                       `json:"transaction_count"`
}

// APISummary returns the dashboard aggregates as JSON. Absent values are null.
func (h *Handlers) APISummary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")

	rows, err := h.db.ListTransactions(r.Context(), user.ID, parseDateRange(start, end))
	if err != nil {
		h.serverError(w, r, "api summary", err)
		return
	}

	resp := SummaryResponse{
		Start:             start,
		End:               end,
		RangeLabel:        analytics.TimeRangeLabel(start, end),
		Currency:          CurrencyFromContext(r),
		Totals:            analytics.ComputeTotals(rows),
		Categories:        analytics.CategoryTotals(rows),
		AverageDailySpend: analytics.AverageDailySpend(rows),
		TransactionCount:  len(rows),
	}
	if top, ok := analytics.HighestSpendingCategory(rows); ok {
		resp.HighestCategory = &top
	}
	if f, ok := analytics.Forecast(rows); ok {
		resp.Forecast = &f
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.serverError(w, r, "encode json", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Write json failed", log.FieldError, err)
	}
}
