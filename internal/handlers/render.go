package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"budget-tracker/internal/currency"
	"budget-tracker/internal/log"
	"budget-tracker/internal/models"
	"budget-tracker/web"
)

var defaultTemplates fs.FS = web.TemplatesFS

// views lists every page template. Each is parsed together with base.html.
var views = []string{
	"login.html",
	"register.html",
	"dashboard.html",
	"add.html",
	"summary.html",
	"goals.html",
}

// Page carries the data base.html needs on every page.
type Page struct {
	User       *models.User
	Currency   string
	Currencies []currency.Currency
	Flash      string
	Error      string
}

func (p *Page) page() *Page { return p }

type pager interface {
	page() *Page
}

var templateFuncs = template.FuncMap{
	"money":  currency.Format,
	"symbol": currency.Symbol,
	"percent": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v)
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(views))
	for _, v := range views {
		tmpl, err := template.New("base.html").Funcs(templateFuncs).ParseFS(fsys, "templates/base.html", "templates/"+v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", v, err)
		}
		out[v] = tmpl
	}
	return out, nil
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data pager) {
	h.renderStatus(w, r, http.StatusOK, viewName, data)
}

// renderStatus executes the view into a buffer first so a template error
// still produces a clean 500.
func (h *Handlers) renderStatus(w http.ResponseWriter, r *http.Request, status int, viewName string, data pager) {
	logger := log.FromContext(r.Context()).WithComponent(log.ComponentTemplate)

	tmpl, ok := h.templates[viewName]
	if !ok {
		logger.ErrorContext(r.Context(), "Unknown template", "view", viewName)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	p := data.page()
	if user := GetUserFromContext(r); user != nil {
		p.User = user
		p.Currency = CurrencyFromContext(r)
	}
	if p.Currency == "" {
		p.Currency = h.defaultCurrency
	}
	p.Currencies = currency.All()
	if p.Flash == "" {
		p.Flash = h.popFlash(w, r)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution error", "view", viewName, log.FieldError, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.DebugContext(r.Context(), "Write response failed", log.FieldError, err)
	}
}

// serverError logs err and answers with a generic 500.
func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		log.FieldOperation, op,
		log.FieldError, err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
