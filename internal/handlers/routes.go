package handlers

import "net/http"

// Routes registers every application route on a new mux.
// Static assets are mounted by the caller.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)

	// Protected routes
	protect := func(f http.HandlerFunc) http.Handler { return h.AuthMiddleware(f) }
	mux.Handle("GET /{$}", protect(h.Dashboard))
	mux.Handle("GET /add", protect(h.AddForm))
	mux.Handle("POST /add", protect(h.AddTransaction))
	mux.Handle("POST /delete/{id}", protect(h.DeleteTransaction))
	mux.Handle("GET /set_currency/{code}", protect(h.SetCurrency))
	mux.Handle("GET /summary", protect(h.Summary))
	mux.Handle("GET /summary/chart.png", protect(h.SummaryChart))
	mux.Handle("GET /export_csv", protect(h.ExportCSV))
	mux.Handle("GET /api/summary", protect(h.APISummary))
	mux.Handle("GET /goals", protect(h.Goals))
	mux.Handle("POST /goals", protect(h.SaveGoal))
	mux.Handle("POST /goals/{id}/delete", protect(h.DeleteGoal))

	return mux
}
