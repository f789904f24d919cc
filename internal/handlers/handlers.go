package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"budget-tracker/internal/auth"
	"budget-tracker/internal/currency"
	"budget-tracker/internal/log"
	"budget-tracker/internal/models"
	"budget-tracker/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// SessionContextKey is the context key for the authenticated session.
	SessionContextKey contextKey = "session"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// FlashCookieName carries a one-shot message across a redirect.
	FlashCookieName = "flash"
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour
)

// Options configures Handlers.
type Options struct {
	SecureCookie    bool
	DefaultCurrency string
	// Templates overrides the embedded templates. Must contain templates/*.html.
	Templates fs.FS
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db              *storage.DB
	logger          *log.Logger
	templates       map[string]*template.Template
	secureCookie    bool
	defaultCurrency string
	started         time.Time
}

// NewHandlers creates a new Handlers instance and parses all templates.
func NewHandlers(db *storage.DB, logger *log.Logger, opts Options) (*Handlers, error) {
	fsys := opts.Templates
	if fsys == nil {
		fsys = defaultTemplates
	}
	tmpls, err := parseTemplates(fsys)
	if err != nil {
		return nil, err
	}

	cur := opts.DefaultCurrency
	if !currency.Supported(cur) {
		cur = currency.Default
	}
	return &Handlers{
		db:              db,
		logger:          logger.WithComponent(log.ComponentHTTP),
		templates:       tmpls,
		secureCookie:    opts.SecureCookie,
		defaultCurrency: strings.ToUpper(cur),
		started:         time.Now(),
	}, nil
}

type sessionContext struct {
	token string
	info  *storage.SessionInfo
}

func sessionFromContext(r *http.Request) *sessionContext {
	if s, ok := r.Context().Value(SessionContextKey).(*sessionContext); ok {
		return s
	}
	return nil
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if s := sessionFromContext(r); s != nil {
		return s.info.User
	}
	return nil
}

// CurrencyFromContext returns the display currency of the current session.
func CurrencyFromContext(r *http.Request) string {
	if s := sessionFromContext(r); s != nil && s.info.Currency != "" {
		return s.info.Currency
	}
	return currency.Default
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sessionInfo, err := h.db.ValidateSessionWithInfo(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				log.FromContext(r.Context()).ErrorContext(r.Context(), "Session lookup failed", log.FieldError, err)
			}
			h.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		// Rolling session: renew once in the second half of its lifetime.
		now := time.Now()
		if sessionInfo.ExpiresAt.Sub(now) < SessionDuration/2 {
			newExpiresAt := now.Add(SessionDuration)
			if err := h.db.RenewSession(r.Context(), cookie.Value, newExpiresAt); err == nil {
				h.setSessionCookie(w, cookie.Value)
				sessionInfo.ExpiresAt = newExpiresAt
			} else {
				log.FromContext(r.Context()).WarnContext(r.Context(), "Session renewal failed", log.FieldError, err)
			}
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, &sessionContext{token: cookie.Value, info: sessionInfo})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthViewModel holds data for the login and registration pages.
type AuthViewModel struct {
	Page
	Username string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.loggedIn(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", &AuthViewModel{})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "login.html", &AuthViewModel{Page: Page{Error: "Invalid form submission"}})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	vm := &AuthViewModel{Username: username}

	if username == "" || password == "" {
		vm.Error = "Username and password are required"
		h.render(w, r, "login.html", vm)
		return
	}

	user, err := h.db.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.serverError(w, r, "login", err)
		return
	}
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		vm.Error = "Invalid username or password"
		h.render(w, r, "login.html", vm)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.serverError(w, r, "generate session token", err)
		return
	}

	expiresAt := time.Now().Add(SessionDuration)
	if err := h.db.CreateSession(r.Context(), token, user.ID, h.defaultCurrency, expiresAt); err != nil {
		h.serverError(w, r, "create session", err)
		return
	}

	h.setSessionCookie(w, token)
	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "User logged in", log.FieldUserID, user.ID)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RegisterForm renders the registration page.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", &AuthViewModel{})
}

// Register creates an account and sends the user to the login page.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderStatus(w, r, http.StatusBadRequest, "register.html", &AuthViewModel{Page: Page{Error: "Invalid form submission"}})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	vm := &AuthViewModel{Username: username}

	if username == "" || password == "" {
		vm.Error = "Username and password are required"
		h.render(w, r, "register.html", vm)
		return
	}

	if len(password) > auth.MaxPasswordLength {
		vm.Error = fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordLength)
		h.render(w, r, "register.html", vm)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		h.serverError(w, r, "hash password", err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), username, hash)
	if errors.Is(err, storage.ErrUsernameTaken) {
		vm.Error = "Username already exists"
		h.render(w, r, "register.html", vm)
		return
	}
	if err != nil {
		h.serverError(w, r, "register", err)
		return
	}

	log.FromContext(r.Context()).WithComponent(log.ComponentAuth).InfoContext(r.Context(), "User registered", log.FieldUserID, user.ID)
	h.setFlash(w, "Registration successful. Please log in.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.db.DeleteSession(r.Context(), cookie.Value); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to delete session", log.FieldError, err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) loggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, err = h.db.ValidateSession(r.Context(), cookie.Value)
	return err == nil
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func (h *Handlers) popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// localRedirectTarget returns the path of a same-site Referer, or fallback.
func localRedirectTarget(r *http.Request, fallback string) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != r.Host {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
