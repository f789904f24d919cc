package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-tracker/internal/auth"
	"budget-tracker/internal/config"
	"budget-tracker/internal/handlers"
	"budget-tracker/internal/jobs"
	"budget-tracker/internal/log"
	"budget-tracker/internal/storage"
	"budget-tracker/web"
)

func main() {
	if err := run(); err != nil {
		log.New(log.DefaultConfig()).Error("Server exited", log.FieldError, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp, Output: os.Stdout})
	log.SetDefault(logger)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database ready", "path", cfg.DBPath)

	if err := bootstrapAdmin(context.Background(), db, cfg, logger); err != nil {
		return err
	}

	h, err := handlers.NewHandlers(db, logger, handlers.Options{
		SecureCookie:    cfg.SecureCookie,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	if err != nil {
		return err
	}

	sweeper, err := jobs.NewSweeper(db, cfg.SessionSweepInterval, logger)
	if err != nil {
		return err
	}
	sweeper.Start()

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        setupRouter(h, logger, web.StaticFS),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	// Graceful shutdown handling
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sweeper.Stop(shutdownCtx)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	}()

	logger.Info("Starting budget tracker", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	logger.Info("Server stopped gracefully")
	return nil
}

// setupRouter mounts the application routes and static assets behind the
// request logging middleware.
func setupRouter(h *handlers.Handlers, logger *log.Logger, static fs.FS) http.Handler {
	mux := h.Routes()

	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	return log.Middleware(logger)(mux)
}

// bootstrapAdmin creates the configured admin user on an empty database.
func bootstrapAdmin(ctx context.Context, db *storage.DB, cfg *config.Config, logger *log.Logger) error {
	if cfg.AdminUser == "" {
		return nil
	}

	n, err := db.UserCount(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	user, err := db.CreateUser(ctx, cfg.AdminUser, hash)
	if err != nil {
		return err
	}
	logger.WithComponent(log.ComponentAuth).Info("Admin user created", log.FieldUserID, user.ID, "username", user.Username)
	return nil
}
