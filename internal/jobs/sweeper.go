// Package jobs schedules periodic maintenance for the server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"budget-tracker/internal/log"

	"github.com/robfig/cron/v3"
)

// SessionCleaner deletes expired sessions.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// Sweeper removes expired sessions on a fixed interval.
type Sweeper struct {
	cron    *cron.Cron
	store   SessionCleaner
	logger  *log.Logger
	timeout time.Duration
}

// NewSweeper schedules a cleanup every interval. Call Start to begin.
func NewSweeper(store SessionCleaner, interval time.Duration, logger *log.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %v", interval)
	}
	s := &Sweeper{
		cron:    cron.New(),
		store:   store,
		logger:  logger.WithComponent(log.ComponentJobs),
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc("@every "+interval.String(), s.run); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// SweepOnce deletes expired sessions now and returns how many went.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.store.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("clean expired sessions: %w", err)
	}
	return n, nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.SweepOnce(ctx)
	if err != nil {
		s.logger.Error("Session sweep failed", log.FieldError, err)
		return
	}
	if n > 0 {
		s.logger.Info("Expired sessions removed", "count", n)
	}
}
