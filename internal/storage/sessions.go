package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"budget-tracker/internal/models"
)

// Session timestamps are stored as fixed-width UTC text so they compare lexically.
const sessionTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatSessionTime(t time.Time) string {
	return t.UTC().Format(sessionTimeLayout)
}

// CreateSession creates a new session for a user.
func (db *DB) CreateSession(ctx context.Context, token string, userID int64, currency string, expiresAt time.Time) error {
	now := time.Now()
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, currency, expires_at, last_activity) VALUES (?, ?, ?, ?, ?)",
		token, userID, currency, formatSessionTime(expiresAt), formatSessionTime(now),
	)
	return err
}

// SessionInfo holds session validation data.
type SessionInfo struct {
	User         *models.User
	Currency     string
	LastActivity time.Time
	ExpiresAt    time.Time
}

// ValidateSession checks if a session token is valid and returns the associated user.
func (db *DB) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	info, err := db.ValidateSessionWithInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	return info.User, nil
}

// ValidateSessionWithInfo checks if a session token is valid and returns session details.
func (db *DB) ValidateSessionWithInfo(ctx context.Context, token string) (*SessionInfo, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.password_hash, u.created_at, s.currency, s.last_activity, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?
	`, token, formatSessionTime(time.Now()))

	var u models.User
	var currency, lastActivity, expiresAt string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &currency, &lastActivity, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	info := &SessionInfo{User: &u, Currency: currency}
	var err error
	if info.LastActivity, err = time.Parse(sessionTimeLayout, lastActivity); err != nil {
		return nil, err
	}
	if info.ExpiresAt, err = time.Parse(sessionTimeLayout, expiresAt); err != nil {
		return nil, err
	}
	return info, nil
}

// RenewSession updates the last_activity and expires_at for a session.
func (db *DB) RenewSession(ctx context.Context, token string, newExpiresAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		formatSessionTime(time.Now()), formatSessionTime(newExpiresAt), token,
	)
	return err
}

// SetSessionCurrency changes the display currency of a session.
func (db *DB) SetSessionCurrency(ctx context.Context, token, currency string) error {
	_, err := db.conn.ExecContext(ctx, "UPDATE sessions SET currency = ? WHERE token = ?", currency, token)
	return err
}

// DeleteSession removes a session by token.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// CleanExpiredSessions removes all expired sessions and reports how many were deleted.
func (db *DB) CleanExpiredSessions(ctx context.Context) (int64, error) {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", formatSessionTime(time.Now()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
