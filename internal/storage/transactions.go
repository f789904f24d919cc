package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"budget-tracker/internal/models"
)

// DateRange limits a listing to whole days. A zero From or To leaves that side open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// bounds returns the inclusive text bounds of the range in models.DateLayout.
func (r DateRange) bounds() (from, to string) {
	if !r.From.IsZero() {
		y, m, d := r.From.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, r.From.Location()).Format(models.DateLayout)
	}
	if !r.To.IsZero() {
		y, m, d := r.To.Date()
		to = time.Date(y, m, d, 23, 59, 59, 0, r.To.Location()).Format(models.DateLayout)
	}
	return from, to
}

// CreateTransaction inserts a transaction and sets its ID.
// A zero Date is replaced with the current time.
func (db *DB) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	// Stored precision is one second.
	t.Date = t.Date.Truncate(time.Second)

	res, err := db.conn.ExecContext(ctx,
		"INSERT INTO transactions (user_id, type, amount, category, description, date) VALUES (?, ?, ?, ?, ?, ?)",
		t.UserID, string(t.Type), t.Amount, t.Category, t.Description, t.Date.Format(models.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

// DeleteTransaction deletes a transaction owned by userID.
// Missing or foreign ids delete nothing and are not an error.
func (db *DB) DeleteTransaction(ctx context.Context, id, userID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTransactions returns a user's transactions within r, newest first.
func (db *DB) ListTransactions(ctx context.Context, userID int64, r DateRange) ([]models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString("SELECT id, user_id, type, amount, category, description, date FROM transactions WHERE user_id = ?")
	args := []any{userID}

	from, to := r.bounds()
	if from != "" {
		sb.WriteString(" AND date >= ?")
		args = append(args, from)
	}
	if to != "" {
		sb.WriteString(" AND date <= ?")
		args = append(args, to)
	}
	sb.WriteString(" ORDER BY date DESC, id DESC")

	rows, err := db.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var typ, date string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Category, &t.Description, &date); err != nil {
			return nil, err
		}
		t.Type = models.TransactionType(typ)
		t.Date, err = time.ParseInLocation(models.DateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse date of transaction %d: %w", t.ID, err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
