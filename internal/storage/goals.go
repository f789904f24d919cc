package storage

import (
	"context"
	"fmt"

	"budget-tracker/internal/models"
)

// UpsertGoal sets the monthly limit for a category, replacing any existing limit.
func (db *DB) UpsertGoal(ctx context.Context, userID int64, category string, limit float64) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO goals (user_id, category, monthly_limit) VALUES (?, ?, ?)
		ON CONFLICT(user_id, category) DO UPDATE SET monthly_limit = excluded.monthly_limit
	`, userID, category, limit)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

// ListGoals returns a user's goals ordered by category.
func (db *DB) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, user_id, category, monthly_limit FROM goals WHERE user_id = ? ORDER BY category",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Category, &g.MonthlyLimit); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteGoal deletes a goal owned by userID. Foreign ids are ignored.
func (db *DB) DeleteGoal(ctx context.Context, id, userID int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM goals WHERE id = ? AND user_id = ?", id, userID)
	return err
}
