package models

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// DateLayout is the fixed-width format transaction dates are stored in.
// Zero padding keeps lexical and chronological order identical.
const DateLayout = "2006-01-02 15:04:05"

// Transaction represents a single income or expense record.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Goal is a monthly spending limit for one category.
type Goal struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

