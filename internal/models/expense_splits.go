package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// ExpenseSplit is one participant's signed share of one expense.
// Positive amount = this user is owed money for the expense, negative =
// they owe money. The splits of an expense always sum to exactly zero.
type ExpenseSplit struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	ExpenseID int             `json:"expense_id,omitempty" db:"expense_id,omitempty"`
	UserID    int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
