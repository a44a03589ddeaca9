package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	PaidBy      int             `json:"paid_by,omitempty" db:"paid_by,omitempty"`
	GroupID     int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	SplitType   string          `json:"split_type,omitempty" db:"split_type,omitempty"`
	ExpenseDate string          `json:"expense_date,omitempty" db:"expense_date,omitempty"`
	Notes       string          `json:"notes,omitempty" db:"notes,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
