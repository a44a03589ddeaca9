package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Settlement struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	FromUser  int             `json:"from_user,omitempty" db:"from_user,omitempty"`
	ToUser    int             `json:"to_user,omitempty" db:"to_user,omitempty"`
	GroupID   int             `json:"group_id,omitempty" db:"group_id,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Notes     string          `json:"notes,omitempty" db:"notes,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
