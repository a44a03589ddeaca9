// Package ledgerstore persists expenses, splits and settlements and derives
// every balance view from the stored split rows. Balance reads never re-run
// the split calculator, so views stay consistent with what was recorded even
// if the split policy logic changes later.
package ledgerstore

import (
	"context"
	"database/sql"
	"time"

	"splitright/internal/ledger"
	"splitright/internal/models"
)

const sqlTimeFormat = "2006-01-02 15:04:05"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordExpense persists an expense and its full set of splits in one
// transaction. Either everything is written or nothing is; any failure
// comes back as a *ledger.PersistenceError and leaves no partial rows.
// The expense ID is populated on success.
func (s *Store) RecordExpense(ctx context.Context, expense *models.Expense, splits []models.ExpenseSplit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &ledger.PersistenceError{Op: "record expense: begin", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (description, amount, paid_by, group_id, split_type, expense_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.Description, expense.Amount, expense.PaidBy, expense.GroupID,
		expense.SplitType, expense.ExpenseDate, expense.Notes, time.Now().UTC().Format(sqlTimeFormat),
	)
	if err != nil {
		return &ledger.PersistenceError{Op: "record expense: insert expense", Err: err}
	}

	expenseID, err := res.LastInsertId()
	if err != nil {
		return &ledger.PersistenceError{Op: "record expense: last insert id", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expense_splits (expense_id, user_id, amount) VALUES (?, ?, ?)`)
	if err != nil {
		return &ledger.PersistenceError{Op: "record expense: prepare splits", Err: err}
	}
	defer stmt.Close()

	for _, split := range splits {
		if _, err := stmt.ExecContext(ctx, expenseID, split.UserID, split.Amount); err != nil {
			return &ledger.PersistenceError{Op: "record expense: insert split", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &ledger.PersistenceError{Op: "record expense: commit", Err: err}
	}

	expense.ID = int(expenseID)
	return nil
}

// RecordSettlement persists a payment between two users in a group.
func (s *Store) RecordSettlement(ctx context.Context, settlement *models.Settlement) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (from_user, to_user, group_id, amount, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		settlement.FromUser, settlement.ToUser, settlement.GroupID,
		settlement.Amount, settlement.Notes, time.Now().UTC().Format(sqlTimeFormat),
	)
	if err != nil {
		return &ledger.PersistenceError{Op: "record settlement", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return &ledger.PersistenceError{Op: "record settlement: last insert id", Err: err}
	}

	settlement.ID = int(id)
	return nil
}
