package ledgerstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"splitright/internal/ledger"
	"splitright/internal/models"
)

// GroupExpense is one row of a group's expense feed, carrying the payer's
// name, the participant count and the viewing user's own signed share.
type GroupExpense struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      int             `json:"paid_by"`
	PayerName   string          `json:"payer_name"`
	SplitType   string          `json:"split_type"`
	MemberCount int             `json:"member_count"`
	UserShare   decimal.Decimal `json:"user_share"`
	ExpenseDate string          `json:"expense_date"`
	CreatedAt   sql.NullString  `json:"created_at"`
}

// SplitDetail is one split row joined with the owning user's name.
type SplitDetail struct {
	ID        int             `json:"id"`
	ExpenseID int             `json:"expense_id"`
	UserID    int             `json:"user_id"`
	UserName  string          `json:"user_name"`
	Amount    decimal.Decimal `json:"amount"`
}

// GetExpense returns a single expense, or ledger.ErrNotFound.
func (s *Store) GetExpense(ctx context.Context, expenseID int) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, description, amount, paid_by, group_id, split_type, expense_date, notes, created_at
		FROM expenses WHERE id = ?
	`, expenseID).Scan(
		&expense.ID, &expense.Description, &expense.Amount, &expense.PaidBy,
		&expense.GroupID, &expense.SplitType, &expense.ExpenseDate,
		&expense.Notes, &expense.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %d: %w", expenseID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// GetExpensesForGroup returns a group's expenses newest first, with the
// viewer's share attached to each row.
func (s *Store) GetExpensesForGroup(ctx context.Context, groupID, viewerID int) ([]GroupExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.description, e.amount, e.paid_by, u.name AS payer_name,
		       e.split_type, e.expense_date, e.created_at,
		       (SELECT COUNT(*) FROM expense_splits es WHERE es.expense_id = e.id) AS member_count,
		       COALESCE((SELECT es.amount FROM expense_splits es
		                 WHERE es.expense_id = e.id AND es.user_id = ?), 0) AS user_share
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		WHERE e.group_id = ?
		ORDER BY e.created_at DESC, e.id DESC
	`, viewerID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]GroupExpense, 0)
	for rows.Next() {
		var e GroupExpense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.PaidBy, &e.PayerName,
			&e.SplitType, &e.ExpenseDate, &e.CreatedAt, &e.MemberCount, &e.UserShare); err != nil {
			return nil, fmt.Errorf("failed to scan group expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group expenses: %w", err)
	}
	return expenses, nil
}

// GetSplitsForExpense returns every split row of one expense.
func (s *Store) GetSplitsForExpense(ctx context.Context, expenseID int) ([]SplitDetail, error) {
	return s.splitDetails(ctx, `
		SELECT es.id, es.expense_id, es.user_id, u.name, es.amount
		FROM expense_splits es
		JOIN users u ON es.user_id = u.id
		WHERE es.expense_id = ?
		ORDER BY es.id
	`, expenseID)
}

// GetSplitsForGroup returns every split row across a group's expenses.
// This is the one diagnostic query surface for raw split data.
func (s *Store) GetSplitsForGroup(ctx context.Context, groupID int) ([]SplitDetail, error) {
	return s.splitDetails(ctx, `
		SELECT es.id, es.expense_id, es.user_id, u.name, es.amount
		FROM expense_splits es
		JOIN expenses e ON es.expense_id = e.id
		JOIN users u ON es.user_id = u.id
		WHERE e.group_id = ?
		ORDER BY es.expense_id, es.id
	`, groupID)
}

func (s *Store) splitDetails(ctx context.Context, query string, arg int) ([]SplitDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := make([]SplitDetail, 0)
	for rows.Next() {
		var d SplitDetail
		if err := rows.Scan(&d.ID, &d.ExpenseID, &d.UserID, &d.UserName, &d.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}
