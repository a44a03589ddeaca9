package ledgerstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceSummary is a user's global view across all groups.
// NetBalance == OwedToYou - YouOwe; zero-amount splits count in neither.
type BalanceSummary struct {
	OwedToYou  decimal.Decimal `json:"owedToYou"`
	YouOwe     decimal.Decimal `json:"youOwe"`
	NetBalance decimal.Decimal `json:"netBalance"`
}

// MemberBalance is one member's net balance within a group. For any group
// the balances of all members sum to zero.
type MemberBalance struct {
	UserID  int             `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// GroupSummary is one row of a user's group list on the dashboard.
type GroupSummary struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	MemberCount int             `json:"memberCount"`
	Balance     decimal.Decimal `json:"balance"`
}

// Activity is one event in a user's recent-activity feed: an expense
// recorded or a settlement paid in any of their groups.
type Activity struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	GroupName   string          `json:"group_name"`
	CreatedAt   string          `json:"created_at"`
}

// UserGlobalBalance sums a user's splits across every group. Positive
// splits feed owedToYou, negative splits feed youOwe (as a positive
// figure), zero splits feed neither.
func (s *Store) UserGlobalBalance(ctx context.Context, userID int) (BalanceSummary, error) {
	var summary BalanceSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN es.amount > 0 THEN es.amount ELSE 0 END), 0) AS owed_to_you,
			COALESCE(SUM(CASE WHEN es.amount < 0 THEN ABS(es.amount) ELSE 0 END), 0) AS you_owe,
			COALESCE(SUM(es.amount), 0) AS net_balance
		FROM expense_splits es
		WHERE es.user_id = ? AND es.amount != 0
	`, userID).Scan(&summary.OwedToYou, &summary.YouOwe, &summary.NetBalance)
	if err != nil {
		return BalanceSummary{}, fmt.Errorf("failed to get global balance: %w", err)
	}
	return summary, nil
}

// GroupMemberBalances returns the net balance of every member of a group,
// including members with no splits yet (balance 0), ordered by name.
func (s *Store) GroupMemberBalances(ctx context.Context, groupID int) ([]MemberBalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name,
		       COALESCE(SUM(es.amount), 0) AS balance
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		LEFT JOIN expenses e ON e.group_id = gm.group_id
		LEFT JOIN expense_splits es ON es.expense_id = e.id AND es.user_id = u.id
		WHERE gm.group_id = ?
		GROUP BY u.id, u.name
		ORDER BY u.name
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member balances: %w", err)
	}
	defer rows.Close()

	balances := make([]MemberBalance, 0)
	for rows.Next() {
		var b MemberBalance
		if err := rows.Scan(&b.UserID, &b.Name, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan member balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member balances: %w", err)
	}
	return balances, nil
}

// UserBalanceInGroup returns one user's net balance within one group.
func (s *Store) UserBalanceInGroup(ctx context.Context, userID, groupID int) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(es.amount), 0)
		FROM expense_splits es
		JOIN expenses e ON es.expense_id = e.id
		WHERE es.user_id = ? AND e.group_id = ?
	`, userID, groupID).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance in group: %w", err)
	}
	return balance, nil
}

// UserGroups lists the groups a user belongs to, newest first, with the
// member count and the user's balance in each.
func (s *Store) UserGroups(ctx context.Context, userID int) ([]GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name,
		       (SELECT COUNT(*) FROM group_members gm2 WHERE gm2.group_id = g.id) AS member_count,
		       COALESCE((SELECT SUM(es.amount)
		                 FROM expense_splits es
		                 JOIN expenses e ON es.expense_id = e.id
		                 WHERE e.group_id = g.id AND es.user_id = ?), 0) AS user_balance
		FROM `+"`groups`"+` g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC, g.id DESC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}
	defer rows.Close()

	groups := make([]GroupSummary, 0)
	for rows.Next() {
		var g GroupSummary
		if err := rows.Scan(&g.ID, &g.Name, &g.MemberCount, &g.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan user group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user groups: %w", err)
	}
	return groups, nil
}

// RecentActivity merges expense and settlement events across all of the
// user's groups, newest first, capped at limit.
func (s *Store) RecentActivity(ctx context.Context, userID, limit int) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		(SELECT 'expense' AS type,
		        CONCAT(u.name, ' added expense "', e.description, '" in ', g.name) AS description,
		        e.amount, g.name AS group_name, e.created_at
		 FROM expenses e
		 JOIN users u ON e.paid_by = u.id
		 JOIN `+"`groups`"+` g ON e.group_id = g.id
		 JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.user_id = ?
		 ORDER BY e.created_at DESC
		 LIMIT ?)
		UNION ALL
		(SELECT 'payment' AS type,
		        CONCAT(u1.name, ' settled with ', u2.name, ' in ', g.name) AS description,
		        st.amount, g.name AS group_name, st.created_at
		 FROM settlements st
		 JOIN users u1 ON st.from_user = u1.id
		 JOIN users u2 ON st.to_user = u2.id
		 JOIN `+"`groups`"+` g ON st.group_id = g.id
		 JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.user_id = ?
		 ORDER BY st.created_at DESC
		 LIMIT ?)
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit, userID, limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activity: %w", err)
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		var createdAt sql.NullString
		if err := rows.Scan(&a.Type, &a.Description, &a.Amount, &a.GroupName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.CreatedAt = createdAt.String
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return activities, nil
}

// DebtorBalance is one user's aggregate debt within one group, used by the
// daily reminder job.
type DebtorBalance struct {
	UserID    int
	Name      string
	Email     string
	GroupName string
	Owed      decimal.Decimal
}

// DebtorBalances lists every (user, group) pair with a negative net
// balance, with the owed figure returned as a positive amount.
func (s *Store) DebtorBalances(ctx context.Context) ([]DebtorBalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, g.name, ABS(SUM(es.amount)) AS owed
		FROM expense_splits es
		JOIN expenses e ON es.expense_id = e.id
		JOIN `+"`groups`"+` g ON e.group_id = g.id
		JOIN users u ON es.user_id = u.id
		GROUP BY u.id, u.name, u.email, g.id, g.name
		HAVING SUM(es.amount) < 0
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get debtor balances: %w", err)
	}
	defer rows.Close()

	var debtors []DebtorBalance
	for rows.Next() {
		var d DebtorBalance
		if err := rows.Scan(&d.UserID, &d.Name, &d.Email, &d.GroupName, &d.Owed); err != nil {
			return nil, fmt.Errorf("failed to scan debtor balance: %w", err)
		}
		debtors = append(debtors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debtor balances: %w", err)
	}
	return debtors, nil
}
