package ledgerstore

import (
	"context"
	"database/sql"
	"fmt"

	"splitright/internal/ledger"
	"splitright/internal/models"
)

// GetGroup returns group metadata plus its member count, or
// ledger.ErrNotFound for an unknown group.
func (s *Store) GetGroup(ctx context.Context, groupID int) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.created_by, g.created_at,
		       (SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = g.id) AS member_count
		FROM `+"`groups`"+` g
		WHERE g.id = ?
	`, groupID).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt, &group.MemberCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %d: %w", groupID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetMembers returns the members of a group ordered by name.
func (s *Store) GetMembers(ctx context.Context, groupID int) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM users u
		JOIN group_members gm ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY u.name
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMemberIDs returns the user IDs of a group's members.
func (s *Store) GetMemberIDs(ctx context.Context, groupID int) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ?", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member ids: %w", err)
	}
	return ids, nil
}

// IsMember reports whether the user belongs to the group.
func (s *Store) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)",
		groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}
