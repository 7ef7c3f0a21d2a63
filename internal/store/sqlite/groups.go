package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/store"
)

// CreateGroup inserts a new group.
// Returns store.ErrAlreadyExists if the ID or name is taken.
func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		group.ID,
		group.Name,
		formatTime(group.CreatedAt),
		formatTime(group.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return err
	}
	return nil
}

// GetGroup fetches a group by ID. Returns store.ErrNotFound if missing.
func (s *Store) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	var g domain.Group
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM groups WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroups returns all groups as dropdown options, ordered by name.
// Display ordering (case-insensitive collation) is the cascade's concern;
// this is just a stable base order.
func (s *Store) ListGroups(ctx context.Context) ([]domain.GroupOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM groups ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []domain.GroupOption{}
	for rows.Next() {
		var opt domain.GroupOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// ListParticipants returns the active participants of a group.
func (s *Store) ListParticipants(ctx context.Context, groupID string) ([]domain.ParticipantOption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name FROM users
		WHERE group_id = ? AND role = ? AND status = ?
		ORDER BY display_name, id`,
		groupID, string(domain.RoleParticipant), string(domain.UserStatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []domain.ParticipantOption{}
	for rows.Next() {
		var opt domain.ParticipantOption
		if err := rows.Scan(&opt.ID, &opt.DisplayName); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}
