// Package groups manages the platform's group membership, the mechanism
// subscriptions grant access through. The tables are owned by the
// community platform; this service reads groups and removes memberships.
package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Group is a platform group.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Service is the group membership surface the billing core depends on.
type Service interface {
	// FindByName returns the group with the given name, or nil when no
	// such group exists. Absence is not an error: plans may name groups
	// that were since deleted.
	FindByName(ctx context.Context, name string) (*Group, error)

	// RemoveMember removes a user from a group. Removing an absent
	// member is a no-op so revocation stays idempotent.
	RemoveMember(ctx context.Context, groupID, userID int64) error
}

// PostgresService implements Service against the platform database.
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a new PostgresService.
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

// FindByName retrieves a group by name.
func (s *PostgresService) FindByName(ctx context.Context, name string) (*Group, error) {
	query := `SELECT id, name FROM groups WHERE name = $1`
	group := &Group{}
	err := s.db.QueryRowContext(ctx, query, name).Scan(&group.ID, &group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

// RemoveMember removes a user from a group.
func (s *PostgresService) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM group_users WHERE group_id = $1 AND user_id = $2`
	if _, err := s.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
