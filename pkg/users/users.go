// Package users looks up platform user accounts. The user table is owned
// by the community platform; this service only reads it.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// User is the slice of a platform account this service needs.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Service resolves user IDs to accounts.
type Service interface {
	Get(ctx context.Context, id int64) (*User, error)
}

// PostgresService implements Service against the platform database.
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a new PostgresService.
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

// Get retrieves a user by ID.
func (s *PostgresService) Get(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, username FROM users WHERE id = $1`
	user := &User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
