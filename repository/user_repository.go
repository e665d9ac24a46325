package repository

import (
	"context"
	"fmt"

	"petbroker/database"
	"petbroker/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// EnsureExists inserts the user if absent and reports whether a new record
// was created. The primary key makes this safe under concurrent calls for
// the same username.
func (r *UserRepository) EnsureExists(ctx context.Context, username string) (bool, error) {
	query := `
		INSERT INTO users (username)
		VALUES ($1)
		ON CONFLICT (username) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to ensure user %q exists: %w", username, err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByUsername retrieves a user by username, or nil if not found
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, created_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, username).Scan(&user.Username, &user.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}

	return &user, nil
}

// Exists reports whether a user record exists
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user %q: %w", username, err)
	}

	return exists, nil
}
