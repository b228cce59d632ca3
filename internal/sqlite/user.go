package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/repository"
)

// UserRepository stores staff users
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *crm.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (id, full_name, email, avatar, position, twitter_username, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.FullName,
		u.Email,
		u.Avatar,
		u.Position,
		u.TwitterUsername,
		u.CreatedAt,
	); err != nil {
		return mapWriteError("create user", err)
	}
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*crm.User, error) {
	query := `
		SELECT id, full_name, email, avatar, position, twitter_username, created_at
		FROM users
		WHERE id = ?
	`

	var u crm.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Avatar,
		&u.Position,
		&u.TwitterUsername,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
