package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/activitylog/internal/repository"
)

// APIKeyRepository maps bearer tokens to the users they act as
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores the hash of token for userID
func (r *APIKeyRepository) Create(ctx context.Context, token, userID, description string) error {
	if token == "" || userID == "" {
		return fmt.Errorf("%w: token and user id are required", repository.ErrInvalidInput)
	}

	query := `
		INSERT INTO api_keys (key_hash, user_id, created_at, description)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, hashToken(token), userID, time.Now().UTC(), description); err != nil {
		return mapWriteError("create api key", err)
	}
	return nil
}

// ResolveActor returns the user ID bound to token and stamps last_used
func (r *APIKeyRepository) ResolveActor(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)

	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash); err != nil {
		return "", fmt.Errorf("failed to update api key usage: %w", err)
	}
	return userID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
