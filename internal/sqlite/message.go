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

// MessageRepository stores conversation messages
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new conversation message
func (r *MessageRepository) Create(ctx context.Context, m *crm.ConversationMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO conversation_messages (id, conversation_id, customer_id, user_id, content, internal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ConversationID,
		m.CustomerID,
		m.UserID,
		m.Content,
		m.Internal,
		m.CreatedAt,
	); err != nil {
		return mapWriteError("create conversation message", err)
	}
	return nil
}

// Get retrieves a conversation message by ID
func (r *MessageRepository) Get(ctx context.Context, id string) (*crm.ConversationMessage, error) {
	query := `
		SELECT id, conversation_id, customer_id, user_id, content, internal, created_at
		FROM conversation_messages
		WHERE id = ?
	`

	var m crm.ConversationMessage
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.ConversationID,
		&m.CustomerID,
		&m.UserID,
		&m.Content,
		&m.Internal,
		&m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation message: %w", err)
	}
	return &m, nil
}
