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

// NoteRepository stores internal notes
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create inserts a new internal note
func (r *NoteRepository) Create(ctx context.Context, n *crm.InternalNote) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO internal_notes (id, content_type, content_type_id, content, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ContentType,
		n.ContentTypeID,
		n.Content,
		n.CreatedBy,
		n.CreatedAt,
	); err != nil {
		return mapWriteError("create internal note", err)
	}
	return nil
}

// Get retrieves an internal note by ID
func (r *NoteRepository) Get(ctx context.Context, id string) (*crm.InternalNote, error) {
	query := `
		SELECT id, content_type, content_type_id, content, created_by, created_at
		FROM internal_notes
		WHERE id = ?
	`

	var n crm.InternalNote
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.ContentType,
		&n.ContentTypeID,
		&n.Content,
		&n.CreatedBy,
		&n.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get internal note: %w", err)
	}
	return &n, nil
}
