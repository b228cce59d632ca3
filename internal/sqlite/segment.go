package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/repository"
)

var _ segment.Store = (*SegmentRepository)(nil)

// SegmentRepository stores saved segment definitions
type SegmentRepository struct {
	db *DB
}

// NewSegmentRepository creates a new SegmentRepository
func NewSegmentRepository(db *DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Create inserts a new segment
func (r *SegmentRepository) Create(ctx context.Context, s *segment.Segment) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if !s.SubjectType.Valid() {
		return fmt.Errorf("%w: segment subject type %q", repository.ErrInvalidInput, s.SubjectType)
	}

	conditions := s.Conditions
	if conditions == nil {
		conditions = []segment.Condition{}
	}
	encoded, err := json.Marshal(conditions)
	if err != nil {
		return fmt.Errorf("failed to encode conditions: %w", err)
	}

	query := `
		INSERT INTO segments (id, name, description, subject_type, conditions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.SubjectType,
		string(encoded),
		s.CreatedAt,
	); err != nil {
		return mapWriteError("create segment", err)
	}
	return nil
}

// Get retrieves a segment by ID
func (r *SegmentRepository) Get(ctx context.Context, id string) (*segment.Segment, error) {
	query := `
		SELECT id, name, description, subject_type, conditions, created_at
		FROM segments
		WHERE id = ?
	`
	s, err := scanSegment(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}
	return s, nil
}

// List returns every saved segment ordered by creation time
func (r *SegmentRepository) List(ctx context.Context) ([]segment.Segment, error) {
	query := `
		SELECT id, name, description, subject_type, conditions, created_at
		FROM segments
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	var segments []segment.Segment
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		segments = append(segments, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating segments: %w", err)
	}
	return segments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSegment(row rowScanner) (*segment.Segment, error) {
	var (
		s          segment.Segment
		conditions string
	)
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.SubjectType,
		&conditions,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(conditions), &s.Conditions); err != nil {
		return nil, fmt.Errorf("decode conditions of segment %s: %w", s.ID, err)
	}
	return &s, nil
}
