package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/repository"
)

var (
	_ activity.Repository = (*ActivityRepository)(nil)
	_ segment.History     = (*ActivityRepository)(nil)
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts a new activity entry
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	if entry.CreatedAt.IsZero() {
		return fmt.Errorf("%w: created_at is required", repository.ErrInvalidInput)
	}
	createdAt := entry.CreatedAt.UTC()

	query := `
		INSERT INTO activity_log (
			id, subject_type, subject_id, activity_type, activity_action,
			source_id, content, performer_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.SubjectType,
		entry.SubjectID,
		entry.ActivityType,
		entry.ActivityAction,
		entry.SourceID,
		entry.Content,
		nullString(entry.PerformerID),
		createdAt,
	)
	if err != nil {
		return mapWriteError("log activity", err)
	}

	entry.CreatedAt = createdAt
	return nil
}

// maxSubjectsPerQuery keeps the IN list well under SQLite's bound
// parameter limit.
const maxSubjectsPerQuery = 500

// ListBySubjects returns the entries recorded against any of subjectIDs,
// most recent first. Large ID sets are queried in batches and merged.
func (r *ActivityRepository) ListBySubjects(ctx context.Context, subjectType activity.SubjectType, subjectIDs []string, opts activity.ListOptions) ([]activity.Entry, error) {
	if len(subjectIDs) <= maxSubjectsPerQuery {
		return r.listBySubjects(ctx, subjectType, subjectIDs, opts)
	}

	var entries []activity.Entry
	for batch := range slices.Chunk(subjectIDs, maxSubjectsPerQuery) {
		page, err := r.listBySubjects(ctx, subjectType, batch, opts)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)
	}
	slices.SortFunc(entries, func(a, b activity.Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

func (r *ActivityRepository) listBySubjects(ctx context.Context, subjectType activity.SubjectType, subjectIDs []string, opts activity.ListOptions) ([]activity.Entry, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT
			id, subject_type, subject_id, activity_type, activity_action,
			source_id, content, performer_id, created_at
		FROM activity_log
		WHERE subject_type = ? AND subject_id IN (` + placeholders(len(subjectIDs)) + `)
	`

	args := []interface{}{subjectType}
	for _, id := range subjectIDs {
		args = append(args, id)
	}

	if len(opts.ActivityTypes) > 0 {
		query += " AND activity_type IN (" + placeholders(len(opts.ActivityTypes)) + ")"
		for _, t := range opts.ActivityTypes {
			args = append(args, t)
		}
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var entry activity.Entry
		var performerID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.SubjectType,
			&entry.SubjectID,
			&entry.ActivityType,
			&entry.ActivityAction,
			&entry.SourceID,
			&entry.Content,
			&performerID,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.PerformerID = performerID.String
		entry.CreatedAt = entry.CreatedAt.UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}

// SubjectsWithSource returns the distinct subjects that already have an
// entry of kind produced by sourceID.
func (r *ActivityRepository) SubjectsWithSource(ctx context.Context, kind activity.Kind, sourceID string) ([]string, error) {
	query := `
		SELECT DISTINCT subject_id
		FROM activity_log
		WHERE activity_type = ? AND activity_action = ? AND source_id = ?
	`

	rows, err := r.db.QueryContext(ctx, query, kind.Type, kind.Action, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects by source: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subject id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}
	return ids, nil
}

// UpdateCreatedAt rewrites the timestamp of one entry
func (r *ActivityRepository) UpdateCreatedAt(ctx context.Context, id string, createdAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE activity_log SET created_at = ? WHERE id = ?`, createdAt, id)
	if err != nil {
		return fmt.Errorf("failed to update activity created_at: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
