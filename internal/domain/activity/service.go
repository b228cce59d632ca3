package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ganot/activitylog/internal/repository"
	"github.com/ganot/activitylog/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Service is the log writer: it validates envelopes and appends entries.
type Service struct {
	repo   Repository
	logger *slog.Logger
	opts   options
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Service{repo: repo, logger: logger, opts: o}
}

// Record validates env and appends one entry. The entry gets a time-ordered
// ID and, unless the envelope carries one, CreatedAt set to now. Record never
// deduplicates: calling it twice writes two entries.
func (s *Service) Record(ctx context.Context, env Envelope) (_ *Entry, err error) {
	ctx, span := telemetry.StartSpan(ctx, "activity.record")
	defer func() { telemetry.EndSpan(span, err) }()

	entry, err := env.entry()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("activity.action", entry.Action()),
		attribute.String("subject.type", string(entry.SubjectType)),
	)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating entry id: %w", err)
	}
	entry.ID = id.String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.opts.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	if err := s.repo.Append(ctx, &entry); err != nil {
		s.logger.Error("failed to record activity", "action", entry.Action(), "subject_id", entry.SubjectID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.opts.recorder.EntryWritten(ctx, entry.Action())
	s.logger.Debug("activity recorded", "id", entry.ID, "action", entry.Action(), "subject_type", entry.SubjectType, "subject_id", entry.SubjectID)

	return &entry, nil
}

// CorrectCreatedAt backdates an existing entry. It is an administrative
// operation for migrations and assumes exclusive access to the entry.
func (s *Service) CorrectCreatedAt(ctx context.Context, id string, createdAt time.Time) error {
	if blank(id) {
		return missing("id")
	}
	if createdAt.IsZero() {
		return missing("created_at")
	}
	if err := s.repo.UpdateCreatedAt(ctx, id, createdAt.UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
		}
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.logger.Info("activity created_at corrected", "id", id, "created_at", createdAt.UTC())
	return nil
}
