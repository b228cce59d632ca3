package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ganot/activitylog/internal/domain/performer"
	"github.com/ganot/activitylog/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Builder assembles the grouped timeline of a subject.
type Builder struct {
	repo       Repository
	members    MembershipLookup
	performers PerformerResolver
	logger     *slog.Logger
	opts       options
}

// NewBuilder creates a timeline builder. members may be nil when no rollup
// needs it.
func NewBuilder(repo Repository, members MembershipLookup, performers PerformerResolver, logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{
		repo:       repo,
		members:    members,
		performers: performers,
		logger:     logger,
		opts:       o,
	}
}

// Build loads every entry on the subject's timeline, including declared
// rollups, and returns it grouped by month, most recent first. Any storage
// failure aborts the whole build; there are no partial timelines.
func (b *Builder) Build(ctx context.Context, subjectType SubjectType, subjectID string) (_ []MonthGroup, err error) {
	start := b.opts.now()
	ctx, span := telemetry.StartSpan(ctx, "activity.timeline.build",
		attribute.String("subject.type", string(subjectType)),
		attribute.String("subject.id", subjectID),
	)
	var count int
	defer func() {
		telemetry.EndSpan(span, err)
		b.opts.recorder.TimelineBuilt(ctx, string(subjectType), count, b.opts.now().Sub(start), err)
	}()

	if !subjectType.Valid() {
		return nil, unknown("subject_type", string(subjectType))
	}
	if blank(subjectID) {
		return nil, missing("subject_id")
	}

	entries, err := b.collect(ctx, subjectType, subjectID)
	if err != nil {
		return nil, err
	}
	count = len(entries)

	groups := GroupByMonth(entries, b.opts.location)
	b.resolvePerformers(ctx, groups)
	return groups, nil
}

func (b *Builder) collect(ctx context.Context, subjectType SubjectType, subjectID string) ([]Entry, error) {
	applicable := RollupsFor(subjectType)
	results := make([][]Entry, len(applicable)+1)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := b.repo.ListBySubjects(gctx, subjectType, []string{subjectID}, ListOptions{})
		if err != nil {
			return fmt.Errorf("%w: listing %s entries: %w", ErrStorage, subjectType, err)
		}
		results[0] = entries
		return nil
	})
	for i, rollup := range applicable {
		g.Go(func() error {
			ids, err := b.related(gctx, rollup.Via, subjectID)
			if err != nil {
				return fmt.Errorf("%w: resolving related %s: %w", ErrStorage, rollup.From, err)
			}
			if len(ids) == 0 {
				return nil
			}
			entries, err := b.repo.ListBySubjects(gctx, rollup.From, ids, ListOptions{ActivityTypes: rollup.Types})
			if err != nil {
				return fmt.Errorf("%w: listing %s rollup entries: %w", ErrStorage, rollup.From, err)
			}
			results[i+1] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var merged []Entry
	for _, batch := range results {
		for _, entry := range batch {
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			seen[entry.ID] = struct{}{}
			merged = append(merged, entry)
		}
	}
	return merged, nil
}

func (b *Builder) related(ctx context.Context, via Relation, subjectID string) ([]string, error) {
	switch via {
	case RelationCompanyMembers:
		if b.members == nil {
			return nil, nil
		}
		return b.members.CustomerIDsByCompany(ctx, subjectID)
	default:
		return nil, fmt.Errorf("unknown rollup relation %d", via)
	}
}

// resolvePerformers fills in the performer of every returned item. Lookups
// are memoized for the duration of one build.
func (b *Builder) resolvePerformers(ctx context.Context, groups []MonthGroup) {
	if b.performers == nil {
		return
	}
	cache := make(map[string]performer.Descriptor)
	for gi := range groups {
		for ei := range groups[gi].Entries {
			item := &groups[gi].Entries[ei]
			by, ok := cache[item.PerformerID]
			if !ok {
				by = b.performers.Resolve(ctx, item.PerformerID)
				cache[item.PerformerID] = by
			}
			item.By = by
		}
	}
}
