package segment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var segmentKind = activity.Kind{Type: activity.TypeSegment, Action: activity.ActionCreate}

// Materializer turns segment matches into segment-create activity entries.
type Materializer struct {
	segments  Store
	evaluator Evaluator
	writer    Writer
	logger    *slog.Logger
	opts      options
}

// NewMaterializer creates a new segment materializer.
func NewMaterializer(segments Store, evaluator Evaluator, writer Writer, logger *slog.Logger, opts ...Option) *Materializer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Materializer{
		segments:  segments,
		evaluator: evaluator,
		writer:    writer,
		logger:    logger,
		opts:      o,
	}
}

// RunOnce evaluates every saved segment and writes one entry per matching
// subject. It returns the number of entries written.
//
// A segment whose conditions are invalid is logged and skipped; the run
// continues. Storage failures, whether evaluating, loading prior matches or
// writing, and cancellation are collected per segment and returned joined,
// alongside the count of entries that were written.
func (m *Materializer) RunOnce(ctx context.Context) (_ int, err error) {
	start := m.opts.now()
	ctx, span := telemetry.StartSpan(ctx, "segment.materialize")
	var written atomic.Int64
	defer func() {
		telemetry.EndSpan(span, err)
		m.opts.recorder.MaterializationRun(ctx, int(written.Load()), m.opts.now().Sub(start), err)
	}()

	if m.opts.locker != nil {
		unlock, ok, err := m.opts.locker.TryLock(ctx)
		if err != nil {
			return 0, fmt.Errorf("acquiring run lock: %w", err)
		}
		if !ok {
			m.logger.Info("segment materialization skipped", "reason", "lock held")
			return 0, ErrRunInProgress
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release run lock", "error", err)
			}
		}()
	}

	segments, err := m.segments.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing segments: %w", err)
	}

	var (
		mu      sync.Mutex
		errs    []error
		skipped atomic.Int64
		g       errgroup.Group
	)
	g.SetLimit(m.opts.workers)
	for _, seg := range segments {
		g.Go(func() error {
			n, evaluated, err := m.materialize(ctx, seg)
			written.Add(int64(n))
			if !evaluated {
				skipped.Add(1)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	span.SetAttributes(
		attribute.Int("segments.total", len(segments)),
		attribute.Int64("segments.skipped", skipped.Load()),
		attribute.Int64("entries.written", written.Load()),
	)
	m.logger.Info("segment materialization finished",
		"segments", len(segments),
		"skipped", skipped.Load(),
		"written", written.Load(),
		"failed", len(errs),
	)

	return int(written.Load()), errors.Join(errs...)
}

// materialize handles a single segment. evaluated is false when the
// segment's conditions are invalid; that case is not an error.
func (m *Materializer) materialize(ctx context.Context, seg Segment) (written int, evaluated bool, err error) {
	if err := ctx.Err(); err != nil {
		return 0, true, fmt.Errorf("segment %s: %w", seg.ID, err)
	}

	matches, err := m.evaluator.MatchSubjects(ctx, seg.Conditions, seg.SubjectType)
	m.opts.recorder.SegmentEvaluated(ctx, seg.ID, len(matches), err)
	if err != nil {
		if !errors.Is(err, ErrInvalidCondition) {
			return 0, true, fmt.Errorf("segment %s: %w: evaluating conditions: %w", seg.ID, activity.ErrStorage, err)
		}
		evalErr := &EvaluationError{SegmentID: seg.ID, Err: err}
		m.logger.Warn("segment evaluation failed", "segment_id", seg.ID, "segment", seg.Name, "error", evalErr)
		telemetry.AddSpanEvent(ctx, "segment.evaluation_failed", attribute.String("segment.id", seg.ID))
		return 0, false, nil
	}

	var seen map[string]struct{}
	if m.opts.history != nil {
		prior, err := m.opts.history.SubjectsWithSource(ctx, segmentKind, seg.ID)
		if err != nil {
			return 0, true, fmt.Errorf("segment %s: loading prior matches: %w", seg.ID, err)
		}
		seen = make(map[string]struct{}, len(prior))
		for _, id := range prior {
			seen[id] = struct{}{}
		}
	}

	subjects := slices.Clone(matches)
	slices.Sort(subjects)
	subjects = slices.Compact(subjects)

	for _, subjectID := range subjects {
		if err := ctx.Err(); err != nil {
			return written, true, fmt.Errorf("segment %s: %w", seg.ID, err)
		}
		if _, dup := seen[subjectID]; dup {
			continue
		}
		env, err := activity.NewSegmentMatched(seg.ID, seg.Name, seg.SubjectType, subjectID)
		if err != nil {
			return written, true, fmt.Errorf("segment %s: %w", seg.ID, err)
		}
		if _, err := m.writer.Record(ctx, env); err != nil {
			return written, true, fmt.Errorf("segment %s: recording match for %s: %w", seg.ID, subjectID, err)
		}
		written++
	}

	m.logger.Debug("segment materialized", "segment_id", seg.ID, "matches", len(subjects), "written", written)
	return written, true, nil
}
