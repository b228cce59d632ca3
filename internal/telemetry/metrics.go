package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records activity log metrics.
// Use NewRecorder for OTel metrics or Noop when disabled.
type Recorder interface {
	// EntryWritten counts one persisted activity entry.
	EntryWritten(ctx context.Context, action string)

	// TimelineBuilt records a timeline build with its size and latency.
	TimelineBuilt(ctx context.Context, subjectType string, entries int, d time.Duration, err error)

	// SegmentEvaluated records the outcome of evaluating one segment.
	SegmentEvaluated(ctx context.Context, segmentID string, matches int, err error)

	// MaterializationRun records a completed segment materialization run.
	MaterializationRun(ctx context.Context, written int, d time.Duration, err error)
}

type otelRecorder struct {
	entriesWritten  metric.Int64Counter
	timelineBuilds  metric.Int64Counter
	timelineLatency metric.Float64Histogram
	timelineSize    metric.Int64Histogram
	segmentEvals    metric.Int64Counter
	segmentErrors   metric.Int64Counter
	runs            metric.Int64Counter
	runLatency      metric.Float64Histogram
}

// NewRecorder creates a Recorder backed by the global OTel meter provider.
// Set the provider before calling this.
func NewRecorder() (Recorder, error) {
	meter := otel.Meter("activitylog")

	r := &otelRecorder{}
	var err error
	if r.entriesWritten, err = meter.Int64Counter("activitylog.entries.written",
		metric.WithDescription("Number of activity entries written"),
	); err != nil {
		return nil, err
	}
	if r.timelineBuilds, err = meter.Int64Counter("activitylog.timeline.builds",
		metric.WithDescription("Number of timeline builds"),
	); err != nil {
		return nil, err
	}
	if r.timelineLatency, err = meter.Float64Histogram("activitylog.timeline.latency_ms",
		metric.WithDescription("Timeline build latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if r.timelineSize, err = meter.Int64Histogram("activitylog.timeline.entries",
		metric.WithDescription("Entries returned per timeline build"),
	); err != nil {
		return nil, err
	}
	if r.segmentEvals, err = meter.Int64Counter("activitylog.segment.evaluations",
		metric.WithDescription("Number of segment condition evaluations"),
	); err != nil {
		return nil, err
	}
	if r.segmentErrors, err = meter.Int64Counter("activitylog.segment.errors",
		metric.WithDescription("Number of failed segment evaluations"),
	); err != nil {
		return nil, err
	}
	if r.runs, err = meter.Int64Counter("activitylog.materialization.runs",
		metric.WithDescription("Number of segment materialization runs"),
	); err != nil {
		return nil, err
	}
	if r.runLatency, err = meter.Float64Histogram("activitylog.materialization.latency_ms",
		metric.WithDescription("Segment materialization run latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *otelRecorder) EntryWritten(ctx context.Context, action string) {
	r.entriesWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

func (r *otelRecorder) TimelineBuilt(ctx context.Context, subjectType string, entries int, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("subject_type", subjectType),
		attribute.Bool("success", err == nil),
	)
	r.timelineBuilds.Add(ctx, 1, attrs)
	r.timelineLatency.Record(ctx, float64(d.Milliseconds()), attrs)
	if err == nil {
		r.timelineSize.Record(ctx, int64(entries), metric.WithAttributes(attribute.String("subject_type", subjectType)))
	}
}

func (r *otelRecorder) SegmentEvaluated(ctx context.Context, segmentID string, matches int, err error) {
	attrs := metric.WithAttributes(attribute.String("segment_id", segmentID))
	r.segmentEvals.Add(ctx, 1, attrs)
	if err != nil {
		r.segmentErrors.Add(ctx, 1, attrs)
	}
}

func (r *otelRecorder) MaterializationRun(ctx context.Context, written int, d time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	r.runs.Add(ctx, 1, attrs)
	r.runLatency.Record(ctx, float64(d.Milliseconds()), attrs)
}

// Noop is a Recorder that discards everything.
type Noop struct{}

func (Noop) EntryWritten(context.Context, string)                             {}
func (Noop) TimelineBuilt(context.Context, string, int, time.Duration, error) {}
func (Noop) SegmentEvaluated(context.Context, string, int, error)             {}
func (Noop) MaterializationRun(context.Context, int, time.Duration, error)    {}

var _ Recorder = Noop{}
