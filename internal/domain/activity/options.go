package activity

import (
	"time"

	"github.com/ganot/activitylog/internal/telemetry"
)

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	ActivityTypes []ActivityType
	Limit         int
}

// Option configures a Service or Builder.
type Option func(*options)

type options struct {
	now      func() time.Time
	location *time.Location
	recorder telemetry.Recorder
}

func defaultOptions() options {
	return options{
		now:      time.Now,
		location: time.UTC,
		recorder: telemetry.Noop{},
	}
}

// WithClock overrides the time source used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the location used to compute year/month buckets.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r telemetry.Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}
