package segment

import (
	"time"

	"github.com/ganot/activitylog/internal/telemetry"
)

// Option configures a Materializer.
type Option func(*options)

type options struct {
	history  History
	locker   Locker
	workers  int
	now      func() time.Time
	recorder telemetry.Recorder
}

func defaultOptions() options {
	return options{
		workers:  1,
		now:      time.Now,
		recorder: telemetry.Noop{},
	}
}

// WithDedup enables the dedup guard: a subject already logged for a segment
// is not logged again. Without it every run logs every current match.
func WithDedup(history History) Option {
	return func(o *options) {
		o.history = history
	}
}

// WithLocker sets the run lock used to exclude overlapping runs.
func WithLocker(l Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

// WithWorkers bounds how many segments are evaluated concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithClock overrides the time source used for run timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
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
