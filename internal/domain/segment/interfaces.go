package segment

import (
	"context"

	"github.com/ganot/activitylog/internal/domain/activity"
)

// Store lists saved segment definitions.
type Store interface {
	List(ctx context.Context) ([]Segment, error)
}

// Evaluator returns the IDs of subjects of subjectType matching conditions.
type Evaluator interface {
	MatchSubjects(ctx context.Context, conditions []Condition, subjectType activity.SubjectType) ([]string, error)
}

// Writer records activity envelopes.
type Writer interface {
	Record(ctx context.Context, env activity.Envelope) (*activity.Entry, error)
}

// History reports which subjects already have an entry of kind produced by
// sourceID. It backs the dedup guard.
type History interface {
	SubjectsWithSource(ctx context.Context, kind activity.Kind, sourceID string) ([]string, error)
}

// Locker guards against overlapping runs. TryLock returns ok=false without
// error when another owner holds the lock.
type Locker interface {
	TryLock(ctx context.Context) (unlock func(context.Context) error, ok bool, err error)
}
