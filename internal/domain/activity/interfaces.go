package activity

import (
	"context"
	"time"

	"github.com/ganot/activitylog/internal/domain/performer"
)

// Repository provides persistence operations for activity entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListBySubjects(ctx context.Context, subjectType SubjectType, subjectIDs []string, opts ListOptions) ([]Entry, error)
	UpdateCreatedAt(ctx context.Context, id string, createdAt time.Time) error
}

// MembershipLookup resolves the customers that belong to a company. It backs
// the company rollup.
type MembershipLookup interface {
	CustomerIDsByCompany(ctx context.Context, companyID string) ([]string, error)
}

// PerformerResolver maps a performer reference to display metadata. It must
// not fail: unknown references resolve to the system performer.
type PerformerResolver interface {
	Resolve(ctx context.Context, performerID string) performer.Descriptor
}
