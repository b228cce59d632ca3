package timeline

import (
	"context"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/crm"
)

// CustomerStore fetches customers.
type CustomerStore interface {
	Get(ctx context.Context, id string) (*crm.Customer, error)
}

// CompanyStore fetches companies.
type CompanyStore interface {
	Get(ctx context.Context, id string) (*crm.Company, error)
}

// NoteStore fetches internal notes.
type NoteStore interface {
	Get(ctx context.Context, id string) (*crm.InternalNote, error)
}

// MessageStore fetches conversation messages.
type MessageStore interface {
	Get(ctx context.Context, id string) (*crm.ConversationMessage, error)
}

// Builder builds grouped timelines.
type Builder interface {
	Build(ctx context.Context, subjectType activity.SubjectType, subjectID string) ([]activity.MonthGroup, error)
}

// Writer records activity envelopes.
type Writer interface {
	Record(ctx context.Context, env activity.Envelope) (*activity.Entry, error)
}

// Stores groups the record stores the service reads from.
type Stores struct {
	Customers CustomerStore
	Companies CompanyStore
	Notes     NoteStore
	Messages  MessageStore
}
