package mocks

import (
	"context"
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/domain/performer"
	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) ListBySubjects(ctx context.Context, subjectType activity.SubjectType, subjectIDs []string, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, subjectType, subjectIDs, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) UpdateCreatedAt(ctx context.Context, id string, createdAt time.Time) error {
	args := m.Called(ctx, id, createdAt)
	return args.Error(0)
}

// MembershipLookup is a mock for activity.MembershipLookup.
type MembershipLookup struct {
	mock.Mock
}

func (m *MembershipLookup) CustomerIDsByCompany(ctx context.Context, companyID string) ([]string, error) {
	args := m.Called(ctx, companyID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// PerformerResolver is a mock for activity.PerformerResolver.
type PerformerResolver struct {
	mock.Mock
}

func (m *PerformerResolver) Resolve(ctx context.Context, performerID string) performer.Descriptor {
	args := m.Called(ctx, performerID)
	return args.Get(0).(performer.Descriptor)
}

// UserStore is a mock for performer.UserLookup.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) Get(ctx context.Context, id string) (*crm.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*crm.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// CustomerStore is a mock for performer.CustomerLookup and timeline.CustomerStore.
type CustomerStore struct {
	mock.Mock
}

func (m *CustomerStore) Get(ctx context.Context, id string) (*crm.Customer, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*crm.Customer); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// CompanyStore is a mock for timeline.CompanyStore.
type CompanyStore struct {
	mock.Mock
}

func (m *CompanyStore) Get(ctx context.Context, id string) (*crm.Company, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*crm.Company); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// NoteStore is a mock for timeline.NoteStore.
type NoteStore struct {
	mock.Mock
}

func (m *NoteStore) Get(ctx context.Context, id string) (*crm.InternalNote, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*crm.InternalNote); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

// MessageStore is a mock for timeline.MessageStore.
type MessageStore struct {
	mock.Mock
}

func (m *MessageStore) Get(ctx context.Context, id string) (*crm.ConversationMessage, error) {
	args := m.Called(ctx, id)
	if msg, ok := args.Get(0).(*crm.ConversationMessage); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// TimelineBuilder is a mock for timeline.Builder.
type TimelineBuilder struct {
	mock.Mock
}

func (m *TimelineBuilder) Build(ctx context.Context, subjectType activity.SubjectType, subjectID string) ([]activity.MonthGroup, error) {
	args := m.Called(ctx, subjectType, subjectID)
	if groups, ok := args.Get(0).([]activity.MonthGroup); ok {
		return groups, args.Error(1)
	}
	return nil, args.Error(1)
}

// EntryWriter is a mock for segment.Writer and timeline.Writer.
type EntryWriter struct {
	mock.Mock
}

func (m *EntryWriter) Record(ctx context.Context, env activity.Envelope) (*activity.Entry, error) {
	args := m.Called(ctx, env)
	if e, ok := args.Get(0).(*activity.Entry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

// SegmentStore is a mock for segment.Store.
type SegmentStore struct {
	mock.Mock
}

func (m *SegmentStore) List(ctx context.Context) ([]segment.Segment, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]segment.Segment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SegmentEvaluator is a mock for segment.Evaluator.
type SegmentEvaluator struct {
	mock.Mock
}

func (m *SegmentEvaluator) MatchSubjects(ctx context.Context, conditions []segment.Condition, subjectType activity.SubjectType) ([]string, error) {
	args := m.Called(ctx, conditions, subjectType)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// History is a mock for segment.History.
type History struct {
	mock.Mock
}

func (m *History) SubjectsWithSource(ctx context.Context, kind activity.Kind, sourceID string) ([]string, error) {
	args := m.Called(ctx, kind, sourceID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// Locker is a mock for segment.Locker.
type Locker struct {
	mock.Mock
}

func (m *Locker) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	args := m.Called(ctx)
	unlock, _ := args.Get(0).(func(context.Context) error)
	return unlock, args.Bool(1), args.Error(2)
}
