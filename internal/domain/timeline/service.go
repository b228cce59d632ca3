package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/repository"
)

// Service is the entry point for reading timelines and recording the
// activity of neighbouring domains.
type Service struct {
	stores     Stores
	builder    Builder
	writer     Writer
	performers activity.PerformerResolver
	logger     *slog.Logger
}

// NewService creates a new timeline service.
func NewService(stores Stores, builder Builder, writer Writer, performers activity.PerformerResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		stores:     stores,
		builder:    builder,
		writer:     writer,
		performers: performers,
		logger:     logger,
	}
}

// CustomerTimeline returns the grouped timeline of a customer.
func (s *Service) CustomerTimeline(ctx context.Context, customerID string) ([]MonthView, error) {
	if _, err := s.customer(ctx, customerID); err != nil {
		return nil, err
	}
	groups, err := s.builder.Build(ctx, activity.SubjectCustomer, customerID)
	if err != nil {
		return nil, err
	}
	return newMonthViews(groups), nil
}

// CompanyTimeline returns the grouped timeline of a company, including the
// conversation messages of its customers.
func (s *Service) CompanyTimeline(ctx context.Context, companyID string) ([]MonthView, error) {
	if _, err := s.company(ctx, companyID); err != nil {
		return nil, err
	}
	groups, err := s.builder.Build(ctx, activity.SubjectCompany, companyID)
	if err != nil {
		return nil, err
	}
	return newMonthViews(groups), nil
}

// RecordConversationMessage logs a conversation message against a customer.
// The message author is credited as performer.
func (s *Service) RecordConversationMessage(ctx context.Context, customerID, messageID string) (*EntryView, error) {
	if _, err := s.customer(ctx, customerID); err != nil {
		return nil, err
	}
	msg, err := s.stores.Messages.Get(ctx, messageID)
	if err != nil {
		return nil, sourceErr("conversation message", messageID, err)
	}
	author := msg.AuthorID()
	if author == "" {
		author = customerID
	}
	env, err := activity.NewConversationMessageCreated(msg.ID, customerID, msg.Content, author)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, env)
}

// RecordCustomer logs the creation of a customer by actor.
func (s *Service) RecordCustomer(ctx context.Context, actor Actor, customerID string) (*EntryView, error) {
	customer, err := s.customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	env, err := activity.NewCustomerCreated(customer.ID, customer.DisplayName(), actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, env)
}

// RecordCompany logs the creation of a company by actor.
func (s *Service) RecordCompany(ctx context.Context, actor Actor, companyID string) (*EntryView, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	env, err := activity.NewCompanyCreated(company.ID, company.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, env)
}

// RecordInternalNote logs an internal note against the customer or company it
// is attached to. The note author is credited, falling back to actor.
func (s *Service) RecordInternalNote(ctx context.Context, actor Actor, noteID string) (*EntryView, error) {
	note, err := s.stores.Notes.Get(ctx, noteID)
	if err != nil {
		return nil, sourceErr("internal note", noteID, err)
	}
	subjectType := activity.SubjectType(note.ContentType)
	switch subjectType {
	case activity.SubjectCustomer:
		_, err = s.customer(ctx, note.ContentTypeID)
	case activity.SubjectCompany:
		_, err = s.company(ctx, note.ContentTypeID)
	}
	if err != nil {
		return nil, err
	}
	author := note.CreatedBy
	if author == "" {
		author = actor.UserID
	}
	env, err := activity.NewInternalNoteCreated(note.ID, subjectType, note.ContentTypeID, note.Content, author)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, env)
}

func (s *Service) record(ctx context.Context, env activity.Envelope) (*EntryView, error) {
	entry, err := s.writer.Record(ctx, env)
	if err != nil {
		return nil, err
	}
	view := newEntryView(*entry, s.performers.Resolve(ctx, entry.PerformerID))
	return &view, nil
}

func (s *Service) customer(ctx context.Context, id string) (*crm.Customer, error) {
	customer, err := s.stores.Customers.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: customer %s", ErrSubjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading customer: %w", activity.ErrStorage, err)
	}
	return customer, nil
}

func (s *Service) company(ctx context.Context, id string) (*crm.Company, error) {
	company, err := s.stores.Companies.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: company %s", ErrSubjectNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading company: %w", activity.ErrStorage, err)
	}
	return company, nil
}

func sourceErr(kind, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrSourceNotFound, kind, id)
	}
	return fmt.Errorf("%w: loading %s: %w", activity.ErrStorage, kind, err)
}
