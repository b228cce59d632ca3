package activity

import (
	"strings"
	"time"
)

// Kind is a registered (ActivityType, ActivityAction) pair.
type Kind struct {
	Type   ActivityType
	Action ActivityAction
}

func (k Kind) String() string {
	return Action(k.Type, k.Action)
}

// kinds is the registry of every event kind and the subject types it may be
// recorded against. New event kinds are added here and nowhere else.
var kinds = map[Kind][]SubjectType{
	{TypeCustomer, ActionCreate}:            {SubjectCustomer},
	{TypeCompany, ActionCreate}:             {SubjectCompany},
	{TypeInternalNote, ActionCreate}:        {SubjectCustomer, SubjectCompany},
	{TypeConversationMessage, ActionCreate}: {SubjectCustomer},
	{TypeSegment, ActionCreate}:             {SubjectCustomer, SubjectCompany},
}

// Kinds returns the registered event kinds.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	return out
}

// ValidateKind checks that kind is registered and may target subjectType.
func ValidateKind(kind Kind, subjectType SubjectType) error {
	if !subjectType.Valid() {
		return unknown("subject_type", string(subjectType))
	}
	subjects, ok := kinds[kind]
	if !ok {
		if !knownType(kind.Type) {
			return unknown("activity_type", string(kind.Type))
		}
		return unknown("activity_action", string(kind.Action))
	}
	for _, s := range subjects {
		if s == subjectType {
			return nil
		}
	}
	return &ValidationError{Field: "subject_type", Reason: "is not allowed for " + kind.String()}
}

func knownType(t ActivityType) bool {
	for k := range kinds {
		if k.Type == t {
			return true
		}
	}
	return false
}

// Payload is the closed set of event variants. It is implemented only by the
// payload types declared in this file.
type Payload interface {
	Kind() Kind
	Subject() (SubjectType, string)
	envelope() (Entry, error)
}

// CustomerCreated records that a customer was created.
type CustomerCreated struct {
	CustomerID  string
	Name        string
	PerformerID string
}

func (p CustomerCreated) Kind() Kind { return Kind{TypeCustomer, ActionCreate} }

func (p CustomerCreated) Subject() (SubjectType, string) { return SubjectCustomer, p.CustomerID }

func (p CustomerCreated) envelope() (Entry, error) {
	if blank(p.CustomerID) {
		return Entry{}, missing("customer_id")
	}
	if blank(p.Name) {
		return Entry{}, missing("content")
	}
	return Entry{SourceID: p.CustomerID, Content: p.Name, PerformerID: p.PerformerID}, nil
}

// CompanyCreated records that a company was created.
type CompanyCreated struct {
	CompanyID   string
	Name        string
	PerformerID string
}

func (p CompanyCreated) Kind() Kind { return Kind{TypeCompany, ActionCreate} }

func (p CompanyCreated) Subject() (SubjectType, string) { return SubjectCompany, p.CompanyID }

func (p CompanyCreated) envelope() (Entry, error) {
	if blank(p.CompanyID) {
		return Entry{}, missing("company_id")
	}
	if blank(p.Name) {
		return Entry{}, missing("content")
	}
	return Entry{SourceID: p.CompanyID, Content: p.Name, PerformerID: p.PerformerID}, nil
}

// InternalNoteCreated records a note attached to a customer or company.
type InternalNoteCreated struct {
	NoteID      string
	SubjectType SubjectType
	SubjectID   string
	Content     string
	AuthorID    string
}

func (p InternalNoteCreated) Kind() Kind { return Kind{TypeInternalNote, ActionCreate} }

func (p InternalNoteCreated) Subject() (SubjectType, string) { return p.SubjectType, p.SubjectID }

func (p InternalNoteCreated) envelope() (Entry, error) {
	if blank(p.NoteID) {
		return Entry{}, missing("note_id")
	}
	if blank(p.SubjectID) {
		return Entry{}, missing("subject_id")
	}
	if blank(p.Content) {
		return Entry{}, missing("content")
	}
	return Entry{SourceID: p.NoteID, Content: p.Content, PerformerID: p.AuthorID}, nil
}

// ConversationMessageCreated records a conversation message from or to a
// customer. AuthorID is the user who wrote it, or the customer itself.
type ConversationMessageCreated struct {
	MessageID  string
	CustomerID string
	Content    string
	AuthorID   string
}

func (p ConversationMessageCreated) Kind() Kind { return Kind{TypeConversationMessage, ActionCreate} }

func (p ConversationMessageCreated) Subject() (SubjectType, string) {
	return SubjectCustomer, p.CustomerID
}

func (p ConversationMessageCreated) envelope() (Entry, error) {
	if blank(p.MessageID) {
		return Entry{}, missing("message_id")
	}
	if blank(p.CustomerID) {
		return Entry{}, missing("customer_id")
	}
	if blank(p.Content) {
		return Entry{}, missing("content")
	}
	if blank(p.AuthorID) {
		return Entry{}, missing("author_id")
	}
	return Entry{SourceID: p.MessageID, Content: p.Content, PerformerID: p.AuthorID}, nil
}

// SegmentMatched records that a subject matched a saved segment. These
// entries are produced by the segment materializer and have no performer.
type SegmentMatched struct {
	SegmentID   string
	Name        string
	SubjectType SubjectType
	SubjectID   string
}

func (p SegmentMatched) Kind() Kind { return Kind{TypeSegment, ActionCreate} }

func (p SegmentMatched) Subject() (SubjectType, string) { return p.SubjectType, p.SubjectID }

func (p SegmentMatched) envelope() (Entry, error) {
	if blank(p.SegmentID) {
		return Entry{}, missing("segment_id")
	}
	if blank(p.SubjectID) {
		return Entry{}, missing("subject_id")
	}
	if blank(p.Name) {
		return Entry{}, missing("content")
	}
	return Entry{SourceID: p.SegmentID, Content: p.Name}, nil
}

// Envelope is a validated event ready to be recorded. The zero value is not
// valid; build envelopes with New or one of the typed constructors.
type Envelope struct {
	payload   Payload
	createdAt time.Time
}

// New validates p and wraps it in an envelope.
func New(p Payload) (Envelope, error) {
	if p == nil {
		return Envelope{}, missing("payload")
	}
	env := Envelope{payload: p}
	if _, err := env.entry(); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

func NewCustomerCreated(customerID, name, performerID string) (Envelope, error) {
	return New(CustomerCreated{CustomerID: customerID, Name: name, PerformerID: performerID})
}

func NewCompanyCreated(companyID, name, performerID string) (Envelope, error) {
	return New(CompanyCreated{CompanyID: companyID, Name: name, PerformerID: performerID})
}

func NewInternalNoteCreated(noteID string, subjectType SubjectType, subjectID, content, authorID string) (Envelope, error) {
	return New(InternalNoteCreated{
		NoteID:      noteID,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Content:     content,
		AuthorID:    authorID,
	})
}

func NewConversationMessageCreated(messageID, customerID, content, authorID string) (Envelope, error) {
	return New(ConversationMessageCreated{
		MessageID:  messageID,
		CustomerID: customerID,
		Content:    content,
		AuthorID:   authorID,
	})
}

func NewSegmentMatched(segmentID, name string, subjectType SubjectType, subjectID string) (Envelope, error) {
	return New(SegmentMatched{
		SegmentID:   segmentID,
		Name:        name,
		SubjectType: subjectType,
		SubjectID:   subjectID,
	})
}

// Payload returns the event variant carried by the envelope.
func (e Envelope) Payload() Payload {
	return e.payload
}

// WithCreatedAt returns a copy of e whose entry will carry t instead of the
// write time. Used for backfills and corrections only.
func (e Envelope) WithCreatedAt(t time.Time) Envelope {
	e.createdAt = t
	return e
}

// Validate re-checks the envelope. The zero Envelope fails.
func (e Envelope) Validate() error {
	_, err := e.entry()
	return err
}

// entry builds the unsaved entry for the envelope. ID is left empty.
func (e Envelope) entry() (Entry, error) {
	if e.payload == nil {
		return Entry{}, missing("payload")
	}
	kind := e.payload.Kind()
	subjectType, subjectID := e.payload.Subject()
	if err := ValidateKind(kind, subjectType); err != nil {
		return Entry{}, err
	}
	entry, err := e.payload.envelope()
	if err != nil {
		return Entry{}, err
	}
	entry.SubjectType = subjectType
	entry.SubjectID = subjectID
	entry.ActivityType = kind.Type
	entry.ActivityAction = kind.Action
	entry.CreatedAt = e.createdAt
	return entry, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
