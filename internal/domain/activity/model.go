package activity

import "time"

// SubjectType identifies the kind of entity a timeline is built for.
type SubjectType string

const (
	SubjectCustomer SubjectType = "customer"
	SubjectCompany  SubjectType = "company"
)

// Valid reports whether t is a known subject type.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectCustomer, SubjectCompany:
		return true
	}
	return false
}

// ActivityType identifies the domain an event originates from.
type ActivityType string

const (
	TypeCustomer            ActivityType = "customer"
	TypeCompany             ActivityType = "company"
	TypeInternalNote        ActivityType = "internal_note"
	TypeConversationMessage ActivityType = "conversation_message"
	TypeSegment             ActivityType = "segment"
)

// ActivityAction identifies what happened within an activity type.
type ActivityAction string

const (
	ActionCreate ActivityAction = "create"
)

// Action renders the public action string, e.g. "segment-create".
func Action(t ActivityType, a ActivityAction) string {
	return string(t) + "-" + string(a)
}

// Entry is a persisted activity log entry. Entries are append-only; the only
// permitted mutation is an administrative CreatedAt correction.
type Entry struct {
	ID             string         `json:"id"`
	SubjectType    SubjectType    `json:"subject_type"`
	SubjectID      string         `json:"subject_id"`
	ActivityType   ActivityType   `json:"activity_type"`
	ActivityAction ActivityAction `json:"activity_action"`
	SourceID       string         `json:"source_id"`
	Content        string         `json:"content"`
	PerformerID    string         `json:"performer_id,omitempty"` // empty means system or self
	CreatedAt      time.Time      `json:"created_at"`
}

// Action returns the "{type}-{action}" string for the entry.
func (e Entry) Action() string {
	return Action(e.ActivityType, e.ActivityAction)
}

// YearMonth is a calendar bucket key.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Before reports whether ym is an earlier bucket than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// MonthGroup holds the entries of one subject that fall into a single
// calendar month, most recent first.
type MonthGroup struct {
	Date    YearMonth      `json:"date"`
	Entries []TimelineItem `json:"list"`
}
