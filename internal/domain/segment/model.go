package segment

import (
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
)

// Operator is a condition comparison operator.
type Operator string

const (
	OpEquals      Operator = "e"   // case-insensitive equality
	OpNotEquals   Operator = "dne" // case-insensitive inequality
	OpContains    Operator = "c"
	OpNotContains Operator = "dnc"
	OpIsSet       Operator = "is"
	OpIsNotSet    Operator = "ins"
	OpGreaterThan Operator = "igt"
	OpLessThan    Operator = "ilt"
)

// Condition is one saved filter clause. Conditions of a segment are ANDed.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value,omitempty"`
	Type     string   `json:"type,omitempty"`
	DateUnit string   `json:"dateUnit,omitempty"`
}

// Segment is a saved filter over customers or companies.
type Segment struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	SubjectType activity.SubjectType `json:"subject_type"`
	Conditions  []Condition          `json:"conditions"`
	CreatedAt   time.Time            `json:"created_at"`
}
