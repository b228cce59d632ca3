package performer

// Kind classifies who performed an action.
type Kind string

const (
	KindUser     Kind = "user"
	KindCustomer Kind = "customer"
	KindSystem   Kind = "system"
)

// Details is display metadata for a performer.
type Details struct {
	Avatar         string `json:"avatar,omitempty"`
	FullName       string `json:"fullName,omitempty"`
	Position       string `json:"position,omitempty"`
	ExternalHandle string `json:"externalHandle,omitempty"`
}

// Descriptor identifies the performer of an activity. It is derived at read
// time and never stored with the entry.
type Descriptor struct {
	ID      string  `json:"id,omitempty"`
	Kind    Kind    `json:"type"`
	Details Details `json:"details"`
}

// System is the descriptor for automated and self-performed events.
func System() Descriptor {
	return Descriptor{Kind: KindSystem}
}
