package activity

// Relation names how a rollup finds the related subjects of a timeline.
type Relation int

const (
	// RelationCompanyMembers yields the customers that belong to a company.
	RelationCompanyMembers Relation = iota + 1
)

// Rollup declares that entries of the listed types recorded against related
// subjects also appear on a subject's timeline.
type Rollup struct {
	Subject SubjectType
	From    SubjectType
	Via     Relation
	Types   []ActivityType
}

// rollups is the full set of cross-subject inclusions. A conversation
// message logged against a customer shows up on each of its companies.
var rollups = []Rollup{
	{
		Subject: SubjectCompany,
		From:    SubjectCustomer,
		Via:     RelationCompanyMembers,
		Types:   []ActivityType{TypeConversationMessage},
	},
}

// RollupsFor returns the rollups that feed timelines of subjectType.
func RollupsFor(subjectType SubjectType) []Rollup {
	var out []Rollup
	for _, r := range rollups {
		if r.Subject == subjectType {
			out = append(out, r)
		}
	}
	return out
}
