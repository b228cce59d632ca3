package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/segment"
)

var _ segment.Evaluator = (*ConditionEvaluator)(nil)

type field struct {
	column  string
	numeric bool
}

type subjectTable struct {
	table  string
	fields map[string]field
}

// Only whitelisted columns ever reach the generated SQL.
var subjectTables = map[activity.SubjectType]subjectTable{
	activity.SubjectCustomer: {
		table: "customers",
		fields: map[string]field{
			"firstName":    {column: "first_name"},
			"lastName":     {column: "last_name"},
			"name":         {column: "name"},
			"primaryEmail": {column: "primary_email"},
			"phone":        {column: "phone"},
			"position":     {column: "position"},
		},
	},
	activity.SubjectCompany: {
		table: "companies",
		fields: map[string]field{
			"name":     {column: "name"},
			"website":  {column: "website"},
			"industry": {column: "industry"},
			"size":     {column: "size", numeric: true},
		},
	},
}

// ConditionEvaluator matches segment conditions against the customers and
// companies tables.
type ConditionEvaluator struct {
	db *DB
}

// NewConditionEvaluator creates a new ConditionEvaluator
func NewConditionEvaluator(db *DB) *ConditionEvaluator {
	return &ConditionEvaluator{db: db}
}

// MatchSubjects returns the IDs of subjects satisfying every condition, in
// ascending ID order. No conditions matches every subject.
func (e *ConditionEvaluator) MatchSubjects(ctx context.Context, conditions []segment.Condition, subjectType activity.SubjectType) ([]string, error) {
	st, ok := subjectTables[subjectType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported subject type %q", segment.ErrInvalidCondition, subjectType)
	}

	clauses := make([]string, 0, len(conditions))
	args := make([]interface{}, 0, len(conditions))
	for i, c := range conditions {
		clause, arg, err := compile(st, c)
		if err != nil {
			return nil, fmt.Errorf("%w: condition %d: %w", segment.ErrInvalidCondition, i, err)
		}
		clauses = append(clauses, clause)
		if arg != nil {
			args = append(args, arg)
		}
	}

	query := "SELECT id FROM " + st.table
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate conditions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}
	return ids, nil
}

func compile(st subjectTable, c segment.Condition) (string, interface{}, error) {
	f, ok := st.fields[c.Field]
	if !ok {
		return "", nil, fmt.Errorf("unknown field %q for %s", c.Field, st.table)
	}
	col := f.column
	text := "CAST(" + col + " AS TEXT)"

	switch c.Operator {
	case segment.OpEquals:
		return "LOWER(" + text + ") = LOWER(?)", c.Value, nil
	case segment.OpNotEquals:
		return "LOWER(" + text + ") <> LOWER(?)", c.Value, nil
	case segment.OpContains:
		return "INSTR(LOWER(" + text + "), LOWER(?)) > 0", c.Value, nil
	case segment.OpNotContains:
		return "INSTR(LOWER(" + text + "), LOWER(?)) = 0", c.Value, nil
	case segment.OpIsSet:
		return "COALESCE(" + text + ", '') <> ''", nil, nil
	case segment.OpIsNotSet:
		return "COALESCE(" + text + ", '') = ''", nil, nil
	case segment.OpGreaterThan, segment.OpLessThan:
		if !f.numeric {
			return "", nil, fmt.Errorf("operator %q needs a numeric field, got %q", c.Operator, c.Field)
		}
		cmp := ">"
		if c.Operator == segment.OpLessThan {
			cmp = "<"
		}
		return col + " " + cmp + " CAST(? AS REAL)", c.Value, nil
	default:
		return "", nil, fmt.Errorf("unknown operator %q", c.Operator)
	}
}
