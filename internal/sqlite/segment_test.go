package sqlite

import (
	"context"
	"testing"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSegmentRepository_CreateGetList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSegmentRepository(db)

	s := &segment.Segment{
		ID:          "s1",
		Name:        "Test users",
		SubjectType: activity.SubjectCustomer,
		Conditions: []segment.Condition{
			{Field: "name", Operator: segment.OpEquals, Value: "Test user", Type: "string"},
		},
	}
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Create(ctx, &segment.Segment{ID: "s2", Name: "All companies", SubjectType: activity.SubjectCompany}))

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, s.Conditions, got.Conditions)
	require.Equal(t, activity.SubjectCustomer, got.SubjectType)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Create(ctx, &segment.Segment{ID: "s3", Name: "bad", SubjectType: "deal"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func seedSubjects(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	customers := NewCustomerRepository(db)
	companies := NewCompanyRepository(db)

	require.NoError(t, customers.Create(ctx, &crm.Customer{ID: "c1", Name: "test user", PrimaryEmail: "t@example.com"}))
	require.NoError(t, customers.Create(ctx, &crm.Customer{ID: "c2", Name: "Other", Phone: "555"}))
	require.NoError(t, customers.Create(ctx, &crm.Customer{ID: "c3", FirstName: "Testy"}))
	require.NoError(t, companies.Create(ctx, &crm.Company{ID: "co1", Name: "Acme", Size: 50}))
	require.NoError(t, companies.Create(ctx, &crm.Company{ID: "co2", Name: "Globex", Size: 5}))
}

func TestConditionEvaluator_Operators(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedSubjects(t, db)
	ev := NewConditionEvaluator(db)

	tests := []struct {
		name        string
		subjectType activity.SubjectType
		conditions  []segment.Condition
		want        []string
	}{
		{"equals is case insensitive", activity.SubjectCustomer,
			[]segment.Condition{{Field: "name", Operator: segment.OpEquals, Value: "Test user"}}, []string{"c1"}},
		{"not equals", activity.SubjectCustomer,
			[]segment.Condition{{Field: "name", Operator: segment.OpNotEquals, Value: "TEST USER"}}, []string{"c2", "c3"}},
		{"contains", activity.SubjectCustomer,
			[]segment.Condition{{Field: "primaryEmail", Operator: segment.OpContains, Value: "EXAMPLE"}}, []string{"c1"}},
		{"does not contain", activity.SubjectCustomer,
			[]segment.Condition{{Field: "firstName", Operator: segment.OpNotContains, Value: "test"}}, []string{"c1", "c2"}},
		{"is set", activity.SubjectCustomer,
			[]segment.Condition{{Field: "phone", Operator: segment.OpIsSet}}, []string{"c2"}},
		{"is not set", activity.SubjectCustomer,
			[]segment.Condition{{Field: "phone", Operator: segment.OpIsNotSet}}, []string{"c1", "c3"}},
		{"greater than", activity.SubjectCompany,
			[]segment.Condition{{Field: "size", Operator: segment.OpGreaterThan, Value: "10"}}, []string{"co1"}},
		{"less than", activity.SubjectCompany,
			[]segment.Condition{{Field: "size", Operator: segment.OpLessThan, Value: "10"}}, []string{"co2"}},
		{"conditions are ANDed", activity.SubjectCustomer,
			[]segment.Condition{
				{Field: "name", Operator: segment.OpIsSet},
				{Field: "phone", Operator: segment.OpIsNotSet},
			}, []string{"c1"}},
		{"no conditions match all", activity.SubjectCompany, nil, []string{"co1", "co2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.MatchSubjects(ctx, tt.conditions, tt.subjectType)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestConditionEvaluator_Rejects(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	ev := NewConditionEvaluator(db)

	_, err := ev.MatchSubjects(ctx, []segment.Condition{{Field: "id; DROP TABLE customers", Operator: segment.OpEquals}}, activity.SubjectCustomer)
	require.ErrorContains(t, err, "unknown field")
	require.ErrorIs(t, err, segment.ErrInvalidCondition)

	_, err = ev.MatchSubjects(ctx, []segment.Condition{{Field: "name", Operator: "regex"}}, activity.SubjectCustomer)
	require.ErrorContains(t, err, "unknown operator")

	_, err = ev.MatchSubjects(ctx, []segment.Condition{{Field: "name", Operator: segment.OpGreaterThan, Value: "1"}}, activity.SubjectCustomer)
	require.ErrorContains(t, err, "numeric")

	_, err = ev.MatchSubjects(ctx, nil, "deal")
	require.ErrorIs(t, err, segment.ErrInvalidCondition)
}
