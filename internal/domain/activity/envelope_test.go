package activity_test

import (
	"testing"
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_Constructors(t *testing.T) {
	env, err := activity.NewCustomerCreated("c1", "Ada", "u1")
	require.NoError(t, err)
	require.NoError(t, env.Validate())
	require.Equal(t, "customer-create", env.Payload().Kind().String())

	subjectType, subjectID := env.Payload().Subject()
	require.Equal(t, activity.SubjectCustomer, subjectType)
	require.Equal(t, "c1", subjectID)

	_, err = activity.NewInternalNoteCreated("n1", activity.SubjectCompany, "co1", "call back", "u1")
	require.NoError(t, err)

	_, err = activity.NewSegmentMatched("s1", "VIP", activity.SubjectCompany, "co1")
	require.NoError(t, err)
}

func TestEnvelope_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		build func() (activity.Envelope, error)
		field string
	}{
		{"missing customer id", func() (activity.Envelope, error) {
			return activity.NewCustomerCreated(" ", "Ada", "")
		}, "customer_id"},
		{"missing company name", func() (activity.Envelope, error) {
			return activity.NewCompanyCreated("co1", "", "")
		}, "content"},
		{"message without author", func() (activity.Envelope, error) {
			return activity.NewConversationMessageCreated("m1", "c1", "hi", "")
		}, "author_id"},
		{"note on unknown subject type", func() (activity.Envelope, error) {
			return activity.NewInternalNoteCreated("n1", "deal", "d1", "x", "u1")
		}, "subject_type"},
		{"segment without name", func() (activity.Envelope, error) {
			return activity.NewSegmentMatched("s1", "", activity.SubjectCustomer, "c1")
		}, "content"},
		{"nil payload", func() (activity.Envelope, error) {
			return activity.New(nil)
		}, "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.ErrorIs(t, err, activity.ErrValidation)
			var verr *activity.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEnvelope_ZeroValueInvalid(t *testing.T) {
	require.ErrorIs(t, activity.Envelope{}.Validate(), activity.ErrValidation)
}

func TestValidateKind(t *testing.T) {
	msg := activity.Kind{Type: activity.TypeConversationMessage, Action: activity.ActionCreate}
	require.NoError(t, activity.ValidateKind(msg, activity.SubjectCustomer))
	require.ErrorIs(t, activity.ValidateKind(msg, activity.SubjectCompany), activity.ErrValidation)

	err := activity.ValidateKind(activity.Kind{Type: "deal", Action: activity.ActionCreate}, activity.SubjectCustomer)
	var verr *activity.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "activity_type", verr.Field)

	err = activity.ValidateKind(activity.Kind{Type: activity.TypeCustomer, Action: "delete"}, activity.SubjectCustomer)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "activity_action", verr.Field)

	require.Len(t, activity.Kinds(), 5)
}

func TestEnvelope_WithCreatedAtKeepsPayload(t *testing.T) {
	env, err := activity.NewCompanyCreated("co1", "Acme", "")
	require.NoError(t, err)

	backdated := env.WithCreatedAt(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, env.Payload(), backdated.Payload())
	require.NoError(t, backdated.Validate())
}
