package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/performer"
	"github.com/ganot/activitylog/internal/domain/timeline"
	"github.com/stretchr/testify/require"
)

type timelineStub struct {
	customerFn func(ctx context.Context, id string) ([]timeline.MonthView, error)
	companyFn  func(ctx context.Context, id string) ([]timeline.MonthView, error)
	recordFn   func(ctx context.Context, op string, actor timeline.Actor, ids ...string) (*timeline.EntryView, error)
}

func (s timelineStub) CustomerTimeline(ctx context.Context, id string) ([]timeline.MonthView, error) {
	return s.customerFn(ctx, id)
}

func (s timelineStub) CompanyTimeline(ctx context.Context, id string) ([]timeline.MonthView, error) {
	return s.companyFn(ctx, id)
}

func (s timelineStub) RecordConversationMessage(ctx context.Context, customerID, messageID string) (*timeline.EntryView, error) {
	return s.recordFn(ctx, "message", timeline.Actor{}, customerID, messageID)
}

func (s timelineStub) RecordCustomer(ctx context.Context, actor timeline.Actor, id string) (*timeline.EntryView, error) {
	return s.recordFn(ctx, "customer", actor, id)
}

func (s timelineStub) RecordCompany(ctx context.Context, actor timeline.Actor, id string) (*timeline.EntryView, error) {
	return s.recordFn(ctx, "company", actor, id)
}

func (s timelineStub) RecordInternalNote(ctx context.Context, actor timeline.Actor, id string) (*timeline.EntryView, error) {
	return s.recordFn(ctx, "note", actor, id)
}

func echoStub() timelineStub {
	months := func(_ context.Context, id string) ([]timeline.MonthView, error) {
		return []timeline.MonthView{{
			Date: timeline.Date{Year: 2024, Month: 6},
			List: []timeline.EntryView{{ID: "e1", SourceID: id, Action: "customer-create", By: performer.System()}},
		}}, nil
	}
	return timelineStub{
		customerFn: months,
		companyFn:  months,
		recordFn: func(_ context.Context, op string, actor timeline.Actor, ids ...string) (*timeline.EntryView, error) {
			return &timeline.EntryView{
				ID:       op,
				SourceID: ids[len(ids)-1],
				By:       performer.Descriptor{ID: actor.UserID, Kind: performer.KindUser},
			}, nil
		},
	}
}

func TestHandler_Commands(t *testing.T) {
	ctx := context.Background()
	handler := NewHandler(echoStub())

	res, err := handler.Handle(ctx, "", "activityLogsCustomer", mustJSON(t, CustomerTimelineParams{CustomerID: "c1"}))
	require.NoError(t, err)
	tl := res.(TimelineResult)
	require.Len(t, tl.Timeline, 1)
	require.Equal(t, "c1", tl.Timeline[0].List[0].SourceID)

	res, err = handler.Handle(ctx, "", "activityLogsCompany", mustJSON(t, CompanyTimelineParams{CompanyID: "co1"}))
	require.NoError(t, err)
	require.Equal(t, "co1", res.(TimelineResult).Timeline[0].List[0].SourceID)

	res, err = handler.Handle(ctx, "u1", "activityLogsAddConversationMessageLog", mustJSON(t, AddConversationMessageLogParams{CustomerID: "c1", MessageID: "m1"}))
	require.NoError(t, err)
	require.Equal(t, "m1", res.(EntryResult).Entry.SourceID)

	tests := []struct {
		method string
		params any
		op     string
	}{
		{"activityLogsAddCustomerLog", AddCustomerLogParams{CustomerID: "c1"}, "customer"},
		{"activityLogsAddCompanyLog", AddCompanyLogParams{CompanyID: "co1"}, "company"},
		{"activityLogsAddInternalNoteLog", AddInternalNoteLogParams{NoteID: "n1"}, "note"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			res, err := handler.Handle(ctx, "u1", tt.method, mustJSON(t, tt.params))
			require.NoError(t, err)
			entry := res.(EntryResult).Entry
			require.Equal(t, tt.op, entry.ID)
			require.Equal(t, "u1", entry.By.ID, "actor must be passed through")
		})
	}
}

func TestHandler_ParamNames(t *testing.T) {
	var got string
	stub := echoStub()
	stub.customerFn = func(_ context.Context, id string) ([]timeline.MonthView, error) {
		got = id
		return nil, nil
	}

	_, err := NewHandler(stub).Handle(context.Background(), "", "activityLogsCustomer", json.RawMessage(`{"_id":"c42"}`))
	require.NoError(t, err)
	require.Equal(t, "c42", got)
}

func TestHandler_UnknownMethodAndBadParams(t *testing.T) {
	handler := NewHandler(echoStub())

	_, err := handler.Handle(context.Background(), "", "activityLogsDeal", nil)
	require.ErrorIs(t, err, ErrUnknownMethod)

	_, err = handler.Handle(context.Background(), "", "activityLogsCustomer", json.RawMessage(`{"_id":`))
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("%w: customer c1", timeline.ErrSubjectNotFound), "SUBJECT_NOT_FOUND"},
		{fmt.Errorf("%w: note n1", timeline.ErrSourceNotFound), "SOURCE_NOT_FOUND"},
		{fmt.Errorf("%w: disk", activity.ErrStorage), "STORAGE_UNAVAILABLE"},
		{&activity.ValidationError{Field: "content", Reason: "is required"}, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			stub := echoStub()
			stub.recordFn = func(context.Context, string, timeline.Actor, ...string) (*timeline.EntryView, error) {
				return nil, tt.err
			}
			_, err := NewHandler(stub).Handle(context.Background(), "", "activityLogsAddCustomerLog", mustJSON(t, AddCustomerLogParams{CustomerID: "c1"}))
			require.Error(t, err)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.code, apiErr.Code)
		})
	}

	require.Nil(t, MapError(errors.New("boom")))
	require.Nil(t, MapError(nil))

	apiErr := MapError(&activity.ValidationError{Field: "subject_id", Reason: "is required"})
	require.Equal(t, map[string]string{"field": "subject_id"}, apiErr.Details)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
