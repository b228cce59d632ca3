package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ganot/activitylog/internal/domain/timeline"
)

// TimelineService defines the timeline operations exposed over MCP and
// JSON-RPC.
type TimelineService interface {
	CustomerTimeline(ctx context.Context, customerID string) ([]timeline.MonthView, error)
	CompanyTimeline(ctx context.Context, companyID string) ([]timeline.MonthView, error)
	RecordConversationMessage(ctx context.Context, customerID, messageID string) (*timeline.EntryView, error)
	RecordCustomer(ctx context.Context, actor timeline.Actor, customerID string) (*timeline.EntryView, error)
	RecordCompany(ctx context.Context, actor timeline.Actor, companyID string) (*timeline.EntryView, error)
	RecordInternalNote(ctx context.Context, actor timeline.Actor, noteID string) (*timeline.EntryView, error)
}

// Handler dispatches activity log commands.
type Handler struct {
	timeline TimelineService
}

// NewHandler creates a new handler.
func NewHandler(svc TimelineService) *Handler {
	return &Handler{timeline: svc}
}

// Handle dispatches JSON-RPC requests by method name.
func (h *Handler) Handle(ctx context.Context, actorID, method string, params json.RawMessage) (any, error) {
	actor := timeline.Actor{UserID: actorID}
	switch method {
	case "activityLogsCustomer":
		var req CustomerTimelineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.CustomerTimeline(ctx, req)
	case "activityLogsCompany":
		var req CompanyTimelineParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.CompanyTimeline(ctx, req)
	case "activityLogsAddConversationMessageLog":
		var req AddConversationMessageLogParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.AddConversationMessageLog(ctx, req)
	case "activityLogsAddCustomerLog":
		var req AddCustomerLogParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.AddCustomerLog(ctx, actor, req)
	case "activityLogsAddCompanyLog":
		var req AddCompanyLogParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.AddCompanyLog(ctx, actor, req)
	case "activityLogsAddInternalNoteLog":
		var req AddInternalNoteLogParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.AddInternalNoteLog(ctx, actor, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func (h *Handler) CustomerTimeline(ctx context.Context, req CustomerTimelineParams) (TimelineResult, error) {
	months, err := h.timeline.CustomerTimeline(ctx, req.CustomerID)
	if err != nil {
		return TimelineResult{}, mapError(err)
	}
	return TimelineResult{Timeline: months}, nil
}

func (h *Handler) CompanyTimeline(ctx context.Context, req CompanyTimelineParams) (TimelineResult, error) {
	months, err := h.timeline.CompanyTimeline(ctx, req.CompanyID)
	if err != nil {
		return TimelineResult{}, mapError(err)
	}
	return TimelineResult{Timeline: months}, nil
}

func (h *Handler) AddConversationMessageLog(ctx context.Context, req AddConversationMessageLogParams) (EntryResult, error) {
	return entryResult(h.timeline.RecordConversationMessage(ctx, req.CustomerID, req.MessageID))
}

func (h *Handler) AddCustomerLog(ctx context.Context, actor timeline.Actor, req AddCustomerLogParams) (EntryResult, error) {
	return entryResult(h.timeline.RecordCustomer(ctx, actor, req.CustomerID))
}

func (h *Handler) AddCompanyLog(ctx context.Context, actor timeline.Actor, req AddCompanyLogParams) (EntryResult, error) {
	return entryResult(h.timeline.RecordCompany(ctx, actor, req.CompanyID))
}

func (h *Handler) AddInternalNoteLog(ctx context.Context, actor timeline.Actor, req AddInternalNoteLogParams) (EntryResult, error) {
	return entryResult(h.timeline.RecordInternalNote(ctx, actor, req.NoteID))
}

func entryResult(view *timeline.EntryView, err error) (EntryResult, error) {
	if err != nil {
		return EntryResult{}, mapError(err)
	}
	return EntryResult{Entry: *view}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
