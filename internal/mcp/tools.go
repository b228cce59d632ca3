package mcp

import (
	"context"

	"github.com/ganot/activitylog/internal/domain/timeline"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools adds every activity log tool to server.
func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activity_logs_customer",
		Description: "Get a customer's activity timeline grouped by month, most recent first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CustomerTimelineParams) (*sdkmcp.CallToolResult, TimelineResult, error) {
		out, err := h.CustomerTimeline(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activity_logs_company",
		Description: "Get a company's activity timeline grouped by month, including its customers' conversation messages",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CompanyTimelineParams) (*sdkmcp.CallToolResult, TimelineResult, error) {
		out, err := h.CompanyTimeline(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activity_logs_add_conversation_message_log",
		Description: "Log a conversation message on the customer's timeline; the message author is credited",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddConversationMessageLogParams) (*sdkmcp.CallToolResult, EntryResult, error) {
		out, err := h.AddConversationMessageLog(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activity_logs_add_customer_log",
		Description: "Log the creation of a customer on its own timeline",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddCustomerLogParams) (*sdkmcp.CallToolResult, EntryResult, error) {
		out, err := h.AddCustomerLog(ctx, actorFrom(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activity_logs_add_company_log",
		Description: "Log the creation of a company on its own timeline",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddCompanyLogParams) (*sdkmcp.CallToolResult, EntryResult, error) {
		out, err := h.AddCompanyLog(ctx, actorFrom(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "activity_logs_add_internal_note_log",
		Description: "Log an internal note on the timeline of the customer or company it is attached to",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AddInternalNoteLogParams) (*sdkmcp.CallToolResult, EntryResult, error) {
		out, err := h.AddInternalNoteLog(ctx, actorFrom(ctx), in)
		return nil, out, err
	})
}

func actorFrom(ctx context.Context) timeline.Actor {
	return timeline.Actor{UserID: getActorID(ctx)}
}
