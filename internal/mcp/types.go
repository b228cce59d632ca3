package mcp

import "github.com/ganot/activitylog/internal/domain/timeline"

type CustomerTimelineParams struct {
	CustomerID string `json:"_id" jsonschema:"ID of the customer whose timeline to build"`
}

type CompanyTimelineParams struct {
	CompanyID string `json:"_id" jsonschema:"ID of the company whose timeline to build"`
}

type AddConversationMessageLogParams struct {
	CustomerID string `json:"customerId" jsonschema:"customer the conversation belongs to"`
	MessageID  string `json:"messageId" jsonschema:"conversation message to log"`
}

type AddCustomerLogParams struct {
	CustomerID string `json:"_id" jsonschema:"newly created customer"`
}

type AddCompanyLogParams struct {
	CompanyID string `json:"_id" jsonschema:"newly created company"`
}

type AddInternalNoteLogParams struct {
	NoteID string `json:"_id" jsonschema:"internal note to log against its customer or company"`
}

// TimelineResult wraps a grouped timeline, most recent month first.
type TimelineResult struct {
	Timeline []timeline.MonthView `json:"timeline"`
}

// EntryResult wraps a single recorded entry.
type EntryResult struct {
	Entry timeline.EntryView `json:"entry"`
}
