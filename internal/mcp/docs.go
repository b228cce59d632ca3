package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `activitylog keeps an append-only history of what happened to customers and companies and serves it as month-grouped timelines.

Core concepts:
- Subject: the customer or company a timeline belongs to.
- Entry: one logged event. Its action is "{type}-{action}", e.g. conversation_message-create.
- Performer ("by"): who did it. A user, a customer, or system. Resolved at read time.
- Month group: {date: {year, month}, list: [...]}, most recent month first, entries newest first.

Tools:
- activity_logs_customer / activity_logs_company: read a timeline. Company timelines also include conversation messages of the company's customers.
- activity_logs_add_customer_log / activity_logs_add_company_log: log creation of a subject.
- activity_logs_add_internal_note_log: log a note on whatever subject the note is attached to.
- activity_logs_add_conversation_message_log: log a message on the customer's timeline.

Logging is not idempotent: calling an add_* tool twice writes two entries.
Segment membership entries (segment-create) are written by the background materializer, not by tools.

Docs:
- activitylog://docs/timeline
- activitylog://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "activitylog://docs/timeline",
		Name:        "docs_timeline",
		Title:       "Timeline shape",
		Description: "How timelines are grouped and ordered and what each entry carries.",
		Content: `# Timelines

A timeline is a list of month groups:

    [{"date": {"year": 2024, "month": 6}, "list": [entry, ...]}, ...]

- Months are calendar months in the server's configured location (UTC by default); month is 1-12.
- Groups are ordered most recent first and are never empty.
- Entries inside a group are ordered by createdAt descending. Ties are broken by entry id descending.

Each entry:

    {"id", "sourceId", "action", "content", "createdAt", "by": {"id", "type", "details"}}

- sourceId is the customer, company, note, message or segment that produced the entry.
- by.type is user, customer or system. A performer that no longer exists shows as system with its id kept.

## Company rollup

A company timeline includes its own entries plus conversation_message-create entries of every customer that
belongs to the company. Other customer entries (notes, segment matches) stay on the customer timeline.
`,
	},
	{
		URI:         "activitylog://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Stable error codes returned by tools and what to do about them.",
		Content: `# Error codes

- VALIDATION_FAILED: a required field is missing or has an unknown value. details.field names it.
- SUBJECT_NOT_FOUND: the customer or company does not exist.
- SOURCE_NOT_FOUND: the note or message to log does not exist.
- STORAGE_UNAVAILABLE: the activity store could not be read or written. Nothing partial was returned; retry.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
