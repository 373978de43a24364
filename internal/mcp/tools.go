package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Argument names use snake_case on the wire.

var saveToolDef = mcp.NewTool("record_save",
	mcp.WithDescription("Save a prompt session to history. Creates a new record, or replaces an existing one when id is given."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Record title")),
	mcp.WithString("id", mcp.Description("Existing record ID to replace")),
	mcp.WithString("description", mcp.Description("Free-form description")),
	mcp.WithString("role_content", mcp.Description("Role section content")),
	mcp.WithString("rule_content", mcp.Description("Rule section content")),
	mcp.WithString("task_content", mcp.Description("Task section content")),
	mcp.WithString("output_content", mcp.Description("Output-format section content")),
	mcp.WithArray("tags", mcp.Description("Tags for search and stats"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("files", mcp.Description("Attached files, objects with path and content"),
		mcp.Items(map[string]any{"type": "object"})),
)

var getToolDef = mcp.NewTool("record_get",
	mcp.WithDescription("Fetch one history record by ID, including its attached files."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record ID")),
)

var searchToolDef = mcp.NewTool("record_search",
	mcp.WithDescription("Search history records by keyword, tags, and date range. Default order is newest first."),
	mcp.WithString("keyword", mcp.Description("Case-insensitive match on title, description, and content")),
	mcp.WithArray("tags", mcp.Description("Match records carrying at least one of these tags"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("start", mcp.Description("Earliest timestamp, Unix milliseconds, inclusive")),
	mcp.WithNumber("end", mcp.Description("Latest timestamp, Unix milliseconds, inclusive")),
	mcp.WithString("sort_by", mcp.Description("timestamp (default) or title")),
	mcp.WithString("sort_order", mcp.Description("asc or desc (default)")),
	mcp.WithNumber("limit", mcp.Description("Max records to return, default 50")),
	mcp.WithNumber("offset", mcp.Description("Matching records to skip")),
)

var deleteToolDef = mcp.NewTool("record_delete",
	mcp.WithDescription("Delete a history record. Deleting an absent ID succeeds."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record ID")),
)

var statsToolDef = mcp.NewTool("record_stats",
	mcp.WithDescription("Summarize the history store: record count, total size, time span, and the ten most used tags."),
)

var profileListToolDef = mcp.NewTool("profile_list",
	mcp.WithDescription("List prompt profiles, optionally filtered by keyword or category."),
	mcp.WithString("keyword", mcp.Description("Case-insensitive match on name, description, or tags")),
	mcp.WithString("category", mcp.Description("Exact category match")),
)

var profileCurrentToolDef = mcp.NewTool("profile_current",
	mcp.WithDescription("Return the currently selected profile, falling back to the first built-in."),
)

var promptBuildToolDef = mcp.NewTool("prompt_build",
	mcp.WithDescription("Assemble the final prompt text from content sections and files, with a token estimate."),
	mcp.WithString("role_content", mcp.Description("Role section content")),
	mcp.WithString("rule_content", mcp.Description("Rule section content")),
	mcp.WithString("task_content", mcp.Description("Task section content")),
	mcp.WithString("output_content", mcp.Description("Output-format section content")),
	mcp.WithArray("files", mcp.Description("Attached files, objects with path and content"),
		mcp.Items(map[string]any{"type": "object"})),
)
