package mcp

import "github.com/mark3labs/mcp-go/mcp"

var stringItems = map[string]any{"type": "string"}

var captureToolDef = mcp.NewTool("source_capture",
	mcp.WithDescription("Capture a web page as a source record: extracts metadata (title, authors, dates, AI-conversation context) from the page HTML and stores it. Rejects non-http(s) URLs and URLs already captured."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL at capture time")),
	mcp.WithString("html", mcp.Description("Full page HTML; extraction degrades gracefully when omitted")),
	mcp.WithString("session_id", mcp.Description("Owning research session")),
	mcp.WithString("predecessor_id", mcp.Description("ID of the source this capture was derived from")),
	mcp.WithString("selection", mcp.Description("User-selected text on the page")),
	mcp.WithString("tab_title", mcp.Description("Raw browser tab title")),
	mcp.WithString("method", mcp.Description("Capture method: manual, automatic, or recorded (default manual)")),
	mcp.WithArray("tags", mcp.Description("Initial tags"), mcp.Items(stringItems)),
	mcp.WithString("notes", mcp.Description("Initial notes (markdown)")),
)

var citeToolDef = mcp.NewTool("source_cite",
	mcp.WithDescription("Render bibliography entries and in-text citations for sources, selected by ids or by session. Falls back to approximate template citations when the style definition cannot be fetched."),
	mcp.WithArray("ids", mcp.Description("Source ids to cite"), mcp.Items(stringItems)),
	mcp.WithString("session_id", mcp.Description("Cite every active source in this session (ignored when ids are given)")),
	mcp.WithString("style", mcp.Description("Citation style: apa, mla, chicago, ieee, or harvard (default from config)")),
)

var fetchToolDef = mcp.NewTool("source_fetch",
	mcp.WithDescription("Fetch one source record by id, including metadata, AI context, and provenance."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Source id (ULID)")),
	mcp.WithBoolean("include_deleted", mcp.Description("Also match soft-deleted sources")),
)

var listToolDef = mcp.NewTool("source_list",
	mcp.WithDescription("List source summaries, most recently updated first."),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted sources")),
)

var trailToolDef = mcp.NewTool("source_trail",
	mcp.WithDescription("Return a session's origin trail: every capture in chronological order, including soft-deleted ones, with predecessor links."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Research session id")),
)

var updateToolDef = mcp.NewTool("source_update",
	mcp.WithDescription("Edit the user-owned fields of a source (notes, excerpt, tags, group memberships). Bibliographic metadata is immutable."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Source id")),
	mcp.WithString("notes", mcp.Description("Replacement notes; empty string clears")),
	mcp.WithString("excerpt", mcp.Description("Replacement excerpt; empty string clears")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list"), mcp.Items(stringItems)),
	mcp.WithArray("group_ids", mcp.Description("Replacement group membership list"), mcp.Items(stringItems)),
)

var deleteToolDef = mcp.NewTool("source_delete",
	mcp.WithDescription("Soft-delete a source. The record keeps its provenance and capture time for the origin trail; group memberships are cleared."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Source id")),
)

var purgeToolDef = mcp.NewTool("source_purge",
	mcp.WithDescription("Permanently remove soft-deleted sources older than the retention window."),
	mcp.WithNumber("older_than_days", mcp.Description("Retention window in days (default 30)")),
)
