package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listToolDef = mcp.NewTool("keyword_list",
	mcp.WithDescription("List monitored keywords for the current session. Guest sessions see their own keyword bucket."),
)

var detailToolDef = mcp.NewTool("keyword_detail",
	mcp.WithDescription("Fetch one keyword with its recent crawl runs, SERP results, and HTTPS checks."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Keyword ID"),
	),
)

var createToolDef = mcp.NewTool("keyword_create",
	mcp.WithDescription("Register a new keyword to monitor. Guest sessions are limited to 10 keywords."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search query to monitor"),
	),
	mcp.WithString("category",
		mcp.Description("Optional category label"),
	),
	mcp.WithString("target_names",
		mcp.Description("Comma-separated business names to match in results"),
	),
	mcp.WithString("target_domains",
		mcp.Description("Comma-separated domains to match in results"),
	),
	mcp.WithString("notes",
		mcp.Description("Free-form notes, markdown supported"),
	),
)

var crawlToolDef = mcp.NewTool("keyword_crawl",
	mcp.WithDescription("Trigger an immediate crawl for a keyword."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Keyword ID"),
	),
)

var exportToolDef = mcp.NewTool("keyword_export",
	mcp.WithDescription("Download the keyword CSV export and write it to the export directory."),
	mcp.WithString("dir",
		mcp.Description("Directory to write the CSV into (defaults to the configured export directory)"),
	),
)

var statusToolDef = mcp.NewTool("session_status",
	mcp.WithDescription("Report the current session: mode, user, guest ID, and hydration state."),
)
