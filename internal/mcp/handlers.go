package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// DetailRequest represents the arguments for keyword_detail.
type DetailRequest struct {
	ID string `json:"id"`
}

// CreateRequest represents the arguments for keyword_create.
type CreateRequest struct {
	Query         string `json:"query"`
	Category      string `json:"category,omitempty"`
	TargetNames   string `json:"target_names,omitempty"`
	TargetDomains string `json:"target_domains,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// CrawlRequest represents the arguments for keyword_crawl.
type CrawlRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for keyword_export.
type ExportRequest struct {
	Dir string `json:"dir,omitempty"`
}

// Handler implementations

// HandleList handles the keyword_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListKeywords(ctx, h.env)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDetail handles the keyword_detail tool call.
func (h *Handlers) HandleDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DetailRequest](req)
	if err != nil {
		return errorResult(errors.NewValidationFailed(err.Error())), nil
	}

	result, err := ops.KeywordDetail(ctx, h.env, ops.KeywordDetailInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCreate handles the keyword_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewValidationFailed(err.Error())), nil
	}

	result, err := ops.CreateKeyword(ctx, h.env, ops.CreateKeywordInput{
		Query:         input.Query,
		Category:      input.Category,
		TargetNames:   input.TargetNames,
		TargetDomains: input.TargetDomains,
		Notes:         input.Notes,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleCrawl handles the keyword_crawl tool call.
func (h *Handlers) HandleCrawl(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CrawlRequest](req)
	if err != nil {
		return errorResult(errors.NewValidationFailed(err.Error())), nil
	}

	result, err := ops.TriggerCrawl(ctx, h.env, ops.TriggerCrawlInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the keyword_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewValidationFailed(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.env, ops.ExportInput{Dir: input.Dir})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStatus handles the session_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Status(h.env))
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rwErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    rwErr.Code,
			"message": rwErr.Message,
			"status":  rwErr.Status,
		}
		if rwErr.Code != errors.ErrInternal && rwErr.Details != nil {
			errorObj["details"] = rwErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
