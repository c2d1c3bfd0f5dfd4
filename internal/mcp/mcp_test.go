package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/rankwatch/internal/api"
	"github.com/hpungsan/rankwatch/internal/cache"
	"github.com/hpungsan/rankwatch/internal/config"
	"github.com/hpungsan/rankwatch/internal/ops"
	"github.com/hpungsan/rankwatch/internal/session"
	"github.com/hpungsan/rankwatch/internal/store"
)

// testSetup builds an Env wired to a fake backend, hydrated in guest mode.
func testSetup(t *testing.T) *ops.Env {
	t.Helper()

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /guest/session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "g-mcp"})
	})
	mux.HandleFunc("GET /guest/keywords", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{"id": "gk-1", "query": "plumber near me", "status": "active"}})
	})
	mux.HandleFunc("GET /guest/keywords/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]string{"detail": "keyword not found"})
			return
		}
		writeJSON(w, map[string]any{
			"id": r.PathValue("id"), "query": "plumber near me", "status": "active",
			"target_names": []string{}, "target_domains": []string{}, "recent_runs": []any{},
		})
	})
	mux.HandleFunc("POST /keywords", func(w http.ResponseWriter, r *http.Request) {
		var payload api.CreateKeywordPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		writeJSON(w, map[string]any{
			"id": "k-new", "query": payload.Query, "status": "active",
			"target_names": payload.TargetNames, "target_domains": payload.TargetDomains,
			"recent_runs": []any{},
		})
	})
	mux.HandleFunc("POST /guest/keywords/{id}/crawl", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "run-1", "status": "queued"})
	})
	mux.HandleFunc("GET /guest/keywords/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="guest_keywords.csv"`)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte("id,query\ngk-1,plumber near me\n"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sess := session.New(store.NewMemory())
	client := api.New(srv.URL, 5*time.Second, sess)
	client.OnUnauthorized(func() { sess.SetToken("") })

	env := &ops.Env{
		Session: sess,
		Client:  client,
		Cache:   cache.New(),
		Config:  config.DefaultConfig(),
	}
	env.Config.ExportDir = t.TempDir()

	boot := session.NewBootstrapper(sess, client)
	boot.Run(context.Background())
	return env
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestHandleList(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleList: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "plumber near me") {
		t.Error("expected keyword in result")
	}
}

func TestHandleDetail(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleDetail(context.Background(), makeRequest(map[string]any{"id": "gk-1"}))
	if err != nil {
		t.Fatalf("HandleDetail: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var out struct {
		Detail struct {
			ID string `json:"id"`
		} `json:"detail"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if out.Detail.ID != "gk-1" {
		t.Errorf("keyword id = %q, want gk-1", out.Detail.ID)
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleDetail(context.Background(), makeRequest(map[string]any{"id": "missing"}))
	if err != nil {
		t.Fatalf("HandleDetail: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing keyword")
	}
	if !strings.Contains(resultText(t, result), "NOT_FOUND") {
		t.Errorf("expected NOT_FOUND code, got %s", resultText(t, result))
	}
}

func TestHandleCreate(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"query":        "emergency plumber",
		"target_names": "Pipe Pros, Drain Kings",
	}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "k-new") {
		t.Error("expected created keyword id in result")
	}
}

func TestHandleCreate_EmptyQuery(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{"query": "  "}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for blank query")
	}
	if !strings.Contains(resultText(t, result), "VALIDATION_FAILED") {
		t.Errorf("expected VALIDATION_FAILED code, got %s", resultText(t, result))
	}
}

func TestHandleCrawl(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleCrawl(context.Background(), makeRequest(map[string]any{"id": "gk-1"}))
	if err != nil {
		t.Fatalf("HandleCrawl: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "queued") {
		t.Error("expected run status in result")
	}
}

func TestHandleExport(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleExport(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleExport: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var out ops.ExportOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if filepath.Base(out.Path) != "guest_keywords.csv" {
		t.Errorf("export path = %q, want guest_keywords.csv basename", out.Path)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestHandleStatus(t *testing.T) {
	env := testSetup(t)
	h := NewHandlers(env)

	result, err := h.HandleStatus(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleStatus: %v", err)
	}

	var out ops.StatusOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if out.Mode != session.ModeGuest {
		t.Errorf("mode = %q, want guest", out.Mode)
	}
	if !out.Hydrated {
		t.Error("expected hydrated session")
	}
	if out.GuestID != "g-mcp" {
		t.Errorf("guest id = %q, want g-mcp", out.GuestID)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"keyword_list", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Fatalf("got %d names, want %d", len(names), len(toolRegistry))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"keyword_list", "keyword_detail", "keyword_create", "keyword_crawl", "keyword_export", "session_status"} {
		if !seen[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}
