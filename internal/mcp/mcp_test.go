package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/config"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/db"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/profile"
)

// testSetup creates a temporary database, config, and profile store.
func testSetup(t *testing.T) (*sql.DB, *config.Config, *profile.Manager) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database, config.DefaultConfig(), profile.NewManager(kvstore.NewMem())
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultPayload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("content is not TextContent")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result payload: %v", err)
	}
	return payload
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	payload := resultPayload(t, result)
	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatal("no error object in payload")
	}
	if code, _ := errorObj["code"].(string); code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

func TestHandleSaveAndGet(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)
	ctx := context.Background()

	result, err := h.HandleSave(ctx, makeRequest(map[string]any{
		"title":        "mcp session",
		"task_content": "write tests",
		"tags":         []any{"go", "mcp"},
		"files": []any{
			map[string]any{"path": "a.go", "content": "package a"},
		},
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("save failed: %+v", result)
	}

	payload := resultPayload(t, result)
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("save result missing id")
	}

	got, err := h.HandleGet(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got.IsError {
		t.Fatalf("get failed: %+v", got)
	}
	gotPayload := resultPayload(t, got)
	record, _ := gotPayload["record"].(map[string]any)
	if record["title"] != "mcp session" {
		t.Errorf("record title = %v, want mcp session", record["title"])
	}
}

func TestHandleSave_MissingTitle(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)

	result, err := h.HandleSave(context.Background(), makeRequest(map[string]any{
		"task_content": "no title",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleGet_NotFound(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)

	result, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"id": "ghost"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleSearch(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)
	ctx := context.Background()

	for _, title := range []string{"alpha session", "beta session"} {
		result, err := h.HandleSave(ctx, makeRequest(map[string]any{"title": title}))
		if err != nil || result.IsError {
			t.Fatalf("seeding save failed: %v %+v", err, result)
		}
	}

	result, err := h.HandleSearch(ctx, makeRequest(map[string]any{"keyword": "alpha"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("search failed: %+v", result)
	}
	payload := resultPayload(t, result)
	if count, _ := payload["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1", payload["count"])
	}
}

func TestHandleDeleteAndStats(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)
	ctx := context.Background()

	saved, err := h.HandleSave(ctx, makeRequest(map[string]any{"title": "x", "tags": []any{"go"}}))
	if err != nil || saved.IsError {
		t.Fatalf("save failed: %v %+v", err, saved)
	}
	id, _ := resultPayload(t, saved)["id"].(string)

	deleted, err := h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil || deleted.IsError {
		t.Fatalf("delete failed: %v %+v", err, deleted)
	}

	stats, err := h.HandleStats(ctx, makeRequest(nil))
	if err != nil || stats.IsError {
		t.Fatalf("stats failed: %v %+v", err, stats)
	}
	payload := resultPayload(t, stats)
	statsObj, _ := payload["stats"].(map[string]any)
	if total, _ := statsObj["totalRecords"].(float64); total != 0 {
		t.Errorf("totalRecords = %v, want 0", statsObj["totalRecords"])
	}
}

func TestHandleProfileTools(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)
	ctx := context.Background()

	list, err := h.HandleProfileList(ctx, makeRequest(map[string]any{"category": "review"}))
	if err != nil || list.IsError {
		t.Fatalf("profile_list failed: %v %+v", err, list)
	}
	payload := resultPayload(t, list)
	if count, _ := payload["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1 (code-review)", payload["count"])
	}

	current, err := h.HandleProfileCurrent(ctx, makeRequest(nil))
	if err != nil || current.IsError {
		t.Fatalf("profile_current failed: %v %+v", err, current)
	}
	currentPayload := resultPayload(t, current)
	profileObj, _ := currentPayload["profile"].(map[string]any)
	if profileObj["id"] == "" {
		t.Error("profile_current returned no profile")
	}
}

func TestHandlePromptBuild(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	h := NewHandlers(database, cfg, profiles)

	result, err := h.HandlePromptBuild(context.Background(), makeRequest(map[string]any{
		"role_content": "reviewer",
		"rule_content": "be kind",
		"task_content": "review",
		"files": []any{
			map[string]any{"path": "main.go", "content": "package main"},
		},
	}))
	if err != nil || result.IsError {
		t.Fatalf("prompt_build failed: %v %+v", err, result)
	}

	payload := resultPayload(t, result)
	text, _ := payload["prompt"].(string)
	if text == "" {
		t.Fatal("prompt_build returned empty prompt")
	}
	if valid, _ := payload["valid_structure"].(bool); !valid {
		t.Error("prompt with role, rule, and task should validate")
	}
	if tokens, _ := payload["token_count"].(float64); tokens <= 0 {
		t.Error("token_count should be positive")
	}
}

func TestNewServer_DisabledTools(t *testing.T) {
	database, cfg, profiles := testSetup(t)
	cfg.DisabledTools = []string{"record_delete"}

	s := NewServer(database, cfg, profiles, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	// Registration must not have panicked with a disabled tool; the
	// remaining names are still all known.
	if len(AllToolNames()) != 8 {
		t.Errorf("AllToolNames = %d entries, want 8", len(AllToolNames()))
	}
}
