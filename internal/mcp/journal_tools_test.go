// ABOUTME: Tests for journal MCP tool handlers.
// ABOUTME: Covers write_entry, lock_entry, read_entry, list_recent_entries.
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/afero"

	"github.com/2389-research/daylock/internal/journal"
	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestService(t *testing.T, opts ...journal.Option) (*journal.Service, *testClock) {
	t.Helper()
	clk := &testClock{t: time.Date(2024, time.June, 10, 20, 0, 0, 0, time.UTC)}
	store, err := storage.NewJournalMDStore(afero.NewMemMapFs(), "/journal", time.UTC)
	if err != nil {
		t.Fatalf("NewJournalMDStore error: %v", err)
	}
	base := []journal.Option{journal.WithClock(clk.Now), journal.WithLocation(time.UTC)}
	svc, err := journal.NewService(store, append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc, clk
}

func makeJournalServer(t *testing.T, opts ...journal.Option) (*Server, *testClock) {
	t.Helper()
	svc, clk := newTestService(t, opts...)
	server, err := NewServer(svc)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return server, clk
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *gomcp.CallToolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}

	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}

	handlers := map[string]func(context.Context, *gomcp.CallToolRequest) (*gomcp.CallToolResult, error){
		"write_entry":         s.handleWriteEntry,
		"lock_entry":          s.handleLockEntry,
		"read_entry":          s.handleReadEntry,
		"list_recent_entries": s.handleListRecentEntries,
		"get_streak":          s.handleGetStreak,
		"get_insights":        s.handleGetInsights,
		"list_remote_entries": s.handleListRemoteEntries,
	}
	handler, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func mustSucceed(t *testing.T, result *gomcp.CallToolResult) string {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %s", getTextContent(result))
	}
	return getTextContent(result)
}

func TestWriteEntry(t *testing.T) {
	s, _ := makeJournalServer(t)

	text := mustSucceed(t, callTool(t, s, "write_entry", map[string]string{
		"body": "Fixed the flaky test at last",
		"mood": "good",
	}))

	if !strings.Contains(text, "2024-06-10") {
		t.Errorf("expected day in response, got: %s", text)
	}
	if !strings.Contains(text, "6 words") {
		t.Errorf("expected word count in response, got: %s", text)
	}
}

func TestWriteEntryValidation(t *testing.T) {
	s, _ := makeJournalServer(t)

	tests := []struct {
		name string
		args map[string]string
		want string
	}{
		{"empty body", map[string]string{"body": "  "}, "body is required"},
		{"bad mood", map[string]string{"body": "x", "mood": "ecstatic"}, "unknown mood"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, "write_entry", tt.args)
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if text := getTextContent(result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in error, got: %s", tt.want, text)
			}
		})
	}
}

func TestLockEntryFlow(t *testing.T) {
	s, _ := makeJournalServer(t)

	result := callTool(t, s, "lock_entry", map[string]string{})
	if !result.IsError || !strings.Contains(getTextContent(result), "write_entry first") {
		t.Fatalf("expected no-entry error, got: %s", getTextContent(result))
	}

	mustSucceed(t, callTool(t, s, "write_entry", map[string]string{"body": "done"}))

	text := mustSucceed(t, callTool(t, s, "lock_entry", map[string]string{}))
	if !strings.Contains(text, "Locked entry for 2024-06-10") {
		t.Errorf("unexpected lock response: %s", text)
	}
	if !strings.Contains(text, "Current streak: 1 day") {
		t.Errorf("expected streak in lock response, got: %s", text)
	}

	again := callTool(t, s, "lock_entry", map[string]string{})
	if !again.IsError || !strings.Contains(getTextContent(again), "already locked") {
		t.Errorf("expected already-locked error, got: %s", getTextContent(again))
	}

	edit := callTool(t, s, "write_entry", map[string]string{"body": "sneaky edit"})
	if !edit.IsError || !strings.Contains(getTextContent(edit), "can no longer be edited") {
		t.Errorf("expected locked error on edit, got: %s", getTextContent(edit))
	}
}

func TestReadEntry(t *testing.T) {
	s, clk := makeJournalServer(t)

	mustSucceed(t, callTool(t, s, "write_entry", map[string]string{"body": "Test entry for reading", "mood": "great"}))

	text := mustSucceed(t, callTool(t, s, "read_entry", map[string]string{}))
	if !strings.Contains(text, "Test entry for reading") {
		t.Errorf("expected entry content, got: %s", text)
	}
	if !strings.Contains(text, "Status: draft") {
		t.Errorf("expected draft status, got: %s", text)
	}

	clk.t = clk.t.AddDate(0, 0, 1)
	byDate := mustSucceed(t, callTool(t, s, "read_entry", map[string]string{"date": "2024-06-10"}))
	if !strings.Contains(byDate, "Mood: ") || !strings.Contains(byDate, "great") {
		t.Errorf("expected mood in entry, got: %s", byDate)
	}

	missing := mustSucceed(t, callTool(t, s, "read_entry", map[string]string{"date": "2024-01-01"}))
	if !strings.Contains(missing, "No entry for 2024-01-01") {
		t.Errorf("expected missing-entry message, got: %s", missing)
	}
}

func TestReadEntryInvalidDate(t *testing.T) {
	s, _ := makeJournalServer(t)

	result := callTool(t, s, "read_entry", map[string]string{"date": "June 10th"})
	if !result.IsError {
		t.Error("expected error for malformed date")
	}
}

func TestListRecentEntries(t *testing.T) {
	s, clk := makeJournalServer(t)
	start := clk.t

	for i, body := range []string{"first day", "second day", "third day"} {
		clk.t = start.AddDate(0, 0, i-2)
		mustSucceed(t, callTool(t, s, "write_entry", map[string]string{"body": body}))
		if i < 2 {
			mustSucceed(t, callTool(t, s, "lock_entry", map[string]string{}))
		}
	}
	clk.t = start

	text := mustSucceed(t, callTool(t, s, "list_recent_entries", map[string]interface{}{}))
	if strings.Count(text, "\n") != 3 {
		t.Errorf("expected 3 entries, got:\n%s", text)
	}
	if strings.Index(text, "third day") > strings.Index(text, "first day") {
		t.Errorf("expected most recent first, got:\n%s", text)
	}

	locked := mustSucceed(t, callTool(t, s, "list_recent_entries", map[string]interface{}{"locked_only": true, "limit": 1}))
	if !strings.Contains(locked, "second day") || strings.Contains(locked, "first day") {
		t.Errorf("expected only the newest locked entry, got:\n%s", locked)
	}
}

func TestListRecentEntriesEmpty(t *testing.T) {
	s, _ := makeJournalServer(t)

	text := mustSucceed(t, callTool(t, s, "list_recent_entries", map[string]interface{}{"days": 7}))
	if !strings.Contains(text, "No recent entries") {
		t.Errorf("expected empty message, got: %s", text)
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short\n text", 20); got != "short text" {
		t.Errorf("preview collapsed whitespace = %q", got)
	}
	if got := preview("ééééé", 3); got != "éé…" {
		t.Errorf("preview truncation = %q", got)
	}
}

func TestFormatEntryStatus(t *testing.T) {
	day := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	draft := models.NewJournalEntry(day, "draft body", models.MoodUnset)
	if text := formatEntry(draft); !strings.Contains(text, "Status: draft") {
		t.Errorf("expected draft status, got: %s", text)
	}

	locked := models.NewJournalEntry(day, "locked body", models.MoodUnset)
	locked.Lock(day.Add(21 * time.Hour))
	text := formatEntry(locked)
	if !strings.Contains(text, "Status: locked") || !strings.Contains(text, "Locked: 2024-06-10 21:00") {
		t.Errorf("expected locked status with time, got: %s", text)
	}

	// Remote entries may arrive without a lock time.
	remote := &models.JournalEntry{Day: day, Body: "remote body", Locked: true}
	text = formatEntry(remote)
	if !strings.Contains(text, "Status: locked") {
		t.Errorf("expected locked status, got: %s", text)
	}
	if strings.Contains(text, "draft") || strings.Contains(text, "Locked: ") {
		t.Errorf("expected no draft status or lock time, got: %s", text)
	}
}
