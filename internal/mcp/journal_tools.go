// ABOUTME: MCP tool implementations for daily journal operations.
// ABOUTME: Registers write_entry, lock_entry, read_entry, list_recent_entries.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/2389-research/daylock/internal/insights"
	"github.com/2389-research/daylock/internal/journal"
	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/storage"
)

func (s *Server) registerJournalTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "write_entry",
		Description: "Write or replace today's journal entry. Only one entry exists per day and it can be edited until it is locked.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"body": {"type": "string", "description": "The full text of today's entry.", "minLength": 1},
				"mood": {"type": "string", "enum": ["awful", "bad", "okay", "good", "great"], "description": "Optional mood for the day. Omit to keep the current mood."}
			},
			"required": ["body"]
		}`),
	}, s.handleWriteEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "lock_entry",
		Description: "Lock today's entry. Locking is permanent and is what counts the day toward the streak.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {}
		}`),
	}, s.handleLockEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_entry",
		Description: "Read the journal entry for a given day.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"date": {"type": "string", "description": "Day to read as YYYY-MM-DD (default: today)"}
			}
		}`),
	}, s.handleReadEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_recent_entries",
		Description: "Get recent journal entries, most recent first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"days": {"type": "number", "description": "Number of days back to include, counting today (default: 30)"},
				"limit": {"type": "number", "description": "Maximum number of entries to return (default: 10)"},
				"locked_only": {"type": "boolean", "description": "Skip unlocked drafts (default: false)"}
			}
		}`),
	}, s.handleListRecentEntries)
}

func (s *Server) handleWriteEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Body string `json:"body"`
		Mood string `json:"mood"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	mood, err := models.ParseMood(args.Mood)
	if err != nil {
		return toolError("%v", err), nil
	}

	entry, err := s.journal.Write(ctx, args.Body, mood)
	switch {
	case errors.Is(err, journal.ErrEmptyBody):
		return toolError("body is required"), nil
	case errors.Is(err, journal.ErrEntryLocked):
		return toolError("today's entry (%s) is already locked and can no longer be edited", models.DayKey(s.journal.Now())), nil
	case err != nil:
		s.logger.Error("write_entry failed", zap.Error(err))
		return toolError("failed to write entry: %v", err), nil
	}

	return toolText("Draft saved for %s (%d words). Use lock_entry when it is finished.", entry.DayKey(), insights.CountWords(entry.Body)), nil
}

func (s *Server) handleLockEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	result, err := s.journal.Lock(ctx)
	switch {
	case errors.Is(err, journal.ErrNoEntryToday):
		return toolError("there is no entry for today yet; use write_entry first"), nil
	case errors.Is(err, journal.ErrAlreadyLocked):
		return toolError("today's entry is already locked"), nil
	case err != nil:
		s.logger.Error("lock_entry failed", zap.Error(err))
		return toolError("failed to lock entry: %v", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Locked entry for %s.", result.Entry.DayKey())
	if result.SyncErr != nil {
		fmt.Fprintf(&sb, "\nWarning: remote sync failed: %v", result.SyncErr)
	} else if result.Synced {
		sb.WriteString("\nSynced to remote.")
	}

	if stats, err := s.journal.Stats(ctx); err == nil {
		fmt.Fprintf(&sb, "\nCurrent streak: %s", pluralDays(stats.Current.Count))
	}

	return toolText("%s", sb.String()), nil
}

func (s *Server) handleReadEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Date string `json:"date"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	day := s.journal.Now()
	if strings.TrimSpace(args.Date) != "" {
		parsed, err := models.ParseDayKey(args.Date, s.journal.Location())
		if err != nil {
			return toolError("%v", err), nil
		}
		day = parsed
	}

	entry, err := s.journal.Get(ctx, day)
	if errors.Is(err, storage.ErrEntryNotFound) {
		return toolText("No entry for %s.", models.DayKey(day)), nil
	}
	if err != nil {
		return toolError("failed to read entry: %v", err), nil
	}

	return toolText("%s", formatEntry(entry)), nil
}

func (s *Server) handleListRecentEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Days       int  `json:"days"`
		Limit      int  `json:"limit"`
		LockedOnly bool `json:"locked_only"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Days <= 0 {
		args.Days = 30
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}

	entries, err := s.journal.List(ctx, storage.ListOptions{
		Days:       args.Days,
		Limit:      args.Limit,
		LockedOnly: args.LockedOnly,
	})
	if err != nil {
		return toolError("failed to list entries: %v", err), nil
	}

	if len(entries) == 0 {
		return toolText("No recent entries found."), nil
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(summaryLine(entry))
		sb.WriteString("\n")
	}
	return toolText("%s", sb.String()), nil
}

// formatEntry renders a full entry with a small header.
func formatEntry(entry *models.JournalEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Date: %s\n", entry.DayKey())
	if entry.Mood.IsSet() {
		fmt.Fprintf(&sb, "Mood: %s %s\n", entry.Mood.Emoji(), entry.Mood)
	}
	switch {
	case !entry.Locked:
		sb.WriteString("Status: draft\n")
	case entry.LockedAt != nil:
		fmt.Fprintf(&sb, "Status: locked\nLocked: %s\n", entry.LockedAt.Format("2006-01-02 15:04"))
	default:
		sb.WriteString("Status: locked\n")
	}
	fmt.Fprintf(&sb, "\n%s\n", entry.Body)
	return sb.String()
}

// summaryLine renders one entry as a list item with a short preview.
func summaryLine(entry *models.JournalEntry) string {
	status := "draft"
	if entry.Locked {
		status = "locked"
	}
	return fmt.Sprintf("- %s [%s] %s %s", entry.DayKey(), status, entry.Mood.Emoji(), preview(entry.Body, 60))
}

func preview(body string, limit int) string {
	line := strings.Join(strings.Fields(body), " ")
	runes := []rune(line)
	if len(runes) <= limit {
		return line
	}
	return string(runes[:limit-1]) + "…"
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
