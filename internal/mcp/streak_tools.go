// ABOUTME: MCP tool implementations for streaks, insights, and remote sync.
// ABOUTME: Registers get_streak, get_insights, and list_remote_entries tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/daylock/internal/journal"
	"github.com/2389-research/daylock/internal/models"
)

func (s *Server) registerStreakTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_streak",
		Description: "Get the current and longest journaling streak. A day counts only once its entry is locked.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"grace_period": {"type": "boolean", "description": "Allow one missed day per streak (default: configured setting)"},
				"lookback_days": {"type": "number", "description": "Only consider the last N days (default: configured setting, 0 = unlimited)"}
			}
		}`),
	}, s.handleGetStreak)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_insights",
		Description: "Summarize moods and writing habits over recent locked entries.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"days": {"type": "number", "description": "Window size in days, counting today (default: 30)"}
			}
		}`),
	}, s.handleGetInsights)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_remote_entries",
		Description: "List entries stored on the configured remote journal API.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of entries to retrieve (default 10)"}
			}
		}`),
	}, s.handleListRemoteEntries)
}

func (s *Server) handleGetStreak(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		GracePeriod  *bool `json:"grace_period"`
		LookbackDays *int  `json:"lookback_days"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	opts := s.journal.StreakOptions()
	if args.GracePeriod != nil {
		opts.AllowGracePeriod = *args.GracePeriod
	}
	if args.LookbackDays != nil {
		if *args.LookbackDays < 0 {
			return toolError("lookback_days must not be negative"), nil
		}
		opts.LookBack = time.Duration(*args.LookbackDays) * 24 * time.Hour
	}

	stats, err := s.journal.StatsWith(ctx, opts)
	if err != nil {
		return toolError("failed to compute streak: %v", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current streak: %s\n", pluralDays(stats.Current.Count))
	fmt.Fprintf(&sb, "Longest streak: %s\n", pluralDays(stats.Longest))
	fmt.Fprintf(&sb, "Locked entries: %d\n", stats.TotalLocked)
	if stats.TodayLocked {
		sb.WriteString("Today: locked\n")
	} else {
		sb.WriteString("Today: not locked yet\n")
	}
	if !opts.AllowGracePeriod {
		sb.WriteString("Grace period: off\n")
	} else {
		switch {
		case stats.Current.GracePeriodActiveNow:
			sb.WriteString("Grace period: in use for yesterday. Lock today's entry to keep the streak.\n")
		case stats.Current.GracePeriodConsumed:
			sb.WriteString("Grace period: used for an earlier missed day\n")
		default:
			sb.WriteString("Grace period: available\n")
		}
	}

	return toolText("%s", sb.String()), nil
}

func (s *Server) handleGetInsights(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Days int `json:"days"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	report, err := s.journal.Insights(ctx, args.Days)
	if err != nil {
		return toolError("failed to build insights: %v", err), nil
	}

	if report.EntriesWritten == 0 {
		return toolText("No locked entries in the last %s.", pluralDays(report.Days)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Last %s:\n", pluralDays(report.Days))
	fmt.Fprintf(&sb, "Entries: %d (%.0f%% of days)\n", report.EntriesWritten, report.CompletionRate*100)
	fmt.Fprintf(&sb, "Words: %d total, %.0f per entry\n", report.TotalWords, report.AverageWords)
	fmt.Fprintf(&sb, "Most active day: %s\n", report.BestWeekday)
	if report.TopMood.IsSet() {
		fmt.Fprintf(&sb, "Most common mood: %s %s (average %.1f/5)\n", report.TopMood.Emoji(), report.TopMood, report.AverageMood)
		for mood := models.MoodGreat; mood >= models.MoodAwful; mood-- {
			if n := report.MoodCounts[mood]; n > 0 {
				fmt.Fprintf(&sb, "  %s %-5s %d\n", mood.Emoji(), mood, n)
			}
		}
	}

	return toolText("%s", sb.String()), nil
}

func (s *Server) handleListRemoteEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if err := decodeArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}

	entries, err := s.journal.RemoteEntries(ctx, args.Limit)
	if errors.Is(err, journal.ErrSyncNotConfigured) {
		return toolError("remote sync is not configured; run 'daylock setup' first"), nil
	}
	if err != nil {
		return toolError("failed to list remote entries: %v", err), nil
	}

	if len(entries) == 0 {
		return toolText("No remote entries found."), nil
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(summaryLine(entry))
		sb.WriteString("\n")
	}
	return toolText("%s", sb.String()), nil
}
