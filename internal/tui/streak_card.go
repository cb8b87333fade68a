// ABOUTME: Static lipgloss card summarizing streak statistics for the terminal.
// ABOUTME: Shows current and longest streak, today's lock state, and grace period status.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/daylock/internal/journal"
	"github.com/2389-research/daylock/internal/streak"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 2)
	bigNumberStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// RenderStreakCard renders stats as a bordered card.
func RenderStreakCard(stats journal.Stats, opts streak.Options) string {
	var lines []string

	lines = append(lines,
		bigNumberStyle.Render(fmt.Sprintf("🔥 %d", stats.Current.Count))+" "+labelStyle.Render(dayWord(stats.Current.Count)+" current streak"),
		labelStyle.Render(fmt.Sprintf("Longest: %d %s", stats.Longest, dayWord(stats.Longest))),
		labelStyle.Render(fmt.Sprintf("Locked entries: %d", stats.TotalLocked)),
		"",
	)

	if stats.TodayLocked {
		lines = append(lines, successStyle.Render("✓ Today is locked"))
	} else {
		lines = append(lines, warnStyle.Render("○ Today is not locked yet"))
	}

	lines = append(lines, graceLine(stats.Current, opts))

	if opts.LookBack > 0 {
		days := int(opts.LookBack.Hours() / 24)
		lines = append(lines, labelStyle.Render(fmt.Sprintf("Counting the last %d %s", days, dayWord(days))))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

func graceLine(current streak.Result, opts streak.Options) string {
	switch {
	case !opts.AllowGracePeriod:
		return labelStyle.Render("Grace period: off")
	case current.GracePeriodActiveNow:
		return warnStyle.Render("⚠ Grace day in use: lock today to keep your streak")
	case current.GracePeriodConsumed:
		return labelStyle.Render("Grace period: used")
	default:
		return labelStyle.Render("Grace period: available")
	}
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
