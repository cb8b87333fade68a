// ABOUTME: CLI commands for streak statistics and mood insights.
// ABOUTME: Renders the streak card and the insights report with per-run overrides.
package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/daylock/internal/insights"
	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/streak"
	"github.com/2389-research/daylock/internal/tui"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show your current and longest streak",
	Long: `Show the current and longest streak of locked entries.

--grace and --no-grace override the configured grace period for this run only.`,
	Args: cobra.NoArgs,
	RunE: runStreak,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show mood and writing insights",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

// Flags
var (
	streakGrace    bool
	streakNoGrace  bool
	streakLookback int
	insightsDays   int
)

func init() {
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(insightsCmd)

	streakCmd.Flags().BoolVar(&streakGrace, "grace", false, "Allow one missed day per streak")
	streakCmd.Flags().BoolVar(&streakNoGrace, "no-grace", false, "Do not allow missed days")
	streakCmd.Flags().IntVar(&streakLookback, "lookback-days", 0, "Only count the last N days (0 for unlimited)")
	streakCmd.MarkFlagsMutuallyExclusive("grace", "no-grace")

	insightsCmd.Flags().IntVar(&insightsDays, "days", insights.DefaultDays, "Number of days to summarize")
}

// streakOverrides applies the flags that were set on the command line to the configured options.
func streakOverrides(cmd *cobra.Command, base streak.Options) (streak.Options, error) {
	opts := base
	flags := cmd.Flags()
	if flags.Changed("grace") {
		opts.AllowGracePeriod = streakGrace
	}
	if flags.Changed("no-grace") {
		opts.AllowGracePeriod = !streakNoGrace
	}
	if flags.Changed("lookback-days") {
		if streakLookback < 0 {
			return opts, fmt.Errorf("--lookback-days must not be negative, got %d", streakLookback)
		}
		opts.LookBack = time.Duration(streakLookback) * 24 * time.Hour
	}
	return opts, nil
}

func runStreak(cmd *cobra.Command, args []string) error {
	opts, err := streakOverrides(cmd, globalService.StreakOptions())
	if err != nil {
		return err
	}

	stats, err := globalService.StatsWith(cmd.Context(), opts)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStreakCard(stats, opts))
	return nil
}

func runInsights(cmd *cobra.Command, args []string) error {
	if insightsDays <= 0 {
		return fmt.Errorf("--days must be positive, got %d", insightsDays)
	}

	report, err := globalService.Insights(cmd.Context(), insightsDays)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report insights.Report) {
	_, _ = fmt.Fprintf(w, "Last %d %s\n", report.Days, dayWord(report.Days))
	if report.EntriesWritten == 0 {
		_, _ = fmt.Fprintln(w, "No locked entries in this window.")
		return
	}

	_, _ = fmt.Fprintf(w, "Entries: %d (%.0f%% of days)\n", report.EntriesWritten, report.CompletionRate*100)
	_, _ = fmt.Fprintf(w, "Words: %d total, %.0f per entry\n", report.TotalWords, report.AverageWords)
	_, _ = fmt.Fprintf(w, "Most active day: %s\n", report.BestWeekday)

	if !report.TopMood.IsSet() {
		return
	}
	_, _ = fmt.Fprintf(w, "Most common mood: %s %s (average %.1f/5)\n", report.TopMood.Emoji(), report.TopMood, report.AverageMood)
	for mood := models.MoodGreat; mood >= models.MoodAwful; mood-- {
		if n := report.MoodCounts[mood]; n > 0 {
			_, _ = fmt.Fprintf(w, "  %s %-5s %d\n", mood.Emoji(), mood, n)
		}
	}
}
