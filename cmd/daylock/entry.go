// ABOUTME: CLI commands for the daily entry lifecycle.
// ABOUTME: Provides write, lock, today, list, read, and search subcommands.
package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"github.com/2389-research/daylock/internal/insights"
	"github.com/2389-research/daylock/internal/journal"
	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/storage"
)

var writeCmd = &cobra.Command{
	Use:   "write <text>",
	Short: "Write today's entry",
	Long:  "Create today's entry, or replace its text while it is still a draft.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWrite,
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock today's entry",
	Long:  "Lock today's entry. Locked entries cannot be edited and count toward your streak.",
	Args:  cobra.NoArgs,
	RunE:  runLock,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's entry",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent entries",
	Long:  "List journal entries, most recent day first.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var readCmd = &cobra.Command{
	Use:   "read <YYYY-MM-DD>",
	Short: "Read the entry for a day",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entries",
	Long:  "Search all local entries by case-insensitive substring matching.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

// Flags
var (
	writeMood      string
	listLimit      int
	listDays       int
	listLockedOnly bool
	listRemote     bool
	searchLimit    int
)

func init() {
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(searchCmd)

	writeCmd.Flags().StringVarP(&writeMood, "mood", "m", "", "Mood for the day: "+strings.Join(models.ValidMoods, ", "))

	listCmd.Flags().IntVar(&listLimit, "limit", 10, "Maximum number of entries to show")
	listCmd.Flags().IntVar(&listDays, "days", 30, "Number of days back to list (0 for all)")
	listCmd.Flags().BoolVar(&listLockedOnly, "locked", false, "Only show locked entries")
	listCmd.Flags().BoolVar(&listRemote, "remote", false, "List entries from the remote sync API instead")

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
}

func runWrite(cmd *cobra.Command, args []string) error {
	mood, err := models.ParseMood(writeMood)
	if err != nil {
		return err
	}

	entry, err := globalService.Write(cmd.Context(), strings.Join(args, " "), mood)
	switch {
	case errors.Is(err, journal.ErrEntryLocked):
		return fmt.Errorf("today's entry is already locked; it can no longer be edited")
	case err != nil:
		return fmt.Errorf("failed to write entry: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Saved draft for %s (%d words)\n", entry.DayKey(), insights.CountWords(entry.Body))
	if entry.Mood.IsSet() {
		_, _ = fmt.Fprintf(out, "Mood: %s %s\n", entry.Mood.Emoji(), entry.Mood)
	}
	_, _ = fmt.Fprintln(out, "Run 'daylock lock' when you are done for the day.")
	return nil
}

func runLock(cmd *cobra.Command, args []string) error {
	result, err := globalService.Lock(cmd.Context())
	switch {
	case errors.Is(err, journal.ErrNoEntryToday):
		return fmt.Errorf("nothing to lock: write today's entry first")
	case errors.Is(err, journal.ErrAlreadyLocked):
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Today's entry is already locked.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to lock entry: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Locked entry for %s\n", result.Entry.DayKey())
	if result.Synced {
		_, _ = fmt.Fprintln(out, "Synced to remote.")
	}
	if result.SyncErr != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: remote sync failed: %v\n", result.SyncErr)
	}

	stats, err := globalService.Stats(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Current streak: %d %s\n", stats.Current.Count, dayWord(stats.Current.Count))
	return nil
}

func runToday(cmd *cobra.Command, args []string) error {
	entry, err := globalService.Today(cmd.Context())
	if errors.Is(err, journal.ErrNoEntryToday) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No entry for today yet. Start one with 'daylock write'.")
		return nil
	}
	if err != nil {
		return err
	}
	printEntry(cmd.OutOrStdout(), entry)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	var (
		entries []*models.JournalEntry
		err     error
	)
	if listRemote {
		entries, err = globalService.RemoteEntries(cmd.Context(), listLimit)
		if errors.Is(err, journal.ErrSyncNotConfigured) {
			return fmt.Errorf("remote sync is not configured; run 'daylock setup' first")
		}
	} else {
		entries, err = globalService.List(cmd.Context(), storage.ListOptions{
			Limit:      listLimit,
			Days:       listDays,
			LockedOnly: listLockedOnly,
		})
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No entries found.")
		return nil
	}
	for _, entry := range entries {
		_, _ = fmt.Fprintln(out, entryLine(entry))
	}
	return nil
}

func runRead(cmd *cobra.Command, args []string) error {
	day, err := models.ParseDayKey(args[0], globalService.Location())
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
	}

	entry, err := globalService.Get(cmd.Context(), day)
	if errors.Is(err, storage.ErrEntryNotFound) {
		return fmt.Errorf("no entry for %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}
	printEntry(cmd.OutOrStdout(), entry)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	entries, err := globalService.List(cmd.Context(), storage.ListOptions{})
	if err != nil {
		return err
	}

	matches := searchEntries(entries, args[0], searchLimit)
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(out, "No matching entries found.")
		return nil
	}
	for _, entry := range matches {
		_, _ = fmt.Fprintln(out, entryLine(entry))
	}
	return nil
}

// searchEntries returns up to limit entries whose body contains query, ignoring case.
// A limit of zero or less means no limit.
func searchEntries(entries []*models.JournalEntry, query string, limit int) []*models.JournalEntry {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	var matches []*models.JournalEntry
	for _, entry := range entries {
		if limit > 0 && len(matches) >= limit {
			break
		}
		if strings.Contains(fold.String(entry.Body), needle) {
			matches = append(matches, entry)
		}
	}
	return matches
}

func printEntry(w io.Writer, entry *models.JournalEntry) {
	_, _ = fmt.Fprintf(w, "Date: %s\n", entry.DayKey())
	if entry.Mood.IsSet() {
		_, _ = fmt.Fprintf(w, "Mood: %s %s\n", entry.Mood.Emoji(), entry.Mood)
	}
	switch {
	case !entry.Locked:
		_, _ = fmt.Fprintln(w, "Status: draft")
	case entry.LockedAt != nil:
		_, _ = fmt.Fprintf(w, "Status: locked\nLocked: %s\n", entry.LockedAt.Format("2006-01-02 15:04"))
	default:
		_, _ = fmt.Fprintln(w, "Status: locked")
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", entry.Body)
}

func entryLine(entry *models.JournalEntry) string {
	status := "draft "
	if entry.Locked {
		status = "locked"
	}
	mood := "  "
	if entry.Mood.IsSet() {
		mood = entry.Mood.Emoji()
	}
	return fmt.Sprintf("%s [%s] %s %s", entry.DayKey(), status, mood, truncate(strings.Join(strings.Fields(entry.Body), " "), 60))
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func dayWord(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
