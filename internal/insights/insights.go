// ABOUTME: Mood and writing insights over a window of recent locked journal entries.
// ABOUTME: Counts words after NFKC normalization and summarizes moods and weekday habits.
package insights

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/2389-research/daylock/internal/models"
)

// DefaultDays is the window used when callers ask for zero or fewer days.
const DefaultDays = 30

// Report summarizes locked entries within a window of days ending today.
type Report struct {
	Days           int                 `json:"days"`
	EntriesWritten int                 `json:"entries_written"`
	CompletionRate float64             `json:"completion_rate"`
	TotalWords     int                 `json:"total_words"`
	AverageWords   float64             `json:"average_words"`
	MoodCounts     map[models.Mood]int `json:"-"`
	AverageMood    float64             `json:"average_mood"`
	TopMood        models.Mood         `json:"-"`
	// BestWeekday is only meaningful when EntriesWritten > 0.
	BestWeekday time.Weekday `json:"-"`
}

// Build computes a report over the days-long window ending on now's day in loc.
// Drafts, entries outside the window and repeated days are ignored.
func Build(entries []*models.JournalEntry, now time.Time, days int, loc *time.Location) Report {
	if days <= 0 {
		days = DefaultDays
	}
	if loc == nil {
		loc = time.Local
	}

	today := models.StartOfDay(now.In(loc))
	first := today.AddDate(0, 0, -(days - 1))

	report := Report{
		Days:       days,
		MoodCounts: make(map[models.Mood]int),
	}

	var weekdays [7]int
	moodSum, moodN := 0, 0
	seen := make(map[string]struct{})

	for _, e := range entries {
		if e == nil || !e.Locked {
			continue
		}
		day := models.StartOfDay(e.Day.In(loc))
		if day.Before(first) || day.After(today) {
			continue
		}
		key := models.DayKey(day)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		report.EntriesWritten++
		report.TotalWords += CountWords(e.Body)
		weekdays[day.Weekday()]++

		if e.Mood.IsSet() {
			report.MoodCounts[e.Mood]++
			moodSum += int(e.Mood)
			moodN++
		}
	}

	report.CompletionRate = float64(report.EntriesWritten) / float64(days)
	if report.EntriesWritten > 0 {
		report.AverageWords = float64(report.TotalWords) / float64(report.EntriesWritten)
	}
	if moodN > 0 {
		report.AverageMood = float64(moodSum) / float64(moodN)
	}

	// Ties go to the better mood.
	for mood := models.MoodGreat; mood >= models.MoodAwful; mood-- {
		if report.MoodCounts[mood] > report.MoodCounts[report.TopMood] {
			report.TopMood = mood
		}
	}

	// Ties go to the earlier weekday, Sunday first.
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if weekdays[wd] > weekdays[report.BestWeekday] {
			report.BestWeekday = wd
		}
	}

	return report
}

// CountWords counts whitespace-separated tokens that contain at least one letter or digit.
// Text is NFKC-normalized first so full-width forms and compatibility spaces split like ASCII.
func CountWords(text string) int {
	count := 0
	for _, field := range strings.Fields(norm.NFKC.String(text)) {
		if strings.IndexFunc(field, isWordRune) >= 0 {
			count++
		}
	}
	return count
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
