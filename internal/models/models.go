// ABOUTME: Core data models for daily journal entries and moods.
// ABOUTME: Provides constructors, day-key helpers, and the adapter into the streak engine.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/daylock/internal/streak"
)

// DayLayout is the canonical on-disk and wire format for an entry's day.
const DayLayout = "2006-01-02"

// JournalEntry is the single entry for one calendar day.
type JournalEntry struct {
	ID        uuid.UUID
	Day       time.Time // midnight of the entry's day in the journal's location
	Body      string
	Mood      Mood
	Locked    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	LockedAt  *time.Time
	FilePath  string // set by file-backed stores
}

// NewJournalEntry creates a draft entry for the day containing day.
func NewJournalEntry(day time.Time, body string, mood Mood) *JournalEntry {
	now := time.Now()
	return &JournalEntry{
		ID:        uuid.New(),
		Day:       StartOfDay(day),
		Body:      body,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DayKey returns the YYYY-MM-DD key for the entry's day.
func (e *JournalEntry) DayKey() string {
	return DayKey(e.Day)
}

// Lock marks the entry as locked at the given time.
func (e *JournalEntry) Lock(at time.Time) {
	e.Locked = true
	e.LockedAt = &at
	e.UpdatedAt = at
}

// StartOfDay returns midnight of t's day in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats t's calendar day as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDayKey parses a YYYY-MM-DD key into midnight of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (want YYYY-MM-DD): %w", key, err)
	}
	return t, nil
}

// StreakEntries adapts journal entries for the streak engine.
func StreakEntries(entries []*JournalEntry) []streak.Entry {
	out := make([]streak.Entry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		out = append(out, streak.Entry{Date: e.Day, Locked: e.Locked})
	}
	return out
}

// Mood is the user's self-reported mood for a day. Zero means not set.
type Mood int

const (
	MoodUnset Mood = iota
	MoodAwful
	MoodBad
	MoodOkay
	MoodGood
	MoodGreat
)

// ValidMoods lists the settable mood names in ascending order.
var ValidMoods = []string{"awful", "bad", "okay", "good", "great"}

// String returns the mood name, or "" when unset.
func (m Mood) String() string {
	if m < MoodAwful || m > MoodGreat {
		return ""
	}
	return ValidMoods[m-1]
}

// Emoji returns a short glyph for the mood.
func (m Mood) Emoji() string {
	switch m {
	case MoodAwful:
		return "😫"
	case MoodBad:
		return "🙁"
	case MoodOkay:
		return "😐"
	case MoodGood:
		return "🙂"
	case MoodGreat:
		return "😄"
	}
	return "·"
}

// IsSet reports whether m is one of the valid moods.
func (m Mood) IsSet() bool {
	return m >= MoodAwful && m <= MoodGreat
}

// ParseMood converts a mood name (case-insensitive) or "" into a Mood.
func ParseMood(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MoodUnset, nil
	}
	for i, name := range ValidMoods {
		if name == s {
			return Mood(i + 1), nil
		}
	}
	return MoodUnset, fmt.Errorf("unknown mood %q (valid: %s)", s, strings.Join(ValidMoods, ", "))
}
