// ABOUTME: Tests for journal entry models, mood parsing, and day-key helpers.
// ABOUTME: Covers the adapter that feeds entries into the streak engine.
package models

import (
	"testing"
	"time"
)

func TestParseMood(t *testing.T) {
	tests := []struct {
		input   string
		want    Mood
		wantErr bool
	}{
		{"", MoodUnset, false},
		{"awful", MoodAwful, false},
		{"Great", MoodGreat, false},
		{"  okay ", MoodOkay, false},
		{"ecstatic", MoodUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMood(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMood(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMood(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoodString(t *testing.T) {
	if MoodGood.String() != "good" {
		t.Errorf("MoodGood.String() = %q", MoodGood.String())
	}
	if MoodUnset.String() != "" {
		t.Errorf("MoodUnset.String() = %q, want empty", MoodUnset.String())
	}
	if Mood(42).IsSet() {
		t.Error("out-of-range mood should not be set")
	}
}

func TestDayKeyRoundtrip(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	day, err := ParseDayKey("2024-02-29", loc)
	if err != nil {
		t.Fatalf("ParseDayKey error: %v", err)
	}
	if got := DayKey(day); got != "2024-02-29" {
		t.Errorf("DayKey = %q, want 2024-02-29", got)
	}
	if day.Hour() != 0 || day.Location() != loc {
		t.Errorf("expected midnight in loc, got %v", day)
	}

	if _, err := ParseDayKey("29/02/2024", loc); err == nil {
		t.Error("expected error for malformed day key")
	}
}

func TestNewJournalEntryNormalizesDay(t *testing.T) {
	at := time.Date(2024, time.May, 3, 17, 45, 0, 0, time.UTC)
	entry := NewJournalEntry(at, "hello", MoodGood)

	if entry.Day != time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC) {
		t.Errorf("expected day normalized to midnight, got %v", entry.Day)
	}
	if entry.Locked {
		t.Error("new entries should start as drafts")
	}

	lockAt := at.Add(time.Hour)
	entry.Lock(lockAt)
	if !entry.Locked || entry.LockedAt == nil || !entry.LockedAt.Equal(lockAt) {
		t.Errorf("Lock did not record lock time: %+v", entry)
	}
}

func TestStreakEntries(t *testing.T) {
	day := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	locked := NewJournalEntry(day, "a", MoodUnset)
	locked.Lock(day.Add(time.Hour))
	draft := NewJournalEntry(day.AddDate(0, 0, -1), "b", MoodUnset)

	got := StreakEntries([]*JournalEntry{locked, nil, draft})
	if len(got) != 2 {
		t.Fatalf("expected 2 streak entries, got %d", len(got))
	}
	if !got[0].Locked || got[1].Locked {
		t.Errorf("lock flags not carried over: %+v", got)
	}
	if !got[0].Date.Equal(day) {
		t.Errorf("date not carried over: %v", got[0].Date)
	}
}
