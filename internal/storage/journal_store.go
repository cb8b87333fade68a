// ABOUTME: Interface definition for daily journal entry storage.
// ABOUTME: Defines the contract for saving, fetching by day, and listing journal entries.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/2389-research/daylock/internal/models"
)

// ErrEntryNotFound is returned when no entry exists for the requested day.
var ErrEntryNotFound = errors.New("journal entry not found")

// ListOptions configures filtering for listing entries.
type ListOptions struct {
	Limit      int  // 0 = no limit
	Days       int  // how many days back to include, counting today; 0 = no limit
	LockedOnly bool // skip drafts
	Now        time.Time
}

// JournalStore defines operations for journal entry persistence.
// There is at most one entry per calendar day.
type JournalStore interface {
	// SaveEntry creates or replaces the entry for entry.Day.
	SaveEntry(ctx context.Context, entry *models.JournalEntry) error

	// GetEntry returns the entry for the given day, or ErrEntryNotFound.
	GetEntry(ctx context.Context, day time.Time) (*models.JournalEntry, error)

	// ListEntries returns entries sorted by day, most recent first.
	ListEntries(ctx context.Context, opts ListOptions) ([]*models.JournalEntry, error)

	// Close releases any resources held by the store.
	Close() error
}

// Cutoff returns the earliest day included by opts.Days, or the zero time when unbounded.
func (o ListOptions) Cutoff(loc *time.Location) time.Time {
	if o.Days <= 0 {
		return time.Time{}
	}
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	if loc != nil {
		now = now.In(loc)
	}
	return models.StartOfDay(now).AddDate(0, 0, -(o.Days - 1))
}

// Include reports whether an entry passes the LockedOnly and Days filters.
func (o ListOptions) Include(entry *models.JournalEntry, cutoff time.Time) bool {
	if o.LockedOnly && !entry.Locked {
		return false
	}
	if !cutoff.IsZero() && entry.Day.Before(cutoff) {
		return false
	}
	return true
}
