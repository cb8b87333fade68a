// ABOUTME: Journal service enforcing one entry per day with a one-way lock.
// ABOUTME: Wires storage, the streak engine, insights, and optional remote sync together.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/daylock/internal/insights"
	"github.com/2389-research/daylock/internal/models"
	"github.com/2389-research/daylock/internal/storage"
	"github.com/2389-research/daylock/internal/streak"
)

var (
	// ErrEmptyBody is returned when writing an entry with no text.
	ErrEmptyBody = errors.New("entry body is empty")
	// ErrEntryLocked is returned when editing an entry that has already been locked.
	ErrEntryLocked = errors.New("today's entry is locked")
	// ErrNoEntryToday is returned when today has no entry yet.
	ErrNoEntryToday = errors.New("no entry for today")
	// ErrAlreadyLocked is returned when locking an entry twice.
	ErrAlreadyLocked = errors.New("today's entry is already locked")
	// ErrSyncNotConfigured is returned by remote operations when no remote is set.
	ErrSyncNotConfigured = errors.New("remote sync is not configured")
)

// Remote pushes locked entries to, and lists entries from, a remote journal API.
type Remote interface {
	PushEntry(ctx context.Context, entry *models.JournalEntry) error
	ListEntries(ctx context.Context, limit int, loc *time.Location) ([]*models.JournalEntry, error)
}

// Stats is the streak summary for the journal.
type Stats struct {
	Current     streak.Result `json:"current"`
	Longest     int           `json:"longest"`
	TotalLocked int           `json:"total_locked"`
	TodayLocked bool          `json:"today_locked"`
}

// LockResult reports a successful lock and the outcome of the remote push.
type LockResult struct {
	Entry *models.JournalEntry
	// Synced is true when the entry was pushed to the remote.
	Synced bool
	// SyncErr holds a failed push. The local lock stands regardless.
	SyncErr error
}

// Service owns the daily entry lifecycle.
type Service struct {
	store      storage.JournalStore
	remote     Remote
	calc       *streak.Calculator
	now        func() time.Time
	loc        *time.Location
	logger     *zap.Logger
	streakOpts streak.Options
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRemote enables pushing locked entries to a remote API.
func WithRemote(remote Remote) Option {
	return func(s *Service) {
		s.remote = remote
	}
}

// WithStreakOptions sets the grace period and look-back used by Stats.
func WithStreakOptions(opts streak.Options) Option {
	return func(s *Service) {
		s.streakOpts = opts
	}
}

// NewService creates a journal service on top of store.
func NewService(store storage.JournalStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("journal store is required")
	}
	s := &Service{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.calc = streak.New(streak.WithClock(s.now), streak.WithLocation(s.loc))
	return s, nil
}

// Location returns the time zone that defines calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the service's location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// StreakOptions returns the configured streak options.
func (s *Service) StreakOptions() streak.Options {
	return s.streakOpts
}

// HasRemote reports whether remote sync is configured.
func (s *Service) HasRemote() bool {
	return s.remote != nil
}

func (s *Service) today() time.Time {
	return models.StartOfDay(s.Now())
}

// Today returns today's entry or ErrNoEntryToday.
func (s *Service) Today(ctx context.Context) (*models.JournalEntry, error) {
	entry, err := s.store.GetEntry(ctx, s.today())
	if errors.Is(err, storage.ErrEntryNotFound) {
		return nil, ErrNoEntryToday
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read today's entry: %w", err)
	}
	return entry, nil
}

// Get returns the entry for the calendar day containing day.
func (s *Service) Get(ctx context.Context, day time.Time) (*models.JournalEntry, error) {
	entry, err := s.store.GetEntry(ctx, models.StartOfDay(day.In(s.loc)))
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns entries most recent first.
func (s *Service) List(ctx context.Context, opts storage.ListOptions) ([]*models.JournalEntry, error) {
	if opts.Now.IsZero() {
		opts.Now = s.Now()
	}
	entries, err := s.store.ListEntries(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Write creates today's draft or replaces the text of an existing draft.
// An unset mood keeps the draft's current mood.
func (s *Service) Write(ctx context.Context, body string, mood models.Mood) (*models.JournalEntry, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	now := s.Now()
	entry, err := s.Today(ctx)
	switch {
	case errors.Is(err, ErrNoEntryToday):
		entry = models.NewJournalEntry(now, body, mood)
		entry.CreatedAt = now
		entry.UpdatedAt = now
	case err != nil:
		return nil, err
	case entry.Locked:
		return nil, ErrEntryLocked
	default:
		entry.Body = body
		if mood.IsSet() {
			entry.Mood = mood
		}
		entry.UpdatedAt = now
	}

	if err := s.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	s.logger.Debug("entry written",
		zap.String("day", entry.DayKey()),
		zap.Int("bytes", len(entry.Body)),
		zap.Stringer("mood", entry.Mood),
	)
	return entry, nil
}

// Lock locks today's entry. Locking is one-way: a locked entry can no longer be edited.
// When a remote is configured the entry is pushed after the local save; a failed push is
// reported in the result but does not undo the lock.
func (s *Service) Lock(ctx context.Context) (*LockResult, error) {
	entry, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	if entry.Locked {
		return nil, ErrAlreadyLocked
	}

	entry.Lock(s.Now())
	if err := s.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save locked entry: %w", err)
	}
	s.logger.Info("entry locked", zap.String("day", entry.DayKey()))

	result := &LockResult{Entry: entry}
	if s.remote == nil {
		return result, nil
	}
	if err := s.remote.PushEntry(ctx, entry); err != nil {
		s.logger.Warn("remote sync failed", zap.String("day", entry.DayKey()), zap.Error(err))
		result.SyncErr = err
		return result, nil
	}
	result.Synced = true
	return result, nil
}

// Stats computes streak statistics with the configured streak options.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.StatsWith(ctx, s.streakOpts)
}

// StatsWith computes streak statistics with explicit streak options.
// The store is re-read on every call.
func (s *Service) StatsWith(ctx context.Context, opts streak.Options) (Stats, error) {
	entries, err := s.store.ListEntries(ctx, storage.ListOptions{LockedOnly: true, Now: s.Now()})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list entries: %w", err)
	}

	input := models.StreakEntries(entries)
	completed := s.calc.CompletedDays(input, opts.LookBack)
	_, todayLocked := completed[s.calc.Today()]

	stats := Stats{
		Current:     s.calc.CurrentStreak(input, opts),
		Longest:     s.calc.LongestStreak(input, opts),
		TotalLocked: len(completed),
		TodayLocked: todayLocked,
	}
	s.logger.Debug("streak computed",
		zap.Int("current", stats.Current.Count),
		zap.Int("longest", stats.Longest),
		zap.Bool("grace_consumed", stats.Current.GracePeriodConsumed),
		zap.Bool("grace_active_now", stats.Current.GracePeriodActiveNow),
	)
	return stats, nil
}

// Insights builds a mood and writing report over the last days days.
func (s *Service) Insights(ctx context.Context, days int) (insights.Report, error) {
	if days <= 0 {
		days = insights.DefaultDays
	}
	now := s.Now()
	entries, err := s.store.ListEntries(ctx, storage.ListOptions{LockedOnly: true, Days: days, Now: now})
	if err != nil {
		return insights.Report{}, fmt.Errorf("failed to list entries: %w", err)
	}
	return insights.Build(entries, now, days, s.loc), nil
}

// RemoteEntries lists entries stored on the remote API.
func (s *Service) RemoteEntries(ctx context.Context, limit int) ([]*models.JournalEntry, error) {
	if s.remote == nil {
		return nil, ErrSyncNotConfigured
	}
	entries, err := s.remote.ListEntries(ctx, limit, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote entries: %w", err)
	}
	return entries, nil
}
