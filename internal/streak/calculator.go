// ABOUTME: Streak engine computing current and longest streaks over locked journal days.
// ABOUTME: Pure and stateless; "now" and the calendar location are injected for testability.
package streak

import (
	"sort"
	"time"
)

// Entry is the engine's view of a journal entry.
type Entry struct {
	Date   time.Time
	Locked bool
}

// Options controls a single streak calculation.
type Options struct {
	// AllowGracePeriod forgives one missed day inside a streak.
	AllowGracePeriod bool
	// LookBack restricts eligible days to those within this duration of now. Zero means no limit.
	LookBack time.Duration
}

// Result is the current-streak summary.
type Result struct {
	Count                int  `json:"count"`
	GracePeriodConsumed  bool `json:"grace_period_consumed"`
	GracePeriodActiveNow bool `json:"grace_period_active_now"`
}

// Calculator computes streak statistics. The zero value is not usable; call New.
type Calculator struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock sets the source of "now".
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the calendar location used to normalize entry dates to days.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// New creates a Calculator using the wall clock and local time zone unless overridden.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today returns the calculator's current calendar day.
func (c *Calculator) Today() Day {
	return DayOf(c.now(), c.loc)
}

// CompletedDays returns the set of days that have at least one locked entry,
// excluding future days and days outside the look-back window.
func (c *Calculator) CompletedDays(entries []Entry, lookBack time.Duration) map[Day]struct{} {
	now := c.now()
	today := DayOf(now, c.loc)

	var cutoff Day
	hasCutoff := lookBack > 0
	if hasCutoff {
		cutoff = DayOf(now.Add(-lookBack), c.loc)
	}

	days := make(map[Day]struct{}, len(entries))
	for _, e := range entries {
		if !e.Locked {
			continue
		}
		d := DayOf(e.Date, c.loc)
		if d.After(today) {
			continue
		}
		if hasCutoff && d.Before(cutoff) {
			continue
		}
		days[d] = struct{}{}
	}
	return days
}

// CurrentStreak walks backward from today and counts consecutive completed days.
// Today being incomplete does not break the chain; the count then ends at yesterday.
func (c *Calculator) CurrentStreak(entries []Entry, opts Options) Result {
	days := c.CompletedDays(entries, opts.LookBack)
	if len(days) == 0 {
		return Result{}
	}

	today := c.Today()
	_, todayDone := days[today]

	count := 0
	if todayDone {
		count = 1
	}

	var (
		graceDay  Day
		graceUsed bool
		lastMiss  bool
	)

	// Walk. The graced day is only tentative here.
	for day := today.AddDays(-1); ; day = day.AddDays(-1) {
		if _, ok := days[day]; ok {
			count++
			lastMiss = false
			continue
		}
		if lastMiss {
			break
		}
		if opts.AllowGracePeriod && !graceUsed {
			graceDay = day
			graceUsed = true
			lastMiss = true
			continue
		}
		break
	}

	// Validate. A grace day only rescues a streak if the day before it was completed.
	consumed := false
	if graceUsed {
		_, consumed = days[graceDay.AddDays(-1)]
	}

	return Result{
		Count:                count,
		GracePeriodConsumed:  consumed,
		GracePeriodActiveNow: consumed && graceDay == today.AddDays(-1) && !todayDone,
	}
}

// LongestStreak scans all completed days in order and returns the longest run.
// Grace is granted once per run and becomes available again after a reset.
func (c *Calculator) LongestStreak(entries []Entry, opts Options) int {
	set := c.CompletedDays(entries, opts.LookBack)
	if len(set) == 0 {
		return 0
	}

	days := make([]Day, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	longest, current := 1, 1
	graceUsed := false
	for i := 1; i < len(days); i++ {
		gap := days[i-1].DaysUntil(days[i])
		switch {
		case gap == 1:
			current++
		case gap == 2 && opts.AllowGracePeriod && !graceUsed:
			current++
			graceUsed = true
		default:
			current = 1
			graceUsed = false
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}
