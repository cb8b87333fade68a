// ABOUTME: Civil calendar day type used as the streak engine's set key.
// ABOUTME: Handles start-of-day normalization and day arithmetic across month/year/DST boundaries.
package streak

import "time"

// Day is a calendar day with no time-of-day or zone attached.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day containing t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// AddDays returns the day n days after d (n may be negative).
// time.Date normalizes overflowed fields, so month and year rollovers are exact.
func (d Day) AddDays(n int) Day {
	t := time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC)
	y, m, dd := t.Date()
	return Day{Year: y, Month: m, Day: dd}
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	return d.ordinal() < other.ordinal()
}

// After reports whether d is later than other.
func (d Day) After(other Day) bool {
	return d.ordinal() > other.ordinal()
}

// DaysUntil returns the number of calendar days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.ordinal() - d.ordinal())
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// ordinal counts days since the Unix epoch, negative before 1970. Noon UTC keeps it
// clear of zone offsets.
func (d Day) ordinal() int64 {
	secs := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Unix()
	days := secs / 86400
	if secs%86400 < 0 {
		days--
	}
	return days
}
