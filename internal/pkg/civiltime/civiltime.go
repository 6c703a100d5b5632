package civiltime

import (
	"fmt"
	"time"
)

// Location is the single business timezone (UTC+8). Every instant that
// participates in attendance or payroll arithmetic must be pinned to it
// before any comparison; the ambient system timezone is never consulted.
var Location = time.FixedZone("Asia/Manila", 8*60*60)

// Now returns the current instant pinned to the business timezone.
func Now() time.Time {
	return time.Now().In(Location)
}

// In pins an arbitrary instant to the business timezone.
func In(t time.Time) time.Time {
	return t.In(Location)
}

// Date builds midnight of the given civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Location)
}

// DayOf truncates an instant to midnight of its civil date.
func DayOf(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// At combines the civil date of day with a wall-clock hour and minute.
func At(day time.Time, hour, minute int) time.Time {
	day = day.In(Location)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, Location)
}

// MinutesBetween returns whole minutes from a to b, negative when b is
// earlier than a.
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// SameDay reports whether two instants fall on the same civil date.
func SameDay(a, b time.Time) bool {
	a, b = a.In(Location), b.In(Location)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseClock parses a "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := time.Parse("15:04", s); err != nil {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q: %w", s, err)
	}
	fmt.Sscanf(s, "%d:%d", &hour, &minute)
	return hour, minute, nil
}

// ParseDate parses a "2006-01-02" civil date into midnight of that date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
