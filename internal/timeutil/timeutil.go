package timeutil

import (
	"fmt"
	"time"
)

var defaultLocation = time.UTC

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// ResolveLocation returns the named location with UTC fallback. The second
// return value reports whether the fallback was used.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date value is required")
	}
	if loc == nil {
		loc = defaultLocation
	}

	d, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
	}
	return d, nil
}

// ParseClock parses a 24-hour HH:MM clock value.
func ParseClock(value string) (hour, minute int, err error) {
	if value == "" {
		return 0, 0, fmt.Errorf("clock value is required")
	}

	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to parse time: %s", value)
	}
	return t.Hour(), t.Minute(), nil
}

// CombineDateClock builds a timestamp from an ISO date and an HH:MM clock
// value in loc.
func CombineDateClock(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = defaultLocation
	}

	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// FormatDate renders a timestamp as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
