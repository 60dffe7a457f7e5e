// Package time contains time related helpers
package time

import "time"

// DateLayout is the calendar date form accepted at the API and CLI boundary
const DateLayout = "2006-01-02"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// DayStart truncates t to midnight UTC
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart truncates t to the Monday midnight UTC on or before it
func WeekStart(t time.Time) time.Time {
	d := DayStart(t)
	// Sunday is 0, shift so Monday is 0
	off := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -off)
}

// ParseDate parses a DateLayout string as midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
