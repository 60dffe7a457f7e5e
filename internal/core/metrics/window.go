package metrics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"impactlog/internal/core/source"
	ptime "impactlog/internal/platform/time"
)

// ErrInvalidRange reports a window whose end is not after its start
var ErrInvalidRange = errors.New("metrics: invalid range")

// Window is the half open interval [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects windows that cannot contain any instant
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if !w.End.After(w.Start) {
		return fmt.Errorf("%w: end %s is not after start %s",
			ErrInvalidRange, w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Filter returns the events inside the window in their original order
func (w Window) Filter(events []source.Event) []source.Event {
	out := make([]source.Event, 0, len(events))
	for _, e := range events {
		if w.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out
}

// Span returns the bucket aligned window covering every event, ok is false for an empty log
func Span(events []source.Event, b Bucketing) (Window, bool) {
	if len(events) == 0 {
		return Window{}, false
	}
	lo, hi := events[0].Timestamp, events[0].Timestamp
	for _, e := range events[1:] {
		if e.Timestamp.Before(lo) {
			lo = e.Timestamp
		}
		if e.Timestamp.After(hi) {
			hi = e.Timestamp
		}
	}
	return Window{Start: b.Floor(lo), End: b.Next(b.Floor(hi))}, true
}

// Bucketing is the trend bucket width
type Bucketing int

const (
	// Weekly buckets start Monday 00:00 UTC
	Weekly Bucketing = iota
	// Daily buckets start 00:00 UTC
	Daily
)

// ParseBucketing accepts day/daily and week/weekly, empty means Weekly
func ParseBucketing(s string) (Bucketing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "week", "weekly":
		return Weekly, nil
	case "day", "daily":
		return Daily, nil
	}
	return Weekly, fmt.Errorf("metrics: unknown bucketing %q", s)
}

func (b Bucketing) String() string {
	if b == Daily {
		return "day"
	}
	return "week"
}

// Floor returns the start of the bucket containing t
func (b Bucketing) Floor(t time.Time) time.Time {
	if b == Daily {
		return ptime.DayStart(t)
	}
	return ptime.WeekStart(t)
}

// Next returns the start of the bucket after the one starting at start
func (b Bucketing) Next(start time.Time) time.Time {
	if b == Daily {
		return start.AddDate(0, 0, 1)
	}
	return start.AddDate(0, 0, 7)
}

// MaxBuckets caps the trend length one query may ask for
const MaxBuckets = 5000

// Buckets returns how many buckets GrowthTrend emits for w, 0 for an invalid window
// very long windows saturate rather than overflow
func (b Bucketing) Buckets(w Window) int {
	if w.Validate() != nil {
		return 0
	}
	width := b.Width()
	d := w.End.Sub(b.Floor(w.Start))
	return int(d/width) + min(1, int(d%width))
}

// Width is the fixed bucket length; buckets are UTC so there is no DST drift
func (b Bucketing) Width() time.Duration {
	if b == Daily {
		return 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}
