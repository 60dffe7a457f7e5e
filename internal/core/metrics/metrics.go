// Package metrics computes automation impact figures over an event log
//
// Every function is pure: it never mutates its input and an empty log yields the
// identity for the metric (zero counts, 0% coverage, fully keyed per app maps).
// No function returns NaN
package metrics

import (
	"math"

	"impactlog/internal/core/source"
)

// Heuristics supplies a duration for automated events that carry none
type Heuristics interface {
	Hours(app source.App, category string) float64
}

// HeuristicFunc adapts a function to Heuristics
type HeuristicFunc func(app source.App, category string) float64

func (f HeuristicFunc) Hours(app source.App, category string) float64 { return f(app, category) }

// AppSplit is the manual and automated event count for one app
type AppSplit struct {
	Manual    int `json:"manual"`
	Automated int `json:"automated"`
}

// Total is Manual + Automated
func (s AppSplit) Total() int { return s.Manual + s.Automated }

// AutomationCoverage is the percentage of events in w that are automated, 0 for an empty window
func AutomationCoverage(events []source.Event, w Window) float64 {
	var total, auto int
	for _, e := range events {
		if !w.Contains(e.Timestamp) {
			continue
		}
		total++
		if e.Automated {
			auto++
		}
	}
	return percent(auto, total)
}

// CoveragePrevious is the coverage over previous, used for the period delta
// the relationship between the two windows is the caller's concern
func CoveragePrevious(events []source.Event, _ Window, previous Window) float64 {
	return AutomationCoverage(events, previous)
}

// TotalAutomations counts automated events, unwindowed
func TotalAutomations(events []source.Event) int {
	n := 0
	for _, e := range events {
		if e.Automated {
			n++
		}
	}
	return n
}

// TimeSavedHours sums durations over automated events, substituting h where absent
func TimeSavedHours(events []source.Event, h Heuristics) float64 {
	sum := 0.0
	for _, e := range events {
		if e.Automated {
			sum += hours(e, h)
		}
	}
	return finite(sum)
}

// TimeSavedHoursByApp is TimeSavedHours grouped by app, every app present
func TimeSavedHoursByApp(events []source.Event, h Heuristics) map[source.App]float64 {
	out := source.Keyed[float64]()
	for _, e := range events {
		if e.Automated {
			out[e.App] += hours(e, h)
		}
	}
	for a, v := range out {
		out[a] = finite(v)
	}
	return out
}

// ManualVsAutomatedByApp splits event counts per app, every app present
func ManualVsAutomatedByApp(events []source.Event) map[source.App]AppSplit {
	out := source.Keyed[AppSplit]()
	for _, e := range events {
		s := out[e.App]
		if e.Automated {
			s.Automated++
		} else {
			s.Manual++
		}
		out[e.App] = s
	}
	return out
}

func hours(e source.Event, h Heuristics) float64 {
	if v, ok := e.Hours(); ok {
		return math.Max(v, 0)
	}
	if h == nil {
		return 0
	}
	return math.Max(h.Hours(e.App, e.Category), 0)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
