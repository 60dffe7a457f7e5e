// Package normalize maps each platform's raw export rows into canonical events
//
// Every normalizer is total: a row that cannot produce an event is dropped and
// counted under a reason, the batch never fails. Each source parses its dates
// with exactly one layout, there is no cross format fallback
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"impactlog/internal/core/rulepack"
	"impactlog/internal/core/source"
	"impactlog/internal/core/textnorm"
)

// Drop reasons
const (
	ReasonTimestamp  = "timestamp"
	ReasonIdentifier = "identifier"
	ReasonDuration   = "duration"
)

// Date layouts, one per source
const (
	LayoutAsana   = "2006-01-02"
	LayoutJira    = "02/Jan/06 3:04 PM"
	LayoutZapier  = time.RFC3339
	LayoutHubSpot = "2006-01-02 15:04"
	LayoutM365    = "01/02/2006"
)

// Result is the outcome of normalizing one source
// len(Events) + Dropped always equals the number of input rows
type Result struct {
	Events  []source.Event
	Dropped int
	Reasons map[string]int
}

func (r *Result) drop(reason string) {
	r.Dropped++
	if r.Reasons == nil {
		r.Reasons = make(map[string]int, 3)
	}
	r.Reasons[reason]++
}

// run applies fn to every row, collecting events and drop reasons in input order
// fn returns a non empty reason to drop the row
func run[R any](rows []R, fn func(R) (source.Event, string)) Result {
	res := Result{Events: make([]source.Event, 0, len(rows))}
	for _, row := range rows {
		ev, reason := fn(row)
		if reason != "" {
			res.drop(reason)
			continue
		}
		res.Events = append(res.Events, ev)
	}
	return res
}

// All normalizes every variant in b, the result has an entry for each App
func All(b source.Batch, pack *rulepack.Pack) map[source.App]Result {
	return map[source.App]Result{
		source.Asana:        Asana(b.Asana, pack),
		source.Jira:         Jira(b.Jira, pack),
		source.Zapier:       Zapier(b.Zapier, pack),
		source.HubSpot:      HubSpot(b.HubSpot, pack),
		source.Microsoft365: M365(b.M365, pack),
	}
}

// parseTime parses s with the single layout for a source and returns it in UTC
func parseTime(layout, s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// parseHours converts an explicit duration cell to hours using perHour units per hour
// blank means absent, negatives clamp to zero, ok is false when the cell is not a number
func parseHours(s string, perHour float64) (*float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	h := math.Max(v/perHour, 0)
	return &h, true
}

// category folds the first non blank candidate into a heuristic key
func category(candidates ...string) string {
	for _, c := range candidates {
		if f := textnorm.Fold(c); f != "" {
			return f
		}
	}
	return ""
}

// meta builds display metadata, skipping blank values
func meta(kv ...string) map[string]string {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if v := strings.TrimSpace(kv[i+1]); v != "" {
			out[kv[i]] = v
		}
	}
	return out
}

// common fills the fields every source shares and applies the row level checks
// in order: identifier, timestamp, duration
func common(app source.App, line int, id, layout, ts, dur string, perHour float64) (source.Event, string) {
	if strings.TrimSpace(id) == "" {
		return source.Event{}, ReasonIdentifier
	}
	t, ok := parseTime(layout, ts)
	if !ok {
		return source.Event{}, ReasonTimestamp
	}
	hours, ok := parseHours(dur, perHour)
	if !ok {
		return source.Event{}, ReasonDuration
	}
	return source.Event{
		ID:            source.EventID(app, line, id),
		App:           app,
		Timestamp:     t,
		DurationHours: hours,
		Line:          line,
	}, ""
}
