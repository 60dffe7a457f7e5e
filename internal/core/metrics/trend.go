package metrics

import (
	"time"

	"impactlog/internal/core/source"
)

// TrendPoint is the automated event count of one bucket
type TrendPoint struct {
	BucketStart time.Time `json:"bucket_start"`
	Automated   int       `json:"automated"`
}

// GrowthTrend counts automated events in r per bucket
//
// The first bucket starts at the floor of r.Start and buckets continue while their
// start is before r.End, so the output is ascending and gap free. Only events inside
// r are counted. An invalid r yields an empty trend
func GrowthTrend(events []source.Event, b Bucketing, r Window) []TrendPoint {
	out := []TrendPoint{}
	if r.Validate() != nil {
		return out
	}

	first := b.Floor(r.Start)
	for s := first; s.Before(r.End); s = b.Next(s) {
		out = append(out, TrendPoint{BucketStart: s})
	}

	width := b.Width()
	for _, e := range events {
		if !e.Automated || !r.Contains(e.Timestamp) {
			continue
		}
		i := int(b.Floor(e.Timestamp).Sub(first) / width)
		if i >= 0 && i < len(out) {
			out[i].Automated++
		}
	}
	return out
}
