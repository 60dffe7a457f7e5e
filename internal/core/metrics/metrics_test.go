package metrics

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactlog/internal/core/rulepack"
	"impactlog/internal/core/source"
)

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func event(app source.App, auto bool, ts time.Time) source.Event {
	return source.Event{App: app, Automated: auto, Timestamp: ts, Actor: source.Unassigned}
}

func withHours(e source.Event, h float64) source.Event {
	e.DurationHours = &h
	return e
}

// randomLog builds a reproducible log spread over four weeks
func randomLog(seed uint64, n int) []source.Event {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	apps := source.Apps()
	out := make([]source.Event, 0, n)
	for i := 0; i < n; i++ {
		ts := monday.Add(time.Duration(r.IntN(28*24)) * time.Hour)
		e := event(apps[r.IntN(len(apps))], r.IntN(2) == 0, ts)
		if r.IntN(3) == 0 {
			e = withHours(e, r.Float64()*4)
		}
		out = append(out, e)
	}
	return out
}

func fixed(h float64) Heuristics {
	return HeuristicFunc(func(source.App, string) float64 { return h })
}

func TestEmptyLog_Identities(t *testing.T) {
	w := Window{Start: monday, End: monday.AddDate(0, 0, 14)}

	assert.Zero(t, AutomationCoverage(nil, w))
	assert.Zero(t, TotalAutomations(nil))
	assert.Zero(t, TimeSavedHours(nil, fixed(1)))
	assert.Zero(t, CoveragePrevious(nil, w, w))

	byApp := TimeSavedHoursByApp(nil, fixed(1))
	require.Len(t, byApp, 5)
	split := ManualVsAutomatedByApp(nil)
	require.Len(t, split, 5)
	for _, a := range source.Apps() {
		assert.Zero(t, byApp[a])
		assert.Equal(t, AppSplit{}, split[a])
	}

	trend := GrowthTrend(nil, Weekly, w)
	require.Len(t, trend, 2)
	for _, p := range trend {
		assert.Zero(t, p.Automated)
	}

	returns := ReturnsByApp(byApp, 50, nil)
	require.Len(t, returns, 5)
	assert.Zero(t, TotalReturnsUSD(returns))
}

func TestZapierScenario(t *testing.T) {
	p, err := rulepack.Default()
	require.NoError(t, err)

	ev := event(source.Zapier, true, monday.Add(10*time.Hour))
	ev.Category = "email-automation"
	log := []source.Event{ev}

	assert.Equal(t, 0.5, TimeSavedHours(log, p))
	assert.Equal(t, 1, TotalAutomations(log))
	assert.Equal(t, 100.0, AutomationCoverage(log, Window{Start: monday, End: monday.AddDate(0, 0, 1)}))
	assert.Equal(t, 0.5, TimeSavedHoursByApp(log, p)[source.Zapier])
}

func TestCoverage_BoundsProperty(t *testing.T) {
	w := Window{Start: monday.AddDate(0, 0, 3), End: monday.AddDate(0, 0, 17)}
	for seed := uint64(1); seed <= 50; seed++ {
		log := randomLog(seed, int(seed*3))
		c := AutomationCoverage(log, w)
		assert.False(t, math.IsNaN(c))
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 100.0)
	}

	outside := Window{Start: monday.AddDate(1, 0, 0), End: monday.AddDate(1, 0, 7)}
	assert.Zero(t, AutomationCoverage(randomLog(7, 40), outside))
}

func TestCoverage_HalfOpen(t *testing.T) {
	w := Window{Start: monday, End: monday.AddDate(0, 0, 1)}
	log := []source.Event{
		event(source.Jira, true, monday),
		event(source.Jira, false, monday.AddDate(0, 0, 1)), // at End, excluded
	}
	assert.Equal(t, 100.0, AutomationCoverage(log, w))
}

func TestManualVsAutomated_SumsProperty(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		log := randomLog(seed, 60)
		split := ManualVsAutomatedByApp(log)
		require.Len(t, split, 5)

		counts := map[source.App]int{}
		for _, e := range log {
			counts[e.App]++
		}
		for _, a := range source.Apps() {
			assert.Equal(t, counts[a], split[a].Manual+split[a].Automated, "seed %d app %s", seed, a)
			assert.Equal(t, counts[a], split[a].Total())
		}
	}
}

func TestTimeSaved_ExplicitOverridesHeuristic(t *testing.T) {
	log := []source.Event{
		withHours(event(source.Asana, true, monday), 2),
		event(source.Asana, true, monday),
		withHours(event(source.Asana, false, monday), 9), // manual never counts
		event(source.Jira, true, monday),
	}
	h := HeuristicFunc(func(a source.App, _ string) float64 {
		if a == source.Jira {
			return 1.5
		}
		return 0.25
	})
	assert.InDelta(t, 3.75, TimeSavedHours(log, h), 1e-9)

	byApp := TimeSavedHoursByApp(log, h)
	assert.InDelta(t, 2.25, byApp[source.Asana], 1e-9)
	assert.InDelta(t, 1.5, byApp[source.Jira], 1e-9)
	assert.Zero(t, byApp[source.HubSpot])

	// nil heuristics contribute nothing for missing durations
	assert.InDelta(t, 2.0, TimeSavedHours(log, nil), 1e-9)
}

func TestGrowthTrend_BucketCountAndSumProperty(t *testing.T) {
	ranges := []Window{
		{Start: monday, End: monday.AddDate(0, 0, 28)},
		{Start: monday.AddDate(0, 0, 2), End: monday.AddDate(0, 0, 19)},
		{Start: monday.Add(5 * time.Hour), End: monday.Add(6 * time.Hour)},
	}
	for _, b := range []Bucketing{Daily, Weekly} {
		for _, r := range ranges {
			log := randomLog(42, 200)
			trend := GrowthTrend(log, b, r)

			first := b.Floor(r.Start)
			want := int(math.Ceil(float64(r.End.Sub(first)) / float64(b.Width())))
			require.Len(t, trend, want, "%s %v", b, r)

			sum, automatedIn := 0, 0
			for i, p := range trend {
				sum += p.Automated
				assert.Equal(t, first.Add(time.Duration(i)*b.Width()), p.BucketStart)
				if i > 0 {
					assert.True(t, p.BucketStart.After(trend[i-1].BucketStart))
				}
			}
			for _, e := range log {
				if e.Automated && r.Contains(e.Timestamp) {
					automatedIn++
				}
			}
			assert.Equal(t, automatedIn, sum, "%s %v", b, r)
		}
	}
}

func TestGrowthTrend_GapFree(t *testing.T) {
	log := []source.Event{
		event(source.Zapier, true, monday.Add(time.Hour)),
		event(source.Zapier, true, monday.AddDate(0, 0, 21)),
		event(source.Zapier, false, monday.AddDate(0, 0, 8)),
	}
	trend := GrowthTrend(log, Weekly, Window{Start: monday, End: monday.AddDate(0, 0, 28)})
	got := make([]int, len(trend))
	for i, p := range trend {
		got[i] = p.Automated
	}
	assert.Equal(t, []int{1, 0, 0, 1}, got)
}

func TestBucketing_BucketsMatchesTrend(t *testing.T) {
	ranges := []Window{
		{Start: monday, End: monday.AddDate(0, 0, 1)},
		{Start: monday.AddDate(0, 0, 2), End: monday.AddDate(0, 0, 9)},
		{Start: monday.Add(5 * time.Hour), End: monday.AddDate(0, 0, 30).Add(time.Hour)},
	}
	for _, r := range ranges {
		for _, b := range []Bucketing{Daily, Weekly} {
			assert.Equal(t, len(GrowthTrend(nil, b, r)), b.Buckets(r), "%s %v", b, r)
		}
	}
	assert.Zero(t, Daily.Buckets(Window{Start: monday, End: monday}))

	far := Window{Start: time.Date(2, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)}
	assert.Greater(t, Daily.Buckets(far), MaxBuckets)
	assert.Greater(t, Weekly.Buckets(far), MaxBuckets)
}

func TestGrowthTrend_InvalidRangeIsEmpty(t *testing.T) {
	trend := GrowthTrend(nil, Daily, Window{Start: monday, End: monday})
	assert.NotNil(t, trend)
	assert.Empty(t, trend)
}

func TestCoveragePrevious_UsesPreviousWindow(t *testing.T) {
	log := []source.Event{
		event(source.HubSpot, true, monday.AddDate(0, 0, -3)),
		event(source.HubSpot, false, monday.AddDate(0, 0, -2)),
		event(source.HubSpot, true, monday.AddDate(0, 0, 1)),
	}
	cur := Window{Start: monday, End: monday.AddDate(0, 0, 7)}
	prev := Window{Start: monday.AddDate(0, 0, -7), End: monday}
	assert.Equal(t, 100.0, AutomationCoverage(log, cur))
	assert.Equal(t, 50.0, CoveragePrevious(log, cur, prev))
	// overlapping windows are not rejected
	assert.Equal(t, 100.0, CoveragePrevious(log, cur, cur))
}

func TestReturns_ToolCostFallbackIsExplicit(t *testing.T) {
	hours := map[source.App]float64{source.Zapier: 10, source.Jira: 2}
	returns := ReturnsByApp(hours, 50, map[source.App]float64{source.Zapier: 120})
	require.Len(t, returns, 5)

	z := returns[source.Zapier]
	assert.Equal(t, 500.0, z.CostSavedUSD)
	require.NotNil(t, z.ToolCostUSD)
	assert.Equal(t, 120.0, *z.ToolCostUSD)
	assert.Equal(t, 380.0, z.NetUSD)
	assert.True(t, z.ToolCostApplied)

	j := returns[source.Jira]
	assert.Equal(t, 100.0, j.NetUSD)
	assert.Nil(t, j.ToolCostUSD)
	assert.False(t, j.ToolCostApplied)

	assert.Equal(t, 480.0, TotalReturnsUSD(returns))
	assert.Equal(t, 600.0, CostSavedUSD(12, 50))
	assert.Zero(t, CostSavedUSD(math.Inf(1), 0))
}

func TestWindow_Validate(t *testing.T) {
	assert.NoError(t, Window{Start: monday, End: monday.Add(time.Nanosecond)}.Validate())
	assert.ErrorIs(t, Window{Start: monday, End: monday}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Window{Start: monday, End: monday.Add(-time.Hour)}.Validate(), ErrInvalidRange)
	assert.ErrorIs(t, Window{End: monday}.Validate(), ErrInvalidRange)
}

func TestSpan(t *testing.T) {
	_, ok := Span(nil, Weekly)
	assert.False(t, ok)

	log := []source.Event{
		event(source.Jira, false, monday.AddDate(0, 0, 9)),
		event(source.Jira, false, monday.AddDate(0, 0, 2)),
	}
	w, ok := Span(log, Weekly)
	require.True(t, ok)
	assert.Equal(t, monday, w.Start)
	assert.Equal(t, monday.AddDate(0, 0, 14), w.End)
	assert.Len(t, w.Filter(log), 2)
}

func TestParseBucketing(t *testing.T) {
	for in, want := range map[string]Bucketing{"": Weekly, "week": Weekly, "Weekly": Weekly, "day": Daily, " DAILY ": Daily} {
		got, err := ParseBucketing(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBucketing("month")
	assert.Error(t, err)
	assert.Equal(t, "day", Daily.String())
	assert.Equal(t, "week", Weekly.String())
}

func TestInputsNotMutated(t *testing.T) {
	log := randomLog(3, 30)
	snapshot := append([]source.Event(nil), log...)
	w := Window{Start: monday, End: monday.AddDate(0, 0, 28)}

	_ = AutomationCoverage(log, w)
	_ = TimeSavedHoursByApp(log, fixed(0.5))
	_ = GrowthTrend(log, Daily, w)
	_ = ManualVsAutomatedByApp(log)
	assert.Equal(t, snapshot, log)
}
