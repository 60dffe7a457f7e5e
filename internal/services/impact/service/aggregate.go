package service

import (
	"context"
	"maps"
	"strings"

	"impactlog/internal/core/eventlog"
	"impactlog/internal/core/metrics"
	"impactlog/internal/core/normalize"
	"impactlog/internal/core/source"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
	ptime "impactlog/internal/platform/time"
	"impactlog/internal/services/impact/domain"
)

// query is a MetricsInput resolved against the service defaults
type query struct {
	project    string
	window     *metrics.Window
	compare    *metrics.Window
	bucket     metrics.Bucketing
	hourlyRate float64
	toolCosts  map[source.App]float64
}

// Metrics runs the aggregator for one project
func (s *Svc) Metrics(ctx context.Context, in domain.MetricsInput) (domain.MetricsResponse, error) {
	q, err := s.resolve(in)
	if err != nil {
		return domain.MetricsResponse{}, err
	}
	ctx = logger.WithProject(ctx, q.project)
	log := logger.C(ctx)

	ok, err := s.catalog.Has(ctx, q.project)
	if err != nil {
		s.metrics.Aggregation("unavailable")
		return domain.MetricsResponse{}, unavailable(err, "lookup project")
	}
	if !ok {
		s.metrics.Aggregation("not_found")
		return domain.MetricsResponse{}, perr.Wrapf(domain.ErrProjectNotFound, perr.ErrorCodeNotFound, "project %q not found", q.project)
	}

	batch, fetchedBy, err := s.fetchAll(ctx, q.project)
	if err != nil {
		s.metrics.Aggregation("unavailable")
		log.Error().Err(err).Msg("fetch exports failed")
		return domain.MetricsResponse{}, err
	}

	results := normalize.All(batch, s.pack)
	ingest := make(map[source.App]domain.SourceReport, len(results))
	parts := make([][]source.Event, 0, len(results))
	for _, app := range source.Apps() {
		res, f := results[app], fetchedBy[app]
		ingest[app] = s.report(app, res, f)
		parts = append(parts, res.Events)
		if res.Dropped > 0 {
			log.Debug().Str("source", app.String()).Int("dropped", res.Dropped).Interface("reasons", res.Reasons).Msg("rows dropped")
		}
	}
	events := eventlog.Build(parts...)

	out := assemble(q, events, s.pack)
	out.Ingest = ingest
	out.RulesOrigin = s.pack.Origin

	s.metrics.Aggregation("ok")
	log.Info().Int("events", len(events)).Float64("coverage_pct", out.AutomationCoveragePct).Msg("metrics computed")
	return out, nil
}

// report builds the ingest summary of one source and records its counters
func (s *Svc) report(app source.App, res normalize.Result, f fetched) domain.SourceReport {
	name := app.String()
	if f.reason != "" {
		s.metrics.SourceUnavailable(name, f.reason)
		return domain.SourceReport{UnavailableReason: f.reason}
	}

	r := domain.SourceReport{
		Available: true,
		Rows:      len(res.Events) + res.Dropped + f.malformed,
		Events:    len(res.Events),
		Dropped:   res.Dropped + f.malformed,
	}
	if r.Dropped > 0 {
		r.DropReasons = maps.Clone(res.Reasons)
		if r.DropReasons == nil {
			r.DropReasons = map[string]int{}
		}
		if f.malformed > 0 {
			r.DropReasons[domain.ReasonMalformed] += f.malformed
		}
		for reason, n := range r.DropReasons {
			s.metrics.RowsDropped(name, reason, n)
		}
	}
	s.metrics.Events(name, r.Events)
	return r
}

// assemble computes every metric over the merged log
// with a window, sums and splits use only in window events while
// TotalAutomations still counts the whole log; without one the window spans the
// whole log, aligned to the bucket
func assemble(q query, events []source.Event, h metrics.Heuristics) domain.MetricsResponse {
	w := q.window
	scoped := events
	if w != nil {
		scoped = w.Filter(events)
	} else if span, ok := metrics.Span(events, q.bucket); ok {
		w = &span
	}

	var win metrics.Window
	if w != nil {
		win = *w
	}

	byApp := metrics.TimeSavedHoursByApp(scoped, h)
	total := metrics.TimeSavedHours(scoped, h)
	returns := metrics.ReturnsByApp(byApp, q.hourlyRate, q.toolCosts)

	out := domain.MetricsResponse{
		Project: q.project,
		Range:   w,
		Bucket:  q.bucket.String(),
		Events:  len(scoped),

		AutomationCoveragePct: metrics.AutomationCoverage(events, win),
		TotalAutomations:      metrics.TotalAutomations(events),
		AutomationsInRange:    metrics.TotalAutomations(scoped),
		TimeSavedHours:        total,
		TimeSavedHoursByApp:   byApp,
		HourlyRateUSD:         q.hourlyRate,
		CostSavedUSD:          metrics.CostSavedUSD(total, q.hourlyRate),
		ReturnsByApp:          returns,
		TotalReturnsUSD:       metrics.TotalReturnsUSD(returns),
		GrowthTrend:           metrics.GrowthTrend(events, q.bucket, win),
		ManualVsAutomated:     metrics.ManualVsAutomatedByApp(scoped),
	}

	if q.compare != nil {
		prev := metrics.CoveragePrevious(events, win, *q.compare)
		delta := out.AutomationCoveragePct - prev
		out.Compare = q.compare
		out.PreviousCoveragePct = &prev
		out.CoverageDeltaPct = &delta
	}
	return out
}

// resolve validates in and fills defaults
func (s *Svc) resolve(in domain.MetricsInput) (query, error) {
	q := query{
		project:    strings.TrimSpace(in.Project),
		bucket:     s.defaults.Bucket,
		hourlyRate: s.defaults.HourlyRate,
		toolCosts:  maps.Clone(s.defaults.ToolCosts),
	}
	if q.project == "" {
		return q, perr.WithField(perr.InvalidArgf("project is required"), "project")
	}

	var err error
	if q.window, err = parseRange(in.Range, "range"); err != nil {
		return q, err
	}
	if q.compare, err = parseRange(in.Compare, "compare"); err != nil {
		return q, err
	}
	if in.Bucket != "" {
		if q.bucket, err = metrics.ParseBucketing(in.Bucket); err != nil {
			return q, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid bucket"), "bucket")
		}
	}

	if q.window != nil {
		if n := q.bucket.Buckets(*q.window); n > metrics.MaxBuckets {
			return q, perr.WithField(perr.InvalidArgf("range spans %d %s buckets, at most %d allowed", n, q.bucket, metrics.MaxBuckets), "range")
		}
	}

	switch {
	case in.HourlyRate < 0:
		return q, perr.WithField(perr.InvalidArgf("hourly rate must be positive"), "hourly_rate")
	case in.HourlyRate > 0:
		q.hourlyRate = in.HourlyRate
	}

	for name, usd := range in.ToolCosts {
		app, ok := source.ParseApp(name)
		if !ok {
			return q, perr.WithField(perr.InvalidArgf("unknown app %q in tool costs", name), "tool_costs")
		}
		if usd < 0 {
			return q, perr.WithField(perr.InvalidArgf("tool cost for %s must not be negative", app), "tool_costs")
		}
		if q.toolCosts == nil {
			q.toolCosts = make(map[source.App]float64, len(in.ToolCosts))
		}
		q.toolCosts[app] = usd
	}
	return q, nil
}

// parseRange turns an optional date range into a validated window
func parseRange(r *domain.DateRange, field string) (*metrics.Window, error) {
	if r == nil {
		return nil, nil
	}
	start, err := ptime.ParseDate(r.Start)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "invalid %s start", field), field)
	}
	end, err := ptime.ParseDate(r.End)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "invalid %s end", field), field)
	}
	w := metrics.Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "invalid %s", field), field)
	}
	return &w, nil
}
