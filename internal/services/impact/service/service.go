// Package service contains the impact workflows: project listing, rule audit and
// the project aggregator that turns raw exports into a metrics response
package service

import (
	"context"
	"maps"

	"impactlog/internal/core/metrics"
	"impactlog/internal/core/rulepack"
	"impactlog/internal/core/source"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
	"impactlog/internal/platform/telemetry"
	"impactlog/internal/services/impact/domain"
	"impactlog/internal/services/impact/repo"
)

// Service defines the service contract for impact
type Service interface{ domain.ServicePort }

// Defaults are applied when a request leaves a knob unset
type Defaults struct {
	HourlyRate float64
	ToolCosts  map[source.App]float64
	Bucket     metrics.Bucketing
}

// DefaultHourlyRate is the USD rate used when neither config nor request sets one
const DefaultHourlyRate = 50.0

// Svc implements the Service interface
type Svc struct {
	catalog  repo.Catalog
	pack     *rulepack.Pack
	defaults Defaults
	metrics  *telemetry.Metrics
	log      logger.Logger
}

// Option configures Svc
type Option func(*Svc)

// WithMetrics records drop and availability counters on m
func WithMetrics(m *telemetry.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// WithLogger replaces the component logger
func WithLogger(l logger.Logger) Option { return func(s *Svc) { s.log = l } }

// New creates a new impact service
func New(catalog repo.Catalog, pack *rulepack.Pack, d Defaults, opts ...Option) *Svc {
	if catalog == nil {
		panic("impact.Service requires a non nil Catalog")
	}
	if pack == nil {
		panic("impact.Service requires a non nil rule pack")
	}
	if d.HourlyRate <= 0 {
		d.HourlyRate = DefaultHourlyRate
	}
	d.ToolCosts = maps.Clone(d.ToolCosts)

	s := &Svc{
		catalog:  catalog,
		pack:     pack,
		defaults: d,
		log:      *logger.Named("impact"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Projects lists the ids the catalog knows
func (s *Svc) Projects(ctx context.Context) (domain.ProjectsResponse, error) {
	ids, err := s.catalog.Projects(ctx)
	if err != nil {
		return domain.ProjectsResponse{}, unavailable(err, "list projects")
	}
	if ids == nil {
		ids = []string{}
	}
	return domain.ProjectsResponse{Projects: ids}, nil
}

// Rules returns the active rule pack
func (s *Svc) Rules(context.Context) (*domain.RulesResponse, error) {
	return s.pack, nil
}

// unavailable keeps perr codes from the catalog and maps anything else to 503
func unavailable(err error, op string) error {
	if _, ok := perr.As(err); ok {
		return perr.WithOp(err, op)
	}
	return perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnavailable, "catalog unavailable"), op)
}
