// Package module wires impact into the API using modkit
package module

import (
	"impactlog/internal/core/rulepack"
	modkit "impactlog/internal/modkit"
	"impactlog/internal/modkit/httpkit"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
	"impactlog/internal/platform/net/middleware"
	impacthttp "impactlog/internal/services/impact/http"
	impactrepo "impactlog/internal/services/impact/repo"
	impactsvc "impactlog/internal/services/impact/service"
)

// Module serves /impact and exports Port to the other modules
type Module struct {
	modkit.Base
	svc   impactsvc.Service
	ports Port
}

// Open builds the catalog, rule pack and service described by o
// the API module and the report CLI share it
func Open(deps modkit.Deps, o Options) (*impactsvc.Svc, impactrepo.Catalog, error) {
	catalog, err := impactrepo.FromBaseURL(o.BaseURL, impactrepo.Options{
		Timeout: o.FetchTimeout,
		DB:      deps.PG,
	})
	if err != nil {
		return nil, nil, perr.WithOp(err, "impact: catalog")
	}

	pack, err := rulepack.LoadOverrides(o.RulesFile)
	if err != nil {
		return nil, nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "impact: load rules"), "RULES_FILE")
	}

	d, err := o.defaults()
	if err != nil {
		return nil, nil, err
	}

	svc := impactsvc.New(catalog, pack, d, impactsvc.WithMetrics(deps.Metrics))
	return svc, catalog, nil
}

// New constructs an impact module; overrides win over FromConfig(deps.Cfg)
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (modkit.Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("impact"),
		modkit.WithPrefix("/impact"),
		modkit.WithMiddlewares(middleware.AllowContentType("application/json")),
	}, opts...)...)

	o := FromConfig(deps.Cfg).merge(overrides)
	svc, catalog, err := Open(deps, o)
	if err != nil {
		return nil, err
	}

	m := &Module{svc: svc, ports: adaptImpactPort{svc: svc, catalog: catalog}}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { impacthttp.Register(r, m.svc) })

	logger.Named("impact").Info().
		Str("catalog", describe(catalog)).
		Str("rules", o.RulesFile).
		Str("bucket", o.Bucket).
		Msg("impact module ready")
	return m, nil
}

// describe names a catalog for logs without leaking credentials
func describe(c impactrepo.Catalog) string {
	switch v := c.(type) {
	case *impactrepo.Dir:
		return "dir:" + v.Root()
	case *impactrepo.HTTP:
		return "http:" + v.String()
	}
	return "postgres"
}
