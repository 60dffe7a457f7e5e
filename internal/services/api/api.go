// Package api provides the HTTP API for the application
package api

import (
	"time"

	"impactlog/internal/platform/config"
	"impactlog/internal/platform/logger"
	phttp "impactlog/internal/platform/net/http"
	"impactlog/internal/platform/net/middleware"
	"impactlog/internal/platform/store"
	"impactlog/internal/platform/telemetry"

	"impactlog/internal/modkit"
	"impactlog/internal/modkit/httpkit"
	"impactlog/internal/modkit/module"
	"impactlog/internal/modkit/swaggerkit"

	metamod "impactlog/internal/services/api/meta/module"
	impactmod "impactlog/internal/services/impact/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_ scope; the API reads API_* and modules their own prefix
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *telemetry.Metrics

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool

	// Impact overrides values read from CORE_IMPACT_*
	Impact impactmod.Options
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) error {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}

	deps := modkit.Deps{
		Log:     *log,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	impact, err := impactmod.New(deps, opt.Impact)
	if err != nil {
		return err
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(module.MustPortsOf[impactmod.Port](impact))),
		impact,
	}

	apiCfg := opt.Config.Prefix("API_")
	stack := httpkit.Stack(httpkit.StackOptions{
		AccessLog: middleware.AccessLogOptions{
			Slow:    time.Duration(apiCfg.MayInt("SLOW_MS", 2000)) * time.Millisecond,
			Observe: opt.Metrics.ObserveRequest,
		},
		Timeout:     apiCfg.MayDuration("TIMEOUT", 30*time.Second),
		MaxInFlight: apiCfg.MayInt("MAX_IN_FLIGHT", 0),
		CORSOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
	})

	// swagger, profiler and metrics sit outside the versioned stack
	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:     opt.EnableSwagger,
		TitleSuffix: apiCfg.MayString("DOCS_TITLE_SUFFIX", ""),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	phttp.MountMetrics(r, "/metrics", opt.Metrics.Handler(), opt.EnableMetrics && opt.Metrics != nil)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name for cross module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	log.Info().
		Bool("swagger", opt.EnableSwagger).
		Bool("profiler", opt.EnableProfiler).
		Bool("metrics", opt.EnableMetrics).
		Bool("postgres", deps.PG != nil).
		Msg("api mounted")
	return nil
}
