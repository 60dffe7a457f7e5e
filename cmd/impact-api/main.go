// Command impact-api serves automation impact metrics over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"impactlog/internal/modkit/repokit"
	"impactlog/internal/platform/config"
	"impactlog/internal/platform/logger"
	phttp "impactlog/internal/platform/net/http"
	"impactlog/internal/platform/store"
	"impactlog/internal/platform/telemetry"

	"impactlog/internal/services/api"
	impactmod "impactlog/internal/services/impact/module"
	impactrepo "impactlog/internal/services/impact/repo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	coreCfg := root.Prefix("CORE_")
	apiCfg := coreCfg.Prefix("API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	l := logger.Get()

	// postgres only comes up when exports are read from it
	baseURL := impactmod.FromConfig(coreCfg).BaseURL
	st, err := store.Open(ctx,
		store.Config{
			AppName: "impact-api",
			PG:      pgConfig(pgCfg, baseURL),
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	if st.PG != nil {
		repokit.MustGuard(ctx, st)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT and friends)
	srv := phttp.NewServer(phttp.ServerOptionsFrom(apiCfg))

	if err := api.Mount(srv.Router(), api.Options{
		Config:         coreCfg,
		Store:          st,
		Logger:         l,
		Metrics:        telemetry.New(),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	}); err != nil {
		l.Fatal().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
	l.Info().Msg("bye")
}

// pgConfig enables the store only for a postgres base url
func pgConfig(cfg config.Conf, baseURL string) store.PGConfig {
	if !impactrepo.IsPostgres(baseURL) {
		return store.PGConfig{}
	}
	return store.PGConfigFrom(cfg, baseURL, 4)
}
