package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"impactlog/internal/platform/config"
	"impactlog/internal/platform/logger"
)

// ServerOptions holds the listener knobs
type ServerOptions struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownGrace     time.Duration // how long Run waits for in flight requests
}

// ServerOptionsFrom reads PORT, READ_HEADER_TIMEOUT, IDLE_TIMEOUT and SHUTDOWN_GRACE from cfg
func ServerOptionsFrom(cfg config.Conf) ServerOptions {
	return ServerOptions{
		Addr:              cfg.MayString("PORT", ":4000"),
		ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 2*time.Minute),
		ShutdownGrace:     cfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

// Server owns a chi mux and the http.Server in front of it
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer builds a server from o; setup hooks get the raw mux before any route is added
func NewServer(o ServerOptions, setup ...func(*chi.Mux)) *Server {
	if o.Addr == "" {
		o.Addr = ":4000"
	}
	if o.ShutdownGrace <= 0 {
		o.ShutdownGrace = 10 * time.Second
	}
	mux := chi.NewRouter()
	for _, fn := range setup {
		fn(mux)
	}
	return &Server{
		mux:   mux,
		grace: o.ShutdownGrace,
		srv: &stdhttp.Server{
			Addr:              o.Addr,
			Handler:           mux,
			ReadHeaderTimeout: o.ReadHeaderTimeout,
			IdleTimeout:       o.IdleTimeout,
		},
	}
}

// Router is the mount surface over the server's mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until the listener fails or ctx ends; on ctx end it drains for the shutdown grace
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		log.Info().Str("addr", s.srv.Addr).Msg("http listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, done := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
		defer done()
		if err := s.srv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
		return nil
	})
	return g.Wait()
}

// Shutdown stops accepting connections and waits for in flight requests until ctx ends
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
