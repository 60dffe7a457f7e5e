package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/store/pg"
)

// pingTimer is nil in production; tests swap in an instant timer
var pingTimer backoff.Timer

// pingBackoff doubles from 150ms up to 2s and gives up after attempts pings or when ctx ends
func pingBackoff(ctx context.Context, attempts int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 150 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0.1
	b.MaxElapsedTime = 0
	b.Reset()
	if attempts <= 1 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}

// openPG opens the pool and waits until postgres answers
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "store: postgres config")
	}

	attempt := 0
	ping := func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, cfg.PG.pingTimeout())
		defer cancel()
		// the pool itself, so boot pings stay out of the sql trace
		err := p.Pool.Ping(pctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		s.Log.Debug().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("postgres not ready")
	}

	attempts := cfg.PG.retries()
	if err := backoff.RetryNotifyWithTimer(ping, pingBackoff(ctx, attempts), notify, pingTimer); err != nil {
		p.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "store: postgres ping failed after %d attempts", attempt)
	}
	return newPGAdapter(p), nil
}
