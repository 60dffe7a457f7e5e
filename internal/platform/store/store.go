// Package store opens the optional postgres backend and hides pgx behind
// the small row and tx interfaces repositories are written against
package store

import (
	"context"

	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/logger"
)

type (
	Row interface {
		Scan(dest ...any) error
	}

	Rows interface {
		Row
		Next() bool
		Err() error
		Close()
		Columns() []string
	}

	// CommandTag reports what an Exec did
	CommandTag interface {
		String() string
		RowsAffected() int64
	}

	// RowQuerier is satisfied by the pool adapter and by a live tx
	RowQuerier interface {
		Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) Row
	}

	// TxRunner is a RowQuerier that can also open a transaction; fn's error rolls it back
	TxRunner interface {
		RowQuerier
		Tx(ctx context.Context, fn func(q RowQuerier) error) error
	}

	Pinger interface{ Ping(context.Context) error }
)

// Store holds whichever backends Open enabled. A nil or zero Store is inert.
type Store struct {
	Log logger.Logger
	PG  TxRunner // nil unless postgres is enabled
}

// Open applies opts then brings up every backend enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := new(Store)
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	if !cfg.PG.Enabled {
		return s, nil
	}
	db, err := openPG(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.PG = db
	s.Log.Info().
		Str("app", cfg.AppName).
		Int32("max_conns", cfg.PG.MaxConns).
		Bool("log_sql", cfg.PG.LogSQL).
		Msg("postgres ready")
	return s, nil
}

// Guard fails unless every enabled backend answers a ping
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return perr.Unavailablef("store: not opened")
	}
	p, ok := s.PG.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return perr.FromPostgres(err, "store: postgres ping")
	}
	return nil
}

// Close releases the pool; safe on a nil Store
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
