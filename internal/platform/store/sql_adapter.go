package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"impactlog/internal/platform/store/pg"
)

// pgxQuerier is what pgxpool.Pool and pgx.Tx have in common
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced is a RowQuerier over pgx that reports each statement to an optional tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slow   time.Duration
}

// observe starts the clock for one statement; call the result with its error
func (t traced) observe(ctx context.Context, sql string, args []any) func(error) {
	if t.tracer == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		took := time.Since(start)
		t.tracer.OnQuery(ctx, pg.QueryEvent{
			SQL:       sql,
			Args:      args,
			ElapsedUS: took.Microseconds(),
			Err:       err,
			Slow:      t.slow > 0 && took >= t.slow,
		})
	}
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	done := t.observe(ctx, sql, args)
	ct, err := t.q.Exec(ctx, sql, args...)
	done(err)
	return ct, err
}

// Query times until the first result, scanning is not included
func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	done := t.observe(ctx, sql, args)
	rs, err := t.q.Query(ctx, sql, args...)
	done(err)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

// QueryRow reports when Scan returns, so no-rows and scan errors are traced
func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return scanHook{Row: t.q.QueryRow(ctx, sql, args...), done: t.observe(ctx, sql, args)}
}

// pgAdapter is the pool side TxRunner the store hands out
type pgAdapter struct {
	traced
	db *pg.PG
}

func newPGAdapter(db *pg.PG) *pgAdapter {
	return &pgAdapter{
		traced: traced{q: db.Pool, tracer: db.Tracer, slow: time.Duration(db.SlowMs) * time.Millisecond},
		db:     db,
	}
}

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return errors.New("pg: adapter not opened")
	}
	var one int
	return a.QueryRow(ctx, "select 1").Scan(&one)
}

func (a *pgAdapter) Close() error {
	a.db.Close()
	return nil
}

func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	return runTx(ctx, tx, traced{q: tx, tracer: a.tracer, slow: a.slow}, fn)
}

// runTx commits when fn returns nil and rolls back on an error or a panic
func runTx(ctx context.Context, tx pgx.Tx, q RowQuerier, fn func(q RowQuerier) error) (err error) {
	committed := false
	defer func() {
		if committed {
			return
		}
		if r := recover(); r != nil {
			err = fmt.Errorf("pg: tx panic: %v", r)
		}
		if rb := tx.Rollback(ctx); rb != nil && !errors.Is(rb, pgx.ErrTxClosed) {
			err = errors.Join(err, rb)
		}
	}()
	if err = fn(q); err != nil {
		return err
	}
	committed = true
	return tx.Commit(ctx)
}

type scanHook struct {
	pgx.Row
	done func(error)
}

func (s scanHook) Scan(dst ...any) error {
	err := s.Row.Scan(dst...)
	s.done(err)
	return err
}

// pgxRows narrows pgx.Rows to Rows
type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	names := make([]string, 0, len(fds))
	for _, fd := range fds {
		names = append(names, fd.Name)
	}
	return names
}
