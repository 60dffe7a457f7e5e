// Package repokit is the seam between SQL repositories and the store: the
// query surface they accept, binding to a pool or tx and tx hooks
package repokit

import (
	"context"
	"strconv"
	"time"

	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/store"
)

type (
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder produces a repo bound to q, which is either the pool or a live tx
type Binder[T any] interface {
	Bind(q Queryer) T
}

// RequireQueryer returns q and panics when it is nil
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

func MustBind[T any](b Binder[T], q Queryer) T { return b.Bind(RequireQueryer(q)) }

// WithTx runs fn in one transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error { return tx.Tx(ctx, fn) }

// Guarder is anything that can check its dependencies are reachable
type Guarder interface {
	Guard(ctx context.Context) error
}

// MustGuard panics when g is not ready; startup only
func MustGuard(ctx context.Context, g Guarder) {
	if err := g.Guard(ctx); err != nil {
		panic(perr.WithOp(err, "repokit: guard"))
	}
}

// BeginHook runs first inside every tx opened through WithBeginHooks
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns a TxRunner whose transactions run hooks, in order, before fn.
// Statements outside Tx go straight to inner.
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hooked{TxRunner: inner, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hook := range h.hooks {
			if err := hook(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// StatementTimeout sets a tx local statement_timeout of d; d under 1ms means none
func StatementTimeout(d time.Duration) BeginHook {
	stmt := "set local statement_timeout = " + strconv.FormatInt(max(d.Milliseconds(), 0), 10)
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, stmt)
		return err
	}
}
