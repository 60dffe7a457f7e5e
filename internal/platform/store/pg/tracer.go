package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"impactlog/internal/platform/logger"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement regardless of the process wide level
// failed statements log at error, slow ones at warn
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	switch {
	case ev.Err != nil:
		evt = z.log.Error()
	case ev.Slow:
		evt = z.log.Warn()
	}

	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", redact(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds whitespace runs so multi line sql logs on one line
func compact(s string) string { return strings.Join(strings.Fields(s), " ") }

// redact keeps export bodies out of the log
func redact(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if b, ok := a.([]byte); ok {
			out[i] = fmt.Sprintf("<%d bytes>", len(b))
			continue
		}
		out[i] = a
	}
	return out
}
