// Package logger wraps zerolog with a lazily built process logger and
// helpers that carry request and project ids through a context
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"impactlog/internal/platform/config/raw"
)

// Logger is the logging type handed around the codebase
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string // zerolog level name, unknown names mean debug
	Format      string // console or json
	Service     string
	Component   string
	Writer      io.Writer // stdout when nil
	WithCaller  bool
	SampleEvery int // keep one event in N when above 1

	StaticFields map[string]string
}

// FromEnv reads LOG_* without going through config, which logs itself
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:        rc.Get("LEVEL", "info"),
		Format:       strings.ToLower(rc.Get("FORMAT", "console")),
		Service:      rc.Get("SERVICE", ""),
		Component:    rc.Get("COMPONENT", ""),
		WithCaller:   rc.GetBool("CALLER", false),
		SampleEvery:  rc.GetInt("SAMPLE_EVERY", 0),
		StaticFields: rc.GetFields("FIELDS"),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init builds the root logger from opt; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

func build(opt Options) Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lc := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		lc = lc.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		lc = lc.Str("service", opt.Service)
	}
	if opt.Component != "" {
		lc = lc.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		lc = lc.Str(k, v)
	}
	if opt.WithCaller {
		lc = lc.Caller()
	}

	l := lc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyProject
)

// WithRequest annotates ctx with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithProject annotates ctx with the project being aggregated
func WithProject(ctx context.Context, project string) context.Context {
	if project == "" {
		return ctx
	}
	return context.WithValue(ctx, keyProject, project)
}

// C returns the root logger with request_id and project from ctx
// the request id falls back to the one chi's RequestID middleware stored
func C(ctx context.Context) *Logger {
	lc := Get().With()
	reqID, _ := ctx.Value(keyRequestID).(string)
	if reqID == "" {
		reqID = chimw.GetReqID(ctx)
	}
	if reqID != "" {
		lc = lc.Str("request_id", reqID)
	}
	if p, _ := ctx.Value(keyProject).(string); p != "" {
		lc = lc.Str("project", p)
	}
	l := lc.Logger()
	return &l
}

// Named returns the root logger tagged with a component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
