package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"impactlog/internal/platform/logger"
)

// Observer is told about every finished request, e.g. to feed a histogram
type Observer func(method string, status int, elapsed time.Duration)

// AccessLogOptions configures AccessLogZerolog
type AccessLogOptions struct {
	Slow    time.Duration // at or above this a request logs at warn; 0 never
	Observe Observer
}

// AccessLogZerolog writes one line per request through the request scoped logger
func AccessLogZerolog(opt AccessLogOptions) Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log := logger.C(r.Context())
			lvl := zerolog.InfoLevel
			if opt.Slow > 0 && elapsed >= opt.Slow {
				lvl = zerolog.WarnLevel
			}
			evt := log.WithLevel(lvl).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed)
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				evt = evt.Str("route", rc.RoutePattern())
			}
			evt.Msg("request done")

			if opt.Observe != nil {
				opt.Observe(r.Method, status, elapsed)
			}
		})
	}
}
