// Package middleware adapts chi and go-chi/cors middlewares to plain net/http signatures
package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
	"github.com/google/uuid"

	pnet "impactlog/internal/platform/net"
)

// Func is the middleware shape every constructor here returns
type Func = func(http.Handler) http.Handler

const maxRequestIDLen = 128

// RequestID keeps a sane inbound X-Request-ID or mints a uuid, stores it and echoes it back
func RequestID() Func {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(chimw.RequestIDHeader))
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(chimw.RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(pnet.WithRequest(r.Context(), id)))
		})
	}
}

// RealIP trusts X-Forwarded-For and X-Real-IP
func RealIP() Func { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Func { return chimw.Timeout(d) }

func NoCache() Func { return chimw.NoCache }

// Compress gzips or deflates compressible responses at level
func Compress(level int) Func { return chimw.NewCompressor(level).Handler }

func StripSlashes() Func { return chimw.StripSlashes }

// AllowContentType answers 415 to bodies whose Content-Type is not listed
func AllowContentType(ct ...string) Func { return chimw.AllowContentType(ct...) }

// Throttle caps in flight requests at limit; limit <= 0 is a no-op
func Throttle(limit int) Func {
	if limit > 0 {
		return chimw.Throttle(limit)
	}
	return func(next http.Handler) http.Handler { return next }
}

// Heartbeat short circuits GET/HEAD path with 200 "."
func Heartbeat(path string) Func { return chimw.Heartbeat(path) }

// CORSOptions narrows go-chi/cors to what the read only API needs
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string // default GET, POST, OPTIONS
	AllowedHeaders []string // default Accept, Content-Type, X-Request-ID
	MaxAge         int
}

// CORS builds a go-chi/cors handler; no origins means no cross origin access
func CORS(o CORSOptions) Func {
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = []string{"Accept", "Content-Type", chimw.RequestIDHeader}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: o.AllowedMethods,
		AllowedHeaders: o.AllowedHeaders,
		ExposedHeaders: []string{chimw.RequestIDHeader},
		MaxAge:         o.MaxAge,
	})
}
