package httpkit

import (
	"compress/flate"
	"time"

	"impactlog/internal/platform/net/middleware"
)

const defaultTimeout = 30 * time.Second

// StackOptions tunes the shared /api stack
type StackOptions struct {
	AccessLog   middleware.AccessLogOptions
	Timeout     time.Duration // per request, 30s when zero
	MaxInFlight int           // 0 is unlimited
	CORSOrigins []string      // empty refuses cross origin browsers
}

// Stack returns the middleware every versioned route runs behind.
// Order matters: ids first so the recoverer and access log can tag lines,
// the heartbeat before slash stripping and the timeout last.
func Stack(o StackOptions) Middlewares {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return Middlewares{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.Throttle(o.MaxInFlight),
		middleware.NoCache(),
		middleware.AccessLogZerolog(o.AccessLog),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
