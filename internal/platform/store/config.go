package store

import (
	"time"

	"impactlog/internal/platform/config"
	"impactlog/internal/platform/logger"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName is reported to postgres as application_name
	AppName string

	PG PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int // 0 disables the slow flag

	ConnectRetries int           // ping attempts before Open gives up, default 3
	PingTimeout    time.Duration // per attempt, default 3s
}

func (c PGConfig) retries() int {
	if c.ConnectRetries <= 0 {
		return defaultConnectRetries
	}
	return c.ConnectRetries
}

const defaultConnectRetries = 3

// PGConfigFrom reads pool settings from cfg, usually the SERVICE_PGSQL_ scope
// maxConns is the pool size when MAX_CONNS is unset
func PGConfigFrom(cfg config.Conf, url string, maxConns int) PGConfig {
	return PGConfig{
		Enabled:        url != "",
		URL:            url,
		MaxConns:       int32(cfg.MayInt("MAX_CONNS", maxConns)),
		SlowQueryMs:    cfg.MayInt("SLOW_MS", 500),
		LogSQL:         cfg.MayBool("LOG_SQL", false),
		ConnectRetries: cfg.MayInt("CONNECT_RETRIES", defaultConnectRetries),
		PingTimeout:    cfg.MayDuration("PING_TIMEOUT", 3*time.Second),
	}
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 3 * time.Second
	}
	return c.PingTimeout
}

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
