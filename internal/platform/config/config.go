// Package config reads settings from prefixed environment variables
// CORE_ holds the api and impact knobs, SERVICE_PGSQL_ the optional store
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"impactlog/internal/platform/logger"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the root view
func New() Conf { return Conf{} }

// Prefix narrows the view, e.g. root.Prefix("CORE_").Prefix("API_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key is the full variable name for key under this view
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) get(key string) string { return strings.TrimSpace(os.Getenv(c.Key(key))) }

// may parses key with parse, falling back to def when unset or unparsable
// unparsable values are logged so a typo does not pass silently
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.get(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.Key(key)).Str("value", s).Interface("default", def).Msg("invalid config value, using default")
		return def
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(key, def string) string {
	return may(c, key, def, func(s string) (string, error) { return s, nil })
}

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool accepts anything strconv.ParseBool does
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration takes Go durations like 250ms or 30s
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.get(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayKV parses "Zapier=20,Jira=7.5"; entries without a key are logged and skipped
func (c Conf) MayKV(key string, def map[string]string) map[string]string {
	out := map[string]string{}
	for _, p := range c.MayCSV(key, nil) {
		k, v, ok := strings.Cut(p, "=")
		if k = strings.TrimSpace(k); !ok || k == "" {
			logger.Get().Warn().Str("key", c.Key(key)).Str("entry", p).Msg("invalid key=value entry, skipping")
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it is one of allowed, case insensitive, or def when unset
// anything else panics; a wrong enum is a deploy mistake worth stopping for
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
