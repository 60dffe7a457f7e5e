package module

import (
	"strconv"
	"time"

	"impactlog/internal/core/metrics"
	"impactlog/internal/core/source"
	"impactlog/internal/platform/config"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/services/impact/service"
)

// Options controls where exports come from and the default knobs
type Options struct {
	BaseURL      string
	FetchTimeout time.Duration
	RulesFile    string
	HourlyRate   float64
	ToolCosts    map[string]string // app=usd as read from config
	Bucket       string
}

// FromConfig reads with IMPACT_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("IMPACT_")
	return Options{
		BaseURL:      c.MayString("BASE_URL", "file://./data"),
		FetchTimeout: c.MayDuration("FETCH_TIMEOUT", 30*time.Second),
		RulesFile:    c.MayString("RULES_FILE", ""),
		HourlyRate:   c.MayFloat64("HOURLY_RATE", service.DefaultHourlyRate),
		ToolCosts:    c.MayKV("TOOL_COSTS", nil),
		Bucket:       c.MayEnum("BUCKET", "week", "day", "week", "daily", "weekly"),
	}
}

// merge applies non zero overrides over o
func (o Options) merge(over Options) Options {
	if over.BaseURL != "" {
		o.BaseURL = over.BaseURL
	}
	if over.FetchTimeout != 0 {
		o.FetchTimeout = over.FetchTimeout
	}
	if over.RulesFile != "" {
		o.RulesFile = over.RulesFile
	}
	if over.HourlyRate != 0 {
		o.HourlyRate = over.HourlyRate
	}
	if len(over.ToolCosts) > 0 {
		o.ToolCosts = over.ToolCosts
	}
	if over.Bucket != "" {
		o.Bucket = over.Bucket
	}
	return o
}

// defaults turns the raw knobs into service defaults
func (o Options) defaults() (service.Defaults, error) {
	d := service.Defaults{HourlyRate: o.HourlyRate}
	if o.HourlyRate < 0 {
		return d, perr.WithField(perr.InvalidArgf("impact: hourly rate must be positive"), "HOURLY_RATE")
	}

	b, err := metrics.ParseBucketing(o.Bucket)
	if err != nil {
		return d, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "impact: bucket"), "BUCKET")
	}
	d.Bucket = b

	if len(o.ToolCosts) > 0 {
		d.ToolCosts = make(map[source.App]float64, len(o.ToolCosts))
	}
	for name, raw := range o.ToolCosts {
		app, ok := source.ParseApp(name)
		if !ok {
			return d, perr.WithField(perr.InvalidArgf("impact: unknown app %q in tool costs", name), "TOOL_COSTS")
		}
		usd, err := strconv.ParseFloat(raw, 64)
		if err != nil || usd < 0 {
			return d, perr.WithField(perr.InvalidArgf("impact: tool cost for %s must be a non negative number, got %q", app, raw), "TOOL_COSTS")
		}
		d.ToolCosts[app] = usd
	}
	return d, nil
}
