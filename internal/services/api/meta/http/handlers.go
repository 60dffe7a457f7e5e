// Package http serves /meta: liveness, readiness, build and uptime
package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"impactlog/internal/core/version"
	"impactlog/internal/modkit/httpkit"
	phttp "impactlog/internal/platform/net/http"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
// PG and Catalog are probed by /ready when they implement Pinger
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	Catalog     any

	// ReadyTimeout bounds all probes together, 2s when zero
	ReadyTimeout time.Duration
}

// check statuses
const (
	statusOK      = "ok"
	statusFail    = "fail"
	statusSkipped = "skipped"
	statusUnknown = "unknown"
)

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"impactlog-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name   string `json:"name"            example:"catalog"`
	Status string `json:"status"          example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"repo: list ./data: no such file or directory"`
}

// ReadyResponse is ok, degraded when a dependency cannot be probed, or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"impactlog-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

type handlers struct{ deps Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Started: stamp(h.deps.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness of the export catalog and the optional store
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok or degraded"
// @Failure 503 {object} ReadyResponse "a dependency failed"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	checks := []ReadyCheck{{Name: "pg"}, {Name: "catalog"}}
	targets := []any{h.deps.PG, h.deps.Catalog}

	var g errgroup.Group
	for i := range checks {
		g.Go(func() error {
			checks[i].Status, checks[i].Error = probe(ctx, targets[i])
			return nil
		})
	}
	_ = g.Wait()

	// pg is skipped whenever exports are not stored in postgres
	res := ReadyResponse{Status: statusOK, Checks: checks, Now: stamp(time.Now())}
	for _, c := range checks {
		switch {
		case c.Status == statusFail:
			res.Status = statusFail
		case c.Status == statusUnknown && res.Status == statusOK:
			res.Status = "degraded"
		}
	}
	if res.Status == statusFail {
		return phttp.Response{Status: http.StatusServiceUnavailable, Body: res}, nil
	}
	return res, nil
}

func probe(ctx context.Context, target any) (status, msg string) {
	if target == nil {
		return statusSkipped, ""
	}
	p, ok := target.(Pinger)
	if !ok {
		return statusUnknown, ""
	}
	if err := p.Ping(ctx); err != nil {
		return statusFail, err.Error()
	}
	return statusOK, ""
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) { return version.Info(), nil }

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: stamp(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}
