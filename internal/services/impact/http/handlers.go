// Package http provides http transport for impact
package http

import (
	stdhttp "net/http"

	"impactlog/internal/core/source"
	"impactlog/internal/modkit/httpkit"
	"impactlog/internal/platform/net/http/bind"
	"impactlog/internal/services/impact/domain"
	svc "impactlog/internal/services/impact/service"
)

func init() {
	// tool_costs keys must name a source app
	_ = bind.RegisterTag("app", "must name a known app", func(fl bind.FieldLevel) bool {
		_, ok := source.ParseApp(fl.Field().String())
		return ok
	})
}

// Register mounts impact endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/projects", h.projects)
	httpkit.PostJSON[domain.MetricsInput](r, "/metrics", h.metrics)
	httpkit.Get(r, "/rules", h.rules)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /impact/projects Impact impactProjects
// @Summary List projects with exports
// @Tags Impact
// @Produce json
// @Success 200 {object} domain.ProjectsResponse "ok"
// @Failure 503 {object} httpkit.Envelope "catalog unavailable"
// @Router /impact/projects [get]
func (h *handlers) projects(r *stdhttp.Request) (any, error) {
	return h.svc.Projects(r.Context())
}

// swagger:route POST /impact/metrics Impact impactMetrics
// @Summary Compute automation impact for one project
// @Description Merges the project's Asana, Jira, Zapier, HubSpot and Microsoft 365 exports
// @Description into one event log and aggregates coverage, time saved, returns and trend
// @Tags Impact
// @Accept json
// @Produce json
// @Param payload body domain.MetricsInput true "Query"
// @Success 200 {object} domain.MetricsResponse "ok"
// @Failure 400 {object} httpkit.Envelope "malformed body"
// @Failure 404 {object} httpkit.Envelope "project not found"
// @Failure 422 {object} httpkit.Envelope "invalid range"
// @Failure 503 {object} httpkit.Envelope "catalog unavailable"
// @Router /impact/metrics [post]
func (h *handlers) metrics(r *stdhttp.Request, in domain.MetricsInput) (any, error) {
	return h.svc.Metrics(r.Context(), in)
}

// swagger:route GET /impact/rules Impact impactRules
// @Summary Active classification rules and heuristic hours
// @Tags Impact
// @Produce json
// @Success 200 {object} domain.RulesResponse "ok"
// @Router /impact/rules [get]
func (h *handlers) rules(r *stdhttp.Request) (any, error) {
	return h.svc.Rules(r.Context())
}
