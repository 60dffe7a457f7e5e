// Package domain holds DTOs for impact http and service contracts
package domain

import (
	"impactlog/internal/core/metrics"
	"impactlog/internal/core/rulepack"
	"impactlog/internal/core/source"
)

// DateRange is a half open window of calendar days (2006-01-02), end exclusive
// dates are checked by the service so every malformed range maps to one error
type DateRange struct {
	Start string `json:"start" example:"2025-01-06"`
	End   string `json:"end"   example:"2025-02-03"`
}

// MetricsInput is the input for computing project metrics
type MetricsInput struct {
	Project    string             `json:"project"               validate:"required,min=1,max=200"               example:"acme"`
	Range      *DateRange         `json:"range,omitempty"`
	Compare    *DateRange         `json:"compare,omitempty"`
	Bucket     string             `json:"bucket,omitempty"      validate:"omitempty,oneof=day week daily weekly" example:"week"`
	HourlyRate float64            `json:"hourly_rate,omitempty" validate:"omitempty,gt=0,lte=100000"             example:"50"`
	ToolCosts  map[string]float64 `json:"tool_costs,omitempty"  validate:"omitempty,dive,keys,app,endkeys,gte=0"`
}

// ProjectsResponse lists the known projects
type ProjectsResponse struct {
	Projects []string `json:"projects"`
}

// SourceReport describes what one source contributed to a metrics run
// Events + Dropped equals Rows when the source is available
type SourceReport struct {
	Available         bool           `json:"available"`
	Rows              int            `json:"rows"`
	Events            int            `json:"events"`
	Dropped           int            `json:"dropped"`
	DropReasons       map[string]int `json:"drop_reasons,omitempty"`
	UnavailableReason string         `json:"unavailable_reason,omitempty" example:"missing"`
}

// MetricsResponse is the computed impact of automation for one project
type MetricsResponse struct {
	Project string          `json:"project"           example:"acme"`
	Range   *metrics.Window `json:"range,omitempty"`
	Bucket  string          `json:"bucket"            example:"week"`
	Events  int             `json:"events"            example:"412"`

	AutomationCoveragePct float64                         `json:"automation_coverage_pct" example:"37.5"`
	TotalAutomations      int                             `json:"total_automations"       example:"154"`
	AutomationsInRange    int                             `json:"automations_in_range"    example:"61"`
	TimeSavedHours        float64                         `json:"time_saved_hours"        example:"61.25"`
	TimeSavedHoursByApp   map[source.App]float64          `json:"time_saved_hours_by_app"`
	HourlyRateUSD         float64                         `json:"hourly_rate_usd"         example:"50"`
	CostSavedUSD          float64                         `json:"cost_saved_usd"          example:"3062.5"`
	ReturnsByApp          map[source.App]metrics.Return   `json:"returns_by_app"`
	TotalReturnsUSD       float64                         `json:"total_returns_usd"       example:"2862.5"`
	GrowthTrend           []metrics.TrendPoint            `json:"growth_trend"`
	ManualVsAutomated     map[source.App]metrics.AppSplit `json:"manual_vs_automated_by_app"`

	Compare             *metrics.Window `json:"compare,omitempty"`
	PreviousCoveragePct *float64        `json:"previous_coverage_pct,omitempty" example:"31.0"`
	CoverageDeltaPct    *float64        `json:"coverage_delta_pct,omitempty"    example:"6.5"`

	Ingest      map[source.App]SourceReport `json:"ingest"`
	RulesOrigin string                      `json:"rules_origin" example:"embedded"`
}

// RulesResponse is the active rule pack, exposed for audit
type RulesResponse = rulepack.Pack
