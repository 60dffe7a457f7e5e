package metrics

import (
	"impactlog/internal/core/source"
)

// Return is the estimated return for one app
// without a tool cost the net equals the cost saved and ToolCostApplied is false
type Return struct {
	CostSavedUSD    float64  `json:"cost_saved_usd"`
	ToolCostUSD     *float64 `json:"tool_cost_usd,omitempty"`
	NetUSD          float64  `json:"net_usd"`
	ToolCostApplied bool     `json:"tool_cost_applied"`
}

// CostSavedUSD is hours times the configured hourly rate
func CostSavedUSD(hours, hourlyRate float64) float64 {
	return finite(hours * hourlyRate)
}

// ReturnsByApp prices hoursByApp at hourlyRate and subtracts the tool cost of each
// app that has one, every app present
func ReturnsByApp(hoursByApp map[source.App]float64, hourlyRate float64, toolCosts map[source.App]float64) map[source.App]Return {
	out := source.Keyed[Return]()
	for _, a := range source.Apps() {
		saved := CostSavedUSD(hoursByApp[a], hourlyRate)
		r := Return{CostSavedUSD: saved, NetUSD: saved}
		if c, ok := toolCosts[a]; ok {
			r.ToolCostUSD = &c
			r.NetUSD = finite(saved - c)
			r.ToolCostApplied = true
		}
		out[a] = r
	}
	return out
}

// TotalReturnsUSD sums the net return across apps
func TotalReturnsUSD(returns map[source.App]Return) float64 {
	sum := 0.0
	for _, a := range source.Apps() {
		sum += returns[a].NetUSD
	}
	return finite(sum)
}
