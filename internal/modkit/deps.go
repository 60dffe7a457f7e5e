// Package modkit provides module wiring and core deps
package modkit

import (
	"impactlog/internal/modkit/repokit"
	"impactlog/internal/platform/config"
	"impactlog/internal/platform/logger"
	"impactlog/internal/platform/telemetry"
)

// Deps holds core dependencies passed to modules
// the zero value is usable; PG and Metrics stay nil when not configured
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner   // nil unless a postgres store is open
	Metrics *telemetry.Metrics // nil records nothing
}
