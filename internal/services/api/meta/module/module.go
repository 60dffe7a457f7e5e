// Package module mounts the meta endpoints; readiness probes whatever
// catalog port the caller hands in with modkit.WithPorts
package module

import (
	"time"

	modkit "impactlog/internal/modkit"
	"impactlog/internal/modkit/httpkit"
	metahttp "impactlog/internal/services/api/meta/http"
)

// ServiceName is reported by /meta/health and /meta/service
const ServiceName = "impactlog-api"

// Module serves /meta; it exports no ports of its own
type Module struct {
	modkit.Base
}

// New builds the meta module; ReadyTimeout comes from CORE_META_READY_TIMEOUT
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{
		ServiceName:  ServiceName,
		StartedAt:    time.Now(),
		PG:           deps.PG,
		Catalog:      b.Ports,
		ReadyTimeout: deps.Cfg.Prefix("META_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	return &Module{Base: modkit.NewBase(b, func(r httpkit.Router) { metahttp.Register(r, d) })}
}

func (m *Module) Ports() any { return nil }
