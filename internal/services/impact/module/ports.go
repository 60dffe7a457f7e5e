package module

import (
	"context"

	impactdom "impactlog/internal/services/impact/domain"
	impactrepo "impactlog/internal/services/impact/repo"
	impactsvc "impactlog/internal/services/impact/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Port is what impact exposes to other modules
// Ping lets readiness probe the catalog without computing metrics
type Port interface {
	impactdom.ServicePort
	Ping(ctx context.Context) error
}

// adaptImpactPort adapts the impact service to the domain port interface
type adaptImpactPort struct {
	svc     impactsvc.Service
	catalog impactrepo.Catalog
}

// Projects implements the domain ServicePort interface
func (a adaptImpactPort) Projects(ctx context.Context) (impactdom.ProjectsResponse, error) {
	return a.svc.Projects(ctx)
}

// Metrics implements the domain ServicePort interface
func (a adaptImpactPort) Metrics(ctx context.Context, in impactdom.MetricsInput) (impactdom.MetricsResponse, error) {
	return a.svc.Metrics(ctx, in)
}

// Rules implements the domain ServicePort interface
func (a adaptImpactPort) Rules(ctx context.Context) (*impactdom.RulesResponse, error) {
	return a.svc.Rules(ctx)
}

// Ping lists projects and discards them
func (a adaptImpactPort) Ping(ctx context.Context) error {
	_, err := a.catalog.Projects(ctx)
	return err
}
