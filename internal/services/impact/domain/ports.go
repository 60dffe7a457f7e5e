package domain

import "context"

// ServicePort defines the service contract for impact
type ServicePort interface {
	Projects(ctx context.Context) (ProjectsResponse, error)
	Metrics(ctx context.Context, in MetricsInput) (MetricsResponse, error)
	Rules(ctx context.Context) (*RulesResponse, error)
}
