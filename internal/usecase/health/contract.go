package health

import "context"

// CachePinger checks cache backend availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks availability of an external data service.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
