package ports

import (
	"context"
	"errors"
)

// ErrDegraded marks a health check failure that still leaves the component
// serving, such as a store whose circuit breaker is probing recovery.
// Readiness reports it but does not take the service out of rotation.
var ErrDegraded = errors.New("degraded")

// HealthChecker is implemented by any component that can report its health.
type HealthChecker interface {
	// Name returns a human-readable identifier for this component
	// (e.g., "store").
	Name() string

	// HealthCheck returns nil if healthy, an error wrapping ErrDegraded if
	// impaired but serving, or any other error if failing.
	// Implementations should respect context cancellation and deadlines.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry manages registration and execution of health checkers.
// Used by the readiness endpoint handler to determine service readiness.
type HealthRegistry interface {
	// Register adds a HealthChecker to the registry.
	Register(checker HealthChecker)

	// CheckAll executes all registered health checks and returns results
	// keyed by checker name. Nil values indicate healthy components.
	CheckAll(ctx context.Context) map[string]error
}
