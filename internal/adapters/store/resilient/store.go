// Package resilient decorates a Repository with a circuit breaker, optional
// rate limiting and read retries.
//
// Call order for every method:
//
//	Circuit Breaker → Rate Limiter → (Retry, Load only) → Repository
//
// Domain outcomes never trip the breaker: a version conflict travels in the
// Result value, and domain.ErrNotFound / domain.ErrConflict count as
// successful calls. Only infrastructure failures are counted. While the
// breaker is open, calls fail fast with an error matching
// domain.ErrUnavailable.
//
// Writes are not retried. A TryCommit whose reply was lost may have been
// applied; the caller sees the next attempt as a version conflict and reloads.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/config"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/telemetry"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

// retryConfig holds the retry policy values extracted from config.RetryConfig
// so the config package does not leak through the API.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Operation results recorded on store metrics.
const (
	resultSuccess     = "success"
	resultError       = "error"
	resultCircuitOpen = "circuit_open"
)

// Store wraps a Repository with fault-tolerance policies.
type Store[S comparable] struct {
	next     ports.Repository[S]
	name     string
	breaker  *gobreaker.CircuitBreaker[struct{}]
	limiter  *rate.Limiter // nil when rate limiting is disabled
	retryCfg retryConfig
	metrics  *telemetry.Metrics
}

// Compile-time interface checks.
var (
	_ ports.Repository[string] = (*Store[string])(nil)
	_ ports.HealthChecker      = (*Store[string])(nil)
)

// New wraps next. The name identifies the store in logs, metrics and health
// reports (e.g., "store"). If metrics is nil, metric recording is skipped.
func New[S comparable](
	next ports.Repository[S],
	cfg *config.StoreConfig,
	name string,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *Store[S] {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Store[S]{
		next:    next,
		name:    name,
		breaker: cb,
		limiter: limiter,
		metrics: metrics,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
	}
}

// isSuccessful reports whether err should count as a success for the breaker.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, context.Canceled)
}

// Load implements ports.Repository.
func (s *Store[S]) Load(ctx context.Context, id fsm.EntityID) (option.Option[fsm.Entity[S]], error) {
	var out option.Option[fsm.Entity[S]]
	err := s.execute(ctx, "Load", func() error {
		return s.withRetry(ctx, "Load", func() error {
			var err error
			out, err = s.next.Load(ctx, id)
			return err
		})
	})
	return out, err
}

// Insert implements ports.Repository.
func (s *Store[S]) Insert(ctx context.Context, entity fsm.Entity[S]) error {
	return s.execute(ctx, "Insert", func() error {
		return s.next.Insert(ctx, entity)
	})
}

// TryCommit implements ports.Repository.
func (s *Store[S]) TryCommit(
	ctx context.Context,
	id fsm.EntityID,
	expectedVersion uint64,
	newState S,
	record fsm.TransitionRecord[S],
) (result.Result[fsm.Entity[S], fsm.VersionConflict], error) {
	var out result.Result[fsm.Entity[S], fsm.VersionConflict]
	err := s.execute(ctx, "TryCommit", func() error {
		var err error
		out, err = s.next.TryCommit(ctx, id, expectedVersion, newState, record)
		return err
	})
	return out, err
}

// Name returns the store identifier.
func (s *Store[S]) Name() string {
	return s.name
}

// HealthCheck reports the breaker state. While the breaker is closed it
// delegates to the wrapped store if that store can check its own health.
//
// State mapping:
//   - "closed": healthy unless the wrapped store reports otherwise.
//   - "half-open": probing recovery; wraps ports.ErrDegraded.
//   - "open": calls are being rejected; reported as failing.
func (s *Store[S]) HealthCheck(ctx context.Context) error {
	state := s.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		if hc, ok := s.next.(ports.HealthChecker); ok {
			return hc.HealthCheck(ctx)
		}
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: %w (circuit breaker half-open)", s.name, ports.ErrDegraded)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", s.name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", s.name, state)
	}
}

// execute runs fn through the breaker and the rate limiter and records the
// operation's metrics.
func (s *Store[S]) execute(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	_, err := s.breaker.Execute(func() (struct{}, error) {
		if err := s.waitForRateLimit(ctx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, fn()
	})

	open := errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
	s.recordMetrics(ctx, op, start, err, open)

	if open {
		return fmt.Errorf("%s: %w: %w", s.name, domain.ErrUnavailable, err)
	}
	return err
}

// recordMetrics records operation duration and count. Metrics are recorded
// outside the breaker so that rejected calls are captured. Domain outcomes
// count as successes, matching the breaker. Safe to call with nil metrics.
func (s *Store[S]) recordMetrics(ctx context.Context, op string, start time.Time, err error, open bool) {
	if s.metrics == nil {
		return
	}

	res := resultSuccess
	switch {
	case open:
		res = resultCircuitOpen
	case !isSuccessful(err):
		res = resultError
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStore.String(s.name),
		telemetry.AttrOperation.String(op),
		telemetry.AttrResult.String(res),
	)

	s.metrics.StoreOpDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOpTotal.Add(ctx, 1, attrs)
}

// waitForRateLimit blocks until the rate limiter allows the call or the
// context is canceled. Returns nil immediately when rate limiting is disabled.
func (s *Store[S]) waitForRateLimit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// toUint32 converts a non-negative int to uint32, clamping at the bounds.
func toUint32(n int) uint32 {
	if n <= 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
