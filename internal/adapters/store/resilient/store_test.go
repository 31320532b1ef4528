package resilient_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/memory"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/resilient"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/storetest"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/config"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/telemetry"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

var errBackend = errors.New("backend unreachable")

func testConfig() *config.StoreConfig {
	return &config.StoreConfig{
		Driver: config.DriverMemory,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// flakyRepo fails Load with errBackend while failLoads is positive and
// counts every call that reaches it.
type flakyRepo struct {
	ports.OrderRepository
	failLoads atomic.Int32
	calls     atomic.Int32
}

func (f *flakyRepo) Load(ctx context.Context, id fsm.EntityID) (option.Option[order.Order], error) {
	f.calls.Add(1)
	if f.failLoads.Add(-1) >= 0 {
		return option.None[order.Order](), errBackend
	}
	return f.OrderRepository.Load(ctx, id)
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(_ *testing.T) ports.OrderRepository {
		return resilient.New[order.Status](memory.New[order.Status](), testConfig(), "store", nil, testLogger())
	})
}

func TestStore_LoadRetriesInfrastructureErrors(t *testing.T) {
	t.Parallel()

	inner := memory.New[order.Status]()
	o := order.New()
	if err := inner.Insert(context.Background(), o); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	flaky := &flakyRepo{OrderRepository: inner}
	flaky.failLoads.Store(2)
	s := resilient.New[order.Status](flaky, testConfig(), "store", nil, testLogger())

	got, err := s.Load(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil after retries", err)
	}
	if got.IsNone() {
		t.Error("Load() = None, want the stored order")
	}
	if n := flaky.calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestStore_BreakerOpensOnInfrastructureErrors(t *testing.T) {
	t.Parallel()

	flaky := &flakyRepo{OrderRepository: memory.New[order.Status]()}
	flaky.failLoads.Store(1000)

	cfg := testConfig()
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.MaxFailures = 2
	s := resilient.New[order.Status](flaky, cfg, "store", nil, testLogger())

	for range 2 {
		if _, err := s.Load(context.Background(), fsm.NewEntityID()); !errors.Is(err, errBackend) {
			t.Fatalf("Load() error = %v, want errBackend", err)
		}
	}

	before := flaky.calls.Load()
	_, err := s.Load(context.Background(), fsm.NewEntityID())
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("Load() with open breaker error = %v, want ErrUnavailable", err)
	}
	if flaky.calls.Load() != before {
		t.Error("repository was called while the breaker should be open")
	}

	herr := s.HealthCheck(context.Background())
	if herr == nil || !strings.Contains(herr.Error(), "failing") {
		t.Errorf("HealthCheck() = %v, want error containing %q", herr, "failing")
	}
}

func TestStore_DomainErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CircuitBreaker.MaxFailures = 1
	s := resilient.New[order.Status](memory.New[order.Status](), cfg, "store", nil, testLogger())

	o := order.New()
	if err := s.Insert(context.Background(), o); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	for range 3 {
		if err := s.Insert(context.Background(), o); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("duplicate Insert() error = %v, want ErrConflict", err)
		}
		_, err := s.TryCommit(context.Background(), fsm.NewEntityID(), 0, order.StatusConfirmed,
			fsm.TransitionRecord[order.Status]{Version: 1})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("TryCommit() on missing order error = %v, want ErrNotFound", err)
		}
	}

	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil (closed breaker)", err)
	}
}

func TestStore_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1}
	s := resilient.New[order.Status](memory.New[order.Status](), cfg, "store", nil, testLogger())

	if err := s.Insert(context.Background(), order.New()); err != nil {
		t.Fatalf("first Insert() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Insert(ctx, order.New()); err == nil {
		t.Error("second Insert() error = nil, want rate limiter error")
	}
}

func TestStore_Name(t *testing.T) {
	t.Parallel()

	s := resilient.New[order.Status](memory.New[order.Status](), testConfig(), "orders-store", nil, testLogger())
	if got := s.Name(); got != "orders-store" {
		t.Errorf("Name() = %q, want %q", got, "orders-store")
	}
}

func TestStore_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewMetrics(mp, "test-service")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	flaky := &flakyRepo{OrderRepository: memory.New[order.Status]()}
	cfg := testConfig()
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.MaxFailures = 1
	s := resilient.New[order.Status](flaky, cfg, "store", metrics, testLogger())

	if err := s.Insert(context.Background(), order.New()); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	flaky.failLoads.Store(1000)
	_, _ = s.Load(context.Background(), fsm.NewEntityID()) // error, opens the breaker
	_, _ = s.Load(context.Background(), fsm.NewEntityID()) // rejected

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "store.operation.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("store.operation.total data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				res, _ := dp.Attributes.Value(telemetry.AttrResult)
				got[res.AsString()] += dp.Value
			}
		}
	}

	want := map[string]int64{"success": 1, "error": 1, "circuit_open": 1}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("store.operation.total{result=%q} = %d, want %d (all: %v)", k, got[k], v, got)
		}
	}
}

func TestStore_HalfOpenReportsDegraded(t *testing.T) {
	t.Parallel()

	flaky := &flakyRepo{OrderRepository: memory.New[order.Status]()}
	flaky.failLoads.Store(1)

	cfg := testConfig()
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 10 * time.Millisecond
	s := resilient.New[order.Status](flaky, cfg, "store", nil, testLogger())

	_, _ = s.Load(context.Background(), fsm.NewEntityID())
	if err := s.HealthCheck(context.Background()); errors.Is(err, ports.ErrDegraded) || err == nil {
		t.Fatalf("HealthCheck() with open breaker = %v, want failing", err)
	}

	time.Sleep(30 * time.Millisecond)

	err := s.HealthCheck(context.Background())
	if !errors.Is(err, ports.ErrDegraded) {
		t.Errorf("HealthCheck() after breaker timeout = %v, want ErrDegraded", err)
	}
}
