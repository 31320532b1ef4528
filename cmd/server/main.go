// Package main is the entry point for the order service. It opens the
// configured store, wires all dependencies using samber/do v2, starts the
// HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/ramartinez7/coding-guidelines-sub005/configs"

	adapthttp "github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/handlers"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/middleware"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/memory"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/redis"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/resilient"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/sqlite"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/app"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/app/transition"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/config"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/health"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/logging"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/telemetry"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry. APP_CONFIG_DIR points at YAML on
	// disk; without it the embedded profiles are used.
	source := config.WithFS(configs.Files)
	if dir := os.Getenv("APP_CONFIG_DIR"); dir != "" {
		source = config.WithConfigDir(dir)
	}
	cfg, err := config.Load(profile, source)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	backend, closeBackend, err := openStore(&cfg.Store)
	if err != nil {
		_ = otel.Shutdown(ctx)
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logger.Error("store close error", slog.Any("error", err))
		}
	}()
	logger.Info("store opened", slog.String("driver", cfg.Store.Driver))

	registerDependencies(injector, cfg, backend, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	store := do.MustInvoke[*resilient.Store[order.Status]](injector)
	registry.Register(store)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

// openStore opens the backend named by cfg.Driver. The returned func
// releases it.
func openStore(cfg *config.StoreConfig) (ports.OrderRepository, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New[order.Status](), func() error { return nil }, nil
	case config.DriverSQLite:
		s, err := sqlite.Open[order.Status](cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.DriverRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		s := redis.New[order.Status](cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, backend ports.OrderRepository, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*resilient.Store[order.Status], error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return resilient.New(backend, &cfg.Store, "store", metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.OrderRepository, error) {
		return do.MustInvoke[*resilient.Store[order.Status]](i), nil
	})

	do.Provide(injector, func(_ do.Injector) (*order.Table, error) {
		return order.NewTable()
	})

	do.Provide(injector, func(i do.Injector) (*app.OrderEngine, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return transition.New[order.Status, order.Payload](logger, transition.WithMetrics(metrics)), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.OrderService, error) {
		repo := do.MustInvoke[ports.OrderRepository](i)
		table := do.MustInvoke[*order.Table](i)
		engine := do.MustInvoke[*app.OrderEngine](i)
		return app.NewOrderService(repo, table, engine, logger,
			app.WithBulkWorkers(cfg.Engine.BulkWorkers),
			app.WithMaxBulkItems(cfg.Engine.MaxBulkItems),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.OrderHandler, error) {
		svc := do.MustInvoke[ports.OrderService](i)
		return handlers.NewOrderHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		orderH := do.MustInvoke[*handlers.OrderHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(orderH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
