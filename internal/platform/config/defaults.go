package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultBulkWorkers  = 8
	defaultMaxBulkItems = 100
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"store.driver":                          DriverMemory,
		"store.sqlite.path":                     "orders.db",
		"store.redis.addr":                      "localhost:6379",
		"store.redis.password":                  "",
		"store.redis.db":                        0,
		"store.redis.prefix":                    "orders:",
		"store.retry.max_attempts":              defaultRetryMaxAttempts,
		"store.retry.initial_interval":          "50ms",
		"store.retry.max_interval":              "2s",
		"store.retry.multiplier":                defaultRetryMultiplier,
		"store.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"store.circuit_breaker.timeout":         "30s",
		"store.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"store.rate_limit.requests_per_second":  0,
		"store.rate_limit.burst_size":           0,

		"engine.bulk_workers":   defaultBulkWorkers,
		"engine.max_bulk_items": defaultMaxBulkItems,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "orderfsm",
	}
}
