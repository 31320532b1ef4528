// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// The router applies them in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Timeout → Handler
//
// OpenTelemetry and Logging label requests with the matched chi route
// pattern (for example /api/v1/orders/{id}/transitions) rather than the raw
// path, so per-order URLs do not explode span names or metric cardinality.
package middleware
