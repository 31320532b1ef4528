// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/dto"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/handlers"
)

// NewRouter builds the chi router for the order service. Middleware runs in
// the order given, around every route including the health probes.
//
// Routes:
//
//	GET  /health/live
//	GET  /health/ready
//	POST /api/v1/orders
//	POST /api/v1/orders/transitions
//	GET  /api/v1/orders/{id}
//	POST /api/v1/orders/{id}/transitions
//
// Unmatched paths and methods get problem responses like every other error.
func NewRouter(
	orderHandler *handlers.OrderHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	// Set before any sub-router is mounted so the sub-routers inherit them.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatusResponse(w, req, http.StatusNotFound, "no route for "+req.Method+" "+req.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		dto.WriteStatusResponse(w, req, http.StatusMethodNotAllowed, req.Method+" is not supported on "+req.URL.Path)
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Post("/transitions", orderHandler.BulkTransition)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Post("/{id}/transitions", orderHandler.Transition)
	})

	return r
}
