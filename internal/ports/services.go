package ports

import (
	"context"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

// OrderService defines the service port for order lifecycle operations.
// Implemented by the application layer; called by inbound adapters (HTTP
// handlers, CLI).
type OrderService interface {
	// CreateOrder creates a pending order at version 0.
	CreateOrder(ctx context.Context) (*order.Order, error)

	// GetOrder returns the current snapshot of an order.
	// Returns domain.ErrNotFound if the order does not exist.
	GetOrder(ctx context.Context, id fsm.EntityID) (*order.Order, error)

	// Transition fires req against the order. The returned Result carries
	// the updated order or the reason the transition was refused
	// (no such transition, guard rejected, version conflict).
	// The error return is reserved for infrastructure failures and
	// domain.ErrNotFound.
	Transition(ctx context.Context, id fsm.EntityID, req order.Request) (result.Result[order.Order, *fsm.TransitionError], error)

	// BulkTransition applies independent transition requests concurrently.
	// Each item succeeds or fails on its own; the error return is reserved
	// for request-level failures.
	BulkTransition(ctx context.Context, items []TransitionItem) (*BulkTransitionResult, error)

	// AllowedEvents returns the events accepted from the given status.
	AllowedEvents(status order.Status) []string
}

// TransitionItem pairs an order ID with the transition request to apply.
type TransitionItem struct {
	OrderID fsm.EntityID
	Request order.Request
}

// BulkTransitionOutcome records the outcome of one item of a bulk request.
// Exactly one of Order, Rejection, or Err is set.
type BulkTransitionOutcome struct {
	OrderID   fsm.EntityID
	Order     *order.Order
	Rejection *fsm.TransitionError
	Err       error
}

// BulkTransitionResult holds the per-item outcomes in request order.
type BulkTransitionResult struct {
	Outcomes []BulkTransitionOutcome
}

// Succeeded returns the number of items that committed.
func (r *BulkTransitionResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Order != nil {
			n++
		}
	}
	return n
}
