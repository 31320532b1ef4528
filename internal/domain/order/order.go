// Package order defines the order lifecycle: its states, the payload carried
// by lifecycle events, and the transition table that governs them.
package order

import (
	"strings"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
)

// Lifecycle event names.
const (
	EventConfirm = "confirm"
	EventShip    = "ship"
	EventDeliver = "deliver"
	EventCancel  = "cancel"
)

// Guard rejection reasons.
const (
	ReasonTrackingRequired     = "tracking number required"
	ReasonCancellationRequired = "cancellation reason required"
)

// Order is an order entity: identity, current status, version and history.
type Order = fsm.Entity[Status]

// Record is one committed step of an order's history.
type Record = fsm.TransitionRecord[Status]

// Table is the order transition table type.
type Table = fsm.Table[Status, Payload]

// Request is a transition request against an order.
type Request = fsm.Request[Payload]

// Payload carries the event-specific data a guard may inspect.
type Payload struct {
	TrackingNumber string `mapstructure:"tracking_number"`
	Reason         string `mapstructure:"reason"`
}

// New creates a pending order at version 0 with a fresh identifier.
func New() Order {
	return fsm.NewEntity(fsm.NewEntityID(), StatusPending)
}

// NewTable builds the order lifecycle table:
//
//	pending   --confirm--> confirmed
//	pending   --cancel---> cancelled
//	confirmed --ship-----> shipped     (tracking number required)
//	confirmed --cancel---> cancelled   (cancellation reason required)
//	shipped   --deliver--> delivered
//
// delivered and cancelled are terminal.
func NewTable() (*Table, error) {
	return fsm.NewBuilder[Status, Payload](StatusPending).
		AddTransition(StatusPending, EventConfirm, nil, StatusConfirmed).
		AddTransition(StatusPending, EventCancel, nil, StatusCancelled).
		AddTransition(StatusConfirmed, EventShip, hasTracking(), StatusShipped).
		AddTransition(StatusConfirmed, EventCancel, hasReason(), StatusCancelled).
		AddTransition(StatusShipped, EventDeliver, nil, StatusDelivered).
		Build()
}

func hasTracking() fsm.Guard[Status, Payload] {
	return fsm.Require(ReasonTrackingRequired, func(_ Order, p Payload) bool {
		return strings.TrimSpace(p.TrackingNumber) != ""
	})
}

func hasReason() fsm.Guard[Status, Payload] {
	return fsm.Require(ReasonCancellationRequired, func(_ Order, p Payload) bool {
		return strings.TrimSpace(p.Reason) != ""
	})
}
