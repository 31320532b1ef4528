// Package fsm holds the building blocks of guarded, versioned state machines:
// entities with an append-only transition history, an immutable transition
// table validated when it is built, and the typed errors a transition
// request can fail with.
//
// A table is built once and shared:
//
//	table, err := fsm.NewBuilder[Status, Payload](StatusPending).
//	    AddTransition(StatusPending, "confirm", nil, StatusConfirmed).
//	    AddTransition(StatusConfirmed, "ship", fsm.Require[Status, Payload](
//	        "tracking number required",
//	        func(_ fsm.Entity[Status], p Payload) bool { return p.TrackingNumber != "" },
//	    ), StatusShipped).
//	    Build()
//
// Requests are evaluated by the transition engine (package
// internal/app/transition), which commits through a repository port.
package fsm

// Request is a caller's intent to fire Event against an entity it believes
// is at ExpectedVersion.
type Request[P any] struct {
	Event           string
	Payload         P
	ExpectedVersion uint64
}
