package ports

import (
	"context"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

// Repository defines the storage port for versioned state-machine entities.
// Implemented by the store adapters; called by the transition engine and the
// application layer.
//
// Returned entities never share memory with the repository's own copy.
// Infrastructure failures are reported through the error return; the
// domain outcomes of each method travel in its Option or Result value.
type Repository[S comparable] interface {
	// Load returns the current snapshot of the entity, or None if no entity
	// with that id exists.
	Load(ctx context.Context, id fsm.EntityID) (option.Option[fsm.Entity[S]], error)

	// Insert stores a newly created entity.
	// Returns domain.ErrConflict if an entity with the same id exists.
	Insert(ctx context.Context, entity fsm.Entity[S]) error

	// TryCommit atomically checks that the stored version equals
	// expectedVersion and, if so, moves the entity to newState, increments
	// its version to expectedVersion+1 and appends record to its history.
	// The stored record carries the new state and version whatever record.To
	// and record.Version held.
	//
	// A version mismatch yields Failure(VersionConflict) and leaves the
	// stored entity untouched. Returns domain.ErrNotFound if the entity does
	// not exist.
	TryCommit(
		ctx context.Context,
		id fsm.EntityID,
		expectedVersion uint64,
		newState S,
		record fsm.TransitionRecord[S],
	) (result.Result[fsm.Entity[S], fsm.VersionConflict], error)
}

// OrderRepository is the Repository instantiation used for orders.
type OrderRepository = Repository[order.Status]
