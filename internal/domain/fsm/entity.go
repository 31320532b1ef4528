package fsm

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// EntityID identifies an entity for its whole lifetime. It is assigned once
// at creation and never changes.
type EntityID uuid.UUID

// NewEntityID returns a fresh random identifier.
func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// ParseEntityID parses the canonical textual form produced by String.
func ParseEntityID(s string) (EntityID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EntityID{}, fmt.Errorf("parsing entity id %q: %w", s, err)
	}
	return EntityID(id), nil
}

// String implements fmt.Stringer.
func (id EntityID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero identifier.
func (id EntityID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// TransitionRecord is one committed step in an entity's history.
// Version is the entity version produced by the step.
type TransitionRecord[S comparable] struct {
	From    S
	To      S
	Event   string
	At      time.Time
	Version uint64
}

// Entity is a versioned state-machine instance. Entities start at version 0
// in the table's initial state and change only through committed transitions.
type Entity[S comparable] struct {
	ID      EntityID
	State   S
	Version uint64
	History []TransitionRecord[S]
}

// NewEntity returns a version-0 entity in the given initial state.
func NewEntity[S comparable](id EntityID, initial S) Entity[S] {
	return Entity[S]{ID: id, State: initial}
}

// Clone returns a copy of e that shares no memory with it.
func (e Entity[S]) Clone() Entity[S] {
	e.History = slices.Clone(e.History)
	return e
}

// Advance returns a copy of e with rec applied: state set to rec.To,
// version set to rec.Version and rec appended to the history.
// The receiver is not modified.
func (e Entity[S]) Advance(rec TransitionRecord[S]) Entity[S] {
	next := e.Clone()
	next.State = rec.To
	next.Version = rec.Version
	next.History = append(next.History, rec)
	return next
}
