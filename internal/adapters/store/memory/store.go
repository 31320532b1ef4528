// Package memory provides an in-process Repository implementation.
//
// Each entity has its own lock, so commits on different entities never
// contend and commits on the same entity are serialized. Entities are cloned
// on the way in and on the way out; callers never share memory with the
// store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

type slot[S comparable] struct {
	mu     sync.Mutex
	entity fsm.Entity[S]
}

// Store is a concurrency-safe in-memory Repository.
type Store[S comparable] struct {
	mu    sync.RWMutex
	slots map[fsm.EntityID]*slot[S]
}

// New returns an empty Store.
func New[S comparable]() *Store[S] {
	return &Store[S]{slots: make(map[fsm.EntityID]*slot[S])}
}

// Name returns the store name used in health reports.
func (s *Store[S]) Name() string { return "store" }

// HealthCheck always succeeds; an in-memory store has no dependency to fail.
func (s *Store[S]) HealthCheck(_ context.Context) error { return nil }

// Len returns the number of stored entities.
func (s *Store[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// Load implements ports.Repository.
func (s *Store[S]) Load(ctx context.Context, id fsm.EntityID) (option.Option[fsm.Entity[S]], error) {
	if err := ctx.Err(); err != nil {
		return option.None[fsm.Entity[S]](), err
	}

	sl, ok := s.lookup(id)
	if !ok {
		return option.None[fsm.Entity[S]](), nil
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	return option.Some(sl.entity.Clone()), nil
}

// Insert implements ports.Repository.
func (s *Store[S]) Insert(ctx context.Context, entity fsm.Entity[S]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.slots[entity.ID]; exists {
		return fmt.Errorf("inserting entity %s: %w", entity.ID, domain.ErrConflict)
	}
	s.slots[entity.ID] = &slot[S]{entity: entity.Clone()}
	return nil
}

// TryCommit implements ports.Repository.
func (s *Store[S]) TryCommit(
	ctx context.Context,
	id fsm.EntityID,
	expectedVersion uint64,
	newState S,
	record fsm.TransitionRecord[S],
) (result.Result[fsm.Entity[S], fsm.VersionConflict], error) {
	if err := ctx.Err(); err != nil {
		return result.Result[fsm.Entity[S], fsm.VersionConflict]{}, err
	}

	sl, ok := s.lookup(id)
	if !ok {
		return result.Result[fsm.Entity[S], fsm.VersionConflict]{}, fmt.Errorf("committing entity %s: %w", id, domain.ErrNotFound)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.entity.Version != expectedVersion {
		return result.Failure[fsm.Entity[S]](fsm.VersionConflict{
			Expected: expectedVersion,
			Actual:   sl.entity.Version,
		}), nil
	}

	record.To = newState
	record.Version = expectedVersion + 1
	sl.entity = sl.entity.Advance(record)
	return result.Success[fsm.Entity[S], fsm.VersionConflict](sl.entity.Clone()), nil
}

func (s *Store[S]) lookup(id fsm.EntityID) (*slot[S], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[id]
	return sl, ok
}
