// Package storetest provides a behavioral test suite shared by every
// Repository adapter.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) ports.OrderRepository

// Contenders is the number of goroutines racing on one version in
// the concurrency subtest.
const Contenders = 10

var recordedAt = time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)

func confirmRecord(version uint64) fsm.TransitionRecord[order.Status] {
	return fsm.TransitionRecord[order.Status]{
		From:    order.StatusPending,
		To:      order.StatusConfirmed,
		Event:   order.EventConfirm,
		At:      recordedAt,
		Version: version,
	}
}

func shipRecord(version uint64) fsm.TransitionRecord[order.Status] {
	return fsm.TransitionRecord[order.Status]{
		From:    order.StatusConfirmed,
		To:      order.StatusShipped,
		Event:   order.EventShip,
		At:      recordedAt.Add(time.Minute),
		Version: version,
	}
}

// Run exercises newRepo against the Repository contract.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("load missing returns none", func(t *testing.T) {
		repo := newRepo(t)

		got, err := repo.Load(context.Background(), fsm.NewEntityID())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.IsSome() {
			t.Errorf("Load() = %v, want None", got)
		}
	})

	t.Run("insert then load", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		o := order.New()

		if err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		got := mustLoad(t, repo, o.ID)
		if got.ID != o.ID || got.State != order.StatusPending || got.Version != 0 || len(got.History) != 0 {
			t.Errorf("Load() = %+v, want pending at version 0", got)
		}
	})

	t.Run("insert duplicate is a conflict", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		o := order.New()

		if err := repo.Insert(ctx, o); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := repo.Insert(ctx, o); !errors.Is(err, domain.ErrConflict) {
			t.Errorf("second Insert() error = %v, want ErrConflict", err)
		}
	})

	t.Run("commit at current version", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		o := order.New()
		mustInsert(t, repo, o)

		res, err := repo.TryCommit(ctx, o.ID, 0, order.StatusConfirmed, confirmRecord(1))
		if err != nil {
			t.Fatalf("TryCommit() error = %v", err)
		}
		if res.IsFailure() {
			t.Fatalf("TryCommit() = %v, want success", res)
		}

		updated := res.Value()
		if updated.State != order.StatusConfirmed || updated.Version != 1 || len(updated.History) != 1 {
			t.Errorf("TryCommit() entity = %+v, want confirmed at version 1 with one record", updated)
		}

		got := mustLoad(t, repo, o.ID)
		if got.State != order.StatusConfirmed || got.Version != 1 {
			t.Errorf("Load() after commit = %+v, want confirmed at version 1", got)
		}
		assertRecord(t, got.History[0], confirmRecord(1))
	})

	t.Run("commit increments version regardless of record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for _, recVersion := range []uint64{0, 1, 7} {
			o := order.New()
			mustInsert(t, repo, o)

			updated := mustCommit(t, repo, o.ID, 0, order.StatusConfirmed, confirmRecord(recVersion))
			if updated.Version != 1 || len(updated.History) != 1 || updated.History[0].Version != 1 {
				t.Errorf("record version %d: TryCommit() = %+v, want version 1", recVersion, updated)
			}

			got := mustLoad(t, repo, o.ID)
			if got.Version != 1 {
				t.Errorf("record version %d: stored version = %d, want 1", recVersion, got.Version)
			}
			assertRecord(t, got.History[0], confirmRecord(1))

			res, err := repo.TryCommit(ctx, o.ID, 0, order.StatusShipped, shipRecord(1))
			if err != nil {
				t.Fatalf("record version %d: second TryCommit() error = %v", recVersion, err)
			}
			if res.IsSuccess() {
				t.Errorf("record version %d: second commit at version 0 = %v, want conflict", recVersion, res)
			}
		}
	})

	t.Run("commit at stale version conflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		o := order.New()
		mustInsert(t, repo, o)
		mustCommit(t, repo, o.ID, 0, order.StatusConfirmed, confirmRecord(1))

		res, err := repo.TryCommit(ctx, o.ID, 0, order.StatusConfirmed, confirmRecord(1))
		if err != nil {
			t.Fatalf("TryCommit() error = %v", err)
		}
		if res.IsSuccess() {
			t.Fatalf("TryCommit() = %v, want version conflict", res)
		}
		if vc := res.Err(); vc.Expected != 0 || vc.Actual != 1 {
			t.Errorf("TryCommit() conflict = %+v, want expected 0 actual 1", vc)
		}

		got := mustLoad(t, repo, o.ID)
		if got.Version != 1 || len(got.History) != 1 {
			t.Errorf("Load() after conflict = %+v, want version 1 with one record", got)
		}
	})

	t.Run("commit missing entity is not found", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.TryCommit(context.Background(), fsm.NewEntityID(), 0, order.StatusConfirmed, confirmRecord(1))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("TryCommit() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("history is appended in order", func(t *testing.T) {
		repo := newRepo(t)
		o := order.New()
		mustInsert(t, repo, o)
		mustCommit(t, repo, o.ID, 0, order.StatusConfirmed, confirmRecord(1))
		mustCommit(t, repo, o.ID, 1, order.StatusShipped, shipRecord(2))

		got := mustLoad(t, repo, o.ID)
		if got.State != order.StatusShipped || got.Version != 2 {
			t.Fatalf("Load() = %+v, want shipped at version 2", got)
		}
		if len(got.History) != 2 {
			t.Fatalf("len(History) = %d, want 2", len(got.History))
		}
		assertRecord(t, got.History[0], confirmRecord(1))
		assertRecord(t, got.History[1], shipRecord(2))
	})

	t.Run("loaded entities are copies", func(t *testing.T) {
		repo := newRepo(t)
		o := order.New()
		mustInsert(t, repo, o)
		mustCommit(t, repo, o.ID, 0, order.StatusConfirmed, confirmRecord(1))

		first := mustLoad(t, repo, o.ID)
		first.History[0].Event = "mutated"
		first.State = order.StatusCancelled

		second := mustLoad(t, repo, o.ID)
		if second.State != order.StatusConfirmed || second.History[0].Event != order.EventConfirm {
			t.Errorf("Load() = %+v, mutation of an earlier snapshot leaked into the store", second)
		}
	})

	t.Run("concurrent commits at one version", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		o := order.New()
		mustInsert(t, repo, o)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
			failures  []error
		)
		start := make(chan struct{})

		for range Contenders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				res, err := repo.TryCommit(ctx, o.ID, 0, order.StatusConfirmed, confirmRecord(1))

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					failures = append(failures, err)
				case res.IsSuccess():
					successes++
				default:
					conflicts++
				}
			}()
		}
		close(start)
		wg.Wait()

		if len(failures) > 0 {
			t.Fatalf("TryCommit() errors = %v", failures)
		}
		if successes != 1 || conflicts != Contenders-1 {
			t.Errorf("successes = %d, conflicts = %d, want 1 and %d", successes, conflicts, Contenders-1)
		}

		got := mustLoad(t, repo, o.ID)
		if got.Version != 1 || len(got.History) != 1 {
			t.Errorf("Load() = %+v, want version 1 with exactly one record", got)
		}
	})
}

func mustInsert(t *testing.T, repo ports.OrderRepository, o order.Order) {
	t.Helper()
	if err := repo.Insert(context.Background(), o); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
}

func mustLoad(t *testing.T, repo ports.OrderRepository, id fsm.EntityID) order.Order {
	t.Helper()
	got, err := repo.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.IsNone() {
		t.Fatalf("Load(%s) = None, want entity", id)
	}
	return got.Value()
}

func mustCommit(
	t *testing.T,
	repo ports.OrderRepository,
	id fsm.EntityID,
	expected uint64,
	state order.Status,
	rec fsm.TransitionRecord[order.Status],
) order.Order {
	t.Helper()
	res, err := repo.TryCommit(context.Background(), id, expected, state, rec)
	if err != nil {
		t.Fatalf("TryCommit() error = %v", err)
	}
	if res.IsFailure() {
		t.Fatalf("TryCommit() = %v, want success", res)
	}
	return res.Value()
}

func assertRecord(t *testing.T, got, want fsm.TransitionRecord[order.Status]) {
	t.Helper()
	if got.From != want.From || got.To != want.To || got.Event != want.Event || got.Version != want.Version {
		t.Errorf("record = %+v, want %+v", got, want)
	}
	if !got.At.Equal(want.At) {
		t.Errorf("record.At = %v, want %v", got.At, want.At)
	}
}
