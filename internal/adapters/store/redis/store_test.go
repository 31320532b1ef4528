package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/redis"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/storetest"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

var _ ports.OrderRepository = (*redis.Store[order.Status])(nil)

func newTestStore(t *testing.T, opts ...redis.Option) (*redis.Store[order.Status], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	s := redis.NewFromClient[order.Status](client, opts...)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) ports.OrderRepository {
		s, _ := newTestStore(t)
		return s
	})
}

func TestStore_WithPrefix(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t, redis.WithPrefix("orders:"))
	o := order.New()
	if err := s.Insert(context.Background(), o); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	key := "orders:" + o.ID.String()
	if !mr.Exists(key) {
		t.Errorf("key %q not found in redis", key)
	}
	if got := mr.HGet(key, "state"); got != string(order.StatusPending) {
		t.Errorf("HGET state = %q, want pending", got)
	}
}

func TestStore_HealthCheck(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t)
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	mr.Close()
	if err := s.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() with server down error = nil, want error")
	}
}

func TestStore_TryCommit_VersionsBeyondFloatPrecision(t *testing.T) {
	t.Parallel()

	// 2^53+1 and 2^53 are equal as Lua doubles.
	const stored = uint64(1)<<53 + 1

	s, mr := newTestStore(t)
	ctx := context.Background()
	o := order.New()
	o.Version = stored
	if err := s.Insert(ctx, o); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	rec := fsm.TransitionRecord[order.Status]{
		From:  order.StatusPending,
		To:    order.StatusConfirmed,
		Event: order.EventConfirm,
		At:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	res, err := s.TryCommit(ctx, o.ID, stored-1, order.StatusConfirmed, rec)
	if err != nil {
		t.Fatalf("TryCommit() error = %v", err)
	}
	if res.IsSuccess() {
		t.Fatalf("TryCommit(expected %d) = %v, want version conflict", stored-1, res)
	}
	if vc := res.Err(); vc.Expected != stored-1 || vc.Actual != stored {
		t.Errorf("conflict = %+v, want expected %d actual %d", vc, stored-1, stored)
	}

	res, err = s.TryCommit(ctx, o.ID, stored, order.StatusConfirmed, rec)
	if err != nil {
		t.Fatalf("TryCommit() error = %v", err)
	}
	got, ok := res.Get()
	if !ok || got.Version != stored+1 {
		t.Fatalf("TryCommit(expected %d) = %v, want success at version %d", stored, res, stored+1)
	}
	if v := mr.HGet("fsm:entity:"+o.ID.String(), "version"); v != "9007199254740994" {
		t.Errorf("HGET version = %q, want 9007199254740994", v)
	}
}
