package app

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/store/memory"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/app/transition"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
	"github.com/ramartinez7/coding-guidelines-sub005/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTable(t *testing.T) *order.Table {
	t.Helper()
	table, err := order.NewTable()
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func newService(t *testing.T, repo ports.OrderRepository, opts ...Option) *OrderService {
	t.Helper()
	engine := transition.New[order.Status, order.Payload](discardLogger())
	return NewOrderService(repo, newTable(t), engine, discardLogger(), opts...)
}

// --- NewOrderService ---

func TestNewOrderService_NilLogger(t *testing.T) {
	t.Parallel()

	svc := NewOrderService(memory.New[order.Status](), newTable(t), nil, nil)
	if svc.logger == nil {
		t.Fatal("NewOrderService(nil logger) should create a no-op logger, got nil")
	}
}

func TestNewOrderService_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        []Option
		wantWorkers int
		wantMax     int
	}{
		{name: "defaults", wantWorkers: defaultBulkWorkers, wantMax: defaultMaxBulkItems},
		{name: "overrides", opts: []Option{WithBulkWorkers(2), WithMaxBulkItems(5)}, wantWorkers: 2, wantMax: 5},
		{name: "ignores non-positive", opts: []Option{WithBulkWorkers(0), WithMaxBulkItems(-1)}, wantWorkers: defaultBulkWorkers, wantMax: defaultMaxBulkItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(t, memory.New[order.Status](), tt.opts...)
			if svc.bulkWorkers != tt.wantWorkers {
				t.Errorf("bulkWorkers = %d, want %d", svc.bulkWorkers, tt.wantWorkers)
			}
			if svc.maxBulkItems != tt.wantMax {
				t.Errorf("maxBulkItems = %d, want %d", svc.maxBulkItems, tt.wantMax)
			}
		})
	}
}

// --- CreateOrder ---

func TestOrderService_CreateOrder(t *testing.T) {
	t.Parallel()

	t.Run("stores a pending order at version zero", func(t *testing.T) {
		t.Parallel()
		repo := memory.New[order.Status]()
		svc := newService(t, repo)

		got, err := svc.CreateOrder(context.Background())
		if err != nil {
			t.Fatalf("CreateOrder() error = %v, want nil", err)
		}
		if got.State != order.StatusPending {
			t.Errorf("CreateOrder().State = %v, want %v", got.State, order.StatusPending)
		}
		if got.Version != 0 {
			t.Errorf("CreateOrder().Version = %d, want 0", got.Version)
		}
		if got.ID.IsZero() {
			t.Error("CreateOrder().ID is zero")
		}
		if repo.Len() != 1 {
			t.Errorf("repo.Len() = %d, want 1", repo.Len())
		}
	})

	t.Run("propagates repository error", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockRepository[order.Status](t)
		svc := newService(t, repo)

		repoErr := errors.New("disk full")
		repo.EXPECT().Insert(mock.Anything, mock.Anything).Return(repoErr)

		got, err := svc.CreateOrder(context.Background())
		if !errors.Is(err, repoErr) {
			t.Errorf("CreateOrder() error = %v, want %v", err, repoErr)
		}
		if got != nil {
			t.Errorf("CreateOrder() = %v, want nil", got)
		}
	})
}

// --- GetOrder ---

func TestOrderService_GetOrder(t *testing.T) {
	t.Parallel()

	t.Run("returns stored order", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status]())
		created, err := svc.CreateOrder(context.Background())
		if err != nil {
			t.Fatalf("CreateOrder() error = %v", err)
		}

		got, err := svc.GetOrder(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetOrder() error = %v, want nil", err)
		}
		if got.ID != created.ID {
			t.Errorf("GetOrder().ID = %v, want %v", got.ID, created.ID)
		}
	})

	t.Run("missing order is not found", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status]())

		_, err := svc.GetOrder(context.Background(), fsm.NewEntityID())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetOrder() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("wraps repository error", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockRepository[order.Status](t)
		svc := newService(t, repo)

		repo.EXPECT().Load(mock.Anything, mock.Anything).
			Return(option.None[order.Order](), domain.ErrUnavailable)

		_, err := svc.GetOrder(context.Background(), fsm.NewEntityID())
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Errorf("GetOrder() error = %v, want ErrUnavailable", err)
		}
	})
}

// --- Transition ---

func TestOrderService_Transition(t *testing.T) {
	t.Parallel()

	t.Run("commits allowed event", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status]())
		created, _ := svc.CreateOrder(context.Background())

		res, err := svc.Transition(context.Background(), created.ID, order.Request{Event: order.EventConfirm})
		if err != nil {
			t.Fatalf("Transition() error = %v, want nil", err)
		}
		got, ok := res.Get()
		if !ok {
			t.Fatalf("Transition() = Failure(%v), want Success", res.Err())
		}
		if got.State != order.StatusConfirmed || got.Version != 1 {
			t.Errorf("Transition() = (%v, v%d), want (confirmed, v1)", got.State, got.Version)
		}

		stored, _ := svc.GetOrder(context.Background(), created.ID)
		if stored.Version != 1 {
			t.Errorf("stored version = %d, want 1", stored.Version)
		}
	})

	t.Run("guard rejection leaves order unchanged", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status]())
		created, _ := svc.CreateOrder(context.Background())
		if _, err := svc.Transition(context.Background(), created.ID, order.Request{Event: order.EventConfirm}); err != nil {
			t.Fatalf("confirm error = %v", err)
		}

		res, err := svc.Transition(context.Background(), created.ID, order.Request{Event: order.EventShip, ExpectedVersion: 1})
		if err != nil {
			t.Fatalf("Transition() error = %v, want nil", err)
		}
		if res.IsSuccess() {
			t.Fatal("Transition(ship without tracking) = Success, want Failure")
		}
		if res.Err().Kind != fsm.KindGuardRejected {
			t.Errorf("Kind = %v, want %v", res.Err().Kind, fsm.KindGuardRejected)
		}

		stored, _ := svc.GetOrder(context.Background(), created.ID)
		if stored.State != order.StatusConfirmed || stored.Version != 1 {
			t.Errorf("stored = (%v, v%d), want (confirmed, v1)", stored.State, stored.Version)
		}
	})

	t.Run("missing order is not found", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status]())

		_, err := svc.Transition(context.Background(), fsm.NewEntityID(), order.Request{Event: order.EventConfirm})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Transition() error = %v, want ErrNotFound", err)
		}
	})
}

// --- BulkTransition ---

func TestOrderService_BulkTransition(t *testing.T) {
	t.Parallel()

	t.Run("reports each item independently", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status](), WithBulkWorkers(2))
		a, _ := svc.CreateOrder(context.Background())
		b, _ := svc.CreateOrder(context.Background())
		missing := fsm.NewEntityID()

		items := []ports.TransitionItem{
			{OrderID: a.ID, Request: order.Request{Event: order.EventConfirm}},
			{OrderID: b.ID, Request: order.Request{Event: order.EventDeliver}},
			{OrderID: missing, Request: order.Request{Event: order.EventConfirm}},
		}

		got, err := svc.BulkTransition(context.Background(), items)
		if err != nil {
			t.Fatalf("BulkTransition() error = %v, want nil", err)
		}
		if len(got.Outcomes) != 3 {
			t.Fatalf("len(Outcomes) = %d, want 3", len(got.Outcomes))
		}
		if got.Succeeded() != 1 {
			t.Errorf("Succeeded() = %d, want 1", got.Succeeded())
		}

		if o := got.Outcomes[0]; o.OrderID != a.ID || o.Order == nil || o.Order.State != order.StatusConfirmed {
			t.Errorf("Outcomes[0] = %+v, want confirmed order %s", o, a.ID)
		}
		if o := got.Outcomes[1]; o.Rejection == nil || o.Rejection.Kind != fsm.KindNoSuchTransition {
			t.Errorf("Outcomes[1] = %+v, want no-such-transition rejection", o)
		}
		if o := got.Outcomes[2]; !errors.Is(o.Err, domain.ErrNotFound) {
			t.Errorf("Outcomes[2].Err = %v, want ErrNotFound", o.Err)
		}
	})

	t.Run("rejects oversized request", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status](), WithMaxBulkItems(2))

		items := make([]ports.TransitionItem, 3)
		_, err := svc.BulkTransition(context.Background(), items)

		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("BulkTransition() error = %v, want *ValidationError", err)
		}
		if _, ok := ve.Fields["items"]; !ok {
			t.Errorf("ValidationError.Fields = %v, want key items", ve.Fields)
		}
	})

	t.Run("empty request succeeds", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, memory.New[order.Status]())

		got, err := svc.BulkTransition(context.Background(), nil)
		if err != nil {
			t.Fatalf("BulkTransition() error = %v, want nil", err)
		}
		if len(got.Outcomes) != 0 {
			t.Errorf("len(Outcomes) = %d, want 0", len(got.Outcomes))
		}
	})
}

// --- AllowedEvents ---

func TestOrderService_AllowedEvents(t *testing.T) {
	t.Parallel()

	svc := newService(t, memory.New[order.Status]())

	tests := []struct {
		status order.Status
		want   []string
	}{
		{order.StatusPending, []string{order.EventConfirm, order.EventCancel}},
		{order.StatusConfirmed, []string{order.EventShip, order.EventCancel}},
		{order.StatusShipped, []string{order.EventDeliver}},
		{order.StatusDelivered, nil},
	}
	for _, tt := range tests {
		got := svc.AllowedEvents(tt.status)
		if !slices.Equal(got, tt.want) {
			t.Errorf("AllowedEvents(%v) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
