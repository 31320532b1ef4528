// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/app/fanout"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/app/transition"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

// Compile-time check that OrderService implements ports.OrderService.
var _ ports.OrderService = (*OrderService)(nil)

const (
	defaultBulkWorkers  = 8
	defaultMaxBulkItems = 100
)

// OrderEngine is the transition engine instantiation used for orders.
type OrderEngine = transition.Engine[order.Status, order.Payload]

// Option configures an OrderService.
type Option func(*OrderService)

// WithBulkWorkers bounds the number of bulk items processed concurrently.
func WithBulkWorkers(n int) Option {
	return func(s *OrderService) {
		if n > 0 {
			s.bulkWorkers = n
		}
	}
}

// WithMaxBulkItems bounds the number of items accepted in one bulk request.
func WithMaxBulkItems(n int) Option {
	return func(s *OrderService) {
		if n > 0 {
			s.maxBulkItems = n
		}
	}
}

// OrderService implements ports.OrderService. It loads orders from the
// repository and hands transition requests to the engine; the lifecycle
// rules themselves live in the order table.
type OrderService struct {
	repo         ports.OrderRepository
	table        *order.Table
	engine       *OrderEngine
	bulkWorkers  int
	maxBulkItems int
	logger       *slog.Logger
}

// NewOrderService creates an OrderService. A nil logger discards output.
func NewOrderService(
	repo ports.OrderRepository,
	table *order.Table,
	engine *OrderEngine,
	logger *slog.Logger,
	opts ...Option,
) *OrderService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &OrderService{
		repo:         repo,
		table:        table,
		engine:       engine,
		bulkWorkers:  defaultBulkWorkers,
		maxBulkItems: defaultMaxBulkItems,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder stores a new pending order at version 0.
func (s *OrderService) CreateOrder(ctx context.Context) (*order.Order, error) {
	o := fsm.NewEntity(fsm.NewEntityID(), s.table.Initial())
	s.logger.InfoContext(ctx, "creating order", slog.String("order_id", o.ID.String()))

	if err := s.repo.Insert(ctx, o); err != nil {
		s.logger.ErrorContext(ctx, "failed to create order",
			slog.String("operation", "CreateOrder"),
			slog.String("order_id", o.ID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &o, nil
}

// GetOrder returns the current snapshot of an order.
func (s *OrderService) GetOrder(ctx context.Context, id fsm.EntityID) (*order.Order, error) {
	s.logger.InfoContext(ctx, "fetching order", slog.String("order_id", id.String()))

	o, err := s.load(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch order",
			slog.String("operation", "GetOrder"),
			slog.String("order_id", id.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &o, nil
}

// Transition loads the order and asks the engine to apply req to it.
func (s *OrderService) Transition(
	ctx context.Context,
	id fsm.EntityID,
	req order.Request,
) (result.Result[order.Order, *fsm.TransitionError], error) {
	s.logger.InfoContext(ctx, "transitioning order",
		slog.String("order_id", id.String()),
		slog.String("event", req.Event),
		slog.Uint64("expected_version", req.ExpectedVersion),
	)

	o, err := s.load(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load order for transition",
			slog.String("operation", "Transition"),
			slog.String("order_id", id.String()),
			slog.Any("error", err),
		)
		return result.Result[order.Order, *fsm.TransitionError]{}, err
	}

	return s.engine.RequestTransition(ctx, o, req, s.table, s.repo)
}

// BulkTransition applies each item independently on a bounded worker pool.
// Outcomes are returned in request order. Returns a *domain.ValidationError
// when the request holds more items than the configured maximum.
func (s *OrderService) BulkTransition(ctx context.Context, items []ports.TransitionItem) (*ports.BulkTransitionResult, error) {
	s.logger.InfoContext(ctx, "bulk transitioning orders", slog.Int("count", len(items)))

	if len(items) > s.maxBulkItems {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"items": fmt.Sprintf("at most %d items per request, got %d", s.maxBulkItems, len(items)),
		}}
	}

	results := fanout.Run(ctx, s.bulkWorkers, items,
		func(ctx context.Context, item ports.TransitionItem) (result.Result[order.Order, *fsm.TransitionError], error) {
			return s.Transition(ctx, item.OrderID, item.Request)
		})

	outcomes := make([]ports.BulkTransitionOutcome, len(items))
	for i, r := range results {
		outcomes[i] = toOutcome(items[i].OrderID, r)
	}

	out := &ports.BulkTransitionResult{Outcomes: outcomes}
	s.logger.InfoContext(ctx, "bulk transition finished",
		slog.Int("count", len(items)),
		slog.Int("succeeded", out.Succeeded()),
	)
	return out, nil
}

// AllowedEvents returns the events accepted from status, in table order.
func (s *OrderService) AllowedEvents(status order.Status) []string {
	return s.table.Events(status)
}

// load reads an order and turns a missing one into domain.ErrNotFound.
func (s *OrderService) load(ctx context.Context, id fsm.EntityID) (order.Order, error) {
	found, err := s.repo.Load(ctx, id)
	if err != nil {
		return order.Order{}, fmt.Errorf("loading order %s: %w", id, err)
	}
	o, ok := found.Get()
	if !ok {
		return order.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func toOutcome(id fsm.EntityID, r result.Result[result.Result[order.Order, *fsm.TransitionError], error]) ports.BulkTransitionOutcome {
	return result.Match(r,
		func(inner result.Result[order.Order, *fsm.TransitionError]) ports.BulkTransitionOutcome {
			return result.Match(inner,
				func(o order.Order) ports.BulkTransitionOutcome {
					return ports.BulkTransitionOutcome{OrderID: id, Order: &o}
				},
				func(te *fsm.TransitionError) ports.BulkTransitionOutcome {
					return ports.BulkTransitionOutcome{OrderID: id, Rejection: te}
				},
			)
		},
		func(err error) ports.BulkTransitionOutcome {
			return ports.BulkTransitionOutcome{OrderID: id, Err: err}
		},
	)
}
