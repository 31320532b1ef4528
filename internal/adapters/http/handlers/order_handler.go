package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/dto"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/logging"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	svc ports.OrderService
}

// NewOrderHandler creates a new OrderHandler with the given service port.
func NewOrderHandler(svc ports.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// CreateOrder handles POST /api/v1/orders.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	created, err := h.svc.CreateOrder(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, h.toResponse(created))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.toResponse(o))
}

// Transition handles POST /api/v1/orders/{id}/transitions.
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var body dto.TransitionRequest
	if !decodeJSONBody(w, r, &body) {
		return
	}
	req, err := body.ToDomain()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	ctx := logging.With(r.Context(),
		slog.String("order_id", id.String()),
		slog.String("event", req.Event),
	)

	res, err := h.svc.Transition(ctx, id, req)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	result.Match(res,
		func(o order.Order) struct{} {
			writeJSON(w, r, http.StatusOK, h.toResponse(&o))
			return struct{}{}
		},
		func(terr *fsm.TransitionError) struct{} {
			logging.FromContext(ctx).InfoContext(ctx, "transition rejected",
				slog.String("kind", terr.Kind.String()),
				slog.String("reason", terr.Reason),
			)
			dto.WriteErrorResponse(w, r, terr)
			return struct{}{}
		},
	)
}

// BulkTransition handles POST /api/v1/orders/transitions.
func (h *OrderHandler) BulkTransition(w http.ResponseWriter, r *http.Request) {
	var body dto.BulkTransitionRequest
	if !decodeJSONBody(w, r, &body) {
		return
	}

	converted := body.ToDomain()
	items, ok := converted.Get()
	if !ok {
		dto.WriteErrorResponse(w, r, converted.Err())
		return
	}

	res, err := h.svc.BulkTransition(r.Context(), items)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToBulkTransitionResponse(res, h.svc.AllowedEvents))
}

func (h *OrderHandler) toResponse(o *order.Order) dto.OrderResponse {
	return dto.ToOrderResponse(o, h.svc.AllowedEvents(o.State))
}
