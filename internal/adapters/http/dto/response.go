// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

// Bulk item outcomes.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// OrderResponse represents a single order in HTTP responses.
type OrderResponse struct {
	ID            string             `json:"id"`
	State         string             `json:"state"`
	Version       uint64             `json:"version"`
	AllowedEvents []string           `json:"allowed_events"`
	History       []TransitionRecord `json:"history"`
}

// TransitionRecord represents one committed step of an order's history.
type TransitionRecord struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Event   string `json:"event"`
	At      string `json:"at"`
	Version uint64 `json:"version"`
}

// ToOrderResponse converts a domain Order to an HTTP response DTO.
// allowed lists the events the order's current state accepts.
func ToOrderResponse(o *order.Order, allowed []string) OrderResponse {
	history := make([]TransitionRecord, len(o.History))
	for i, rec := range o.History {
		history[i] = TransitionRecord{
			From:    rec.From.String(),
			To:      rec.To.String(),
			Event:   rec.Event,
			At:      rec.At.Format(time.RFC3339Nano),
			Version: rec.Version,
		}
	}
	if allowed == nil {
		allowed = []string{}
	}
	return OrderResponse{
		ID:            o.ID.String(),
		State:         o.State.String(),
		Version:       o.Version,
		AllowedEvents: allowed,
		History:       history,
	}
}

// BulkTransitionResponse represents the result of a bulk transition.
// Results are in request order.
type BulkTransitionResponse struct {
	Results   []BulkTransitionItemResponse `json:"results"`
	Total     int                          `json:"total"`
	Succeeded int                          `json:"succeeded"`
	Failed    int                          `json:"failed"`
}

// BulkTransitionItemResponse is the outcome of one bulk item. Order is set
// when the item committed; Kind is set when the lifecycle rejected it.
type BulkTransitionItemResponse struct {
	OrderID string         `json:"order_id"`
	Outcome string         `json:"outcome"`
	Order   *OrderResponse `json:"order,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ToBulkTransitionResponse converts a ports.BulkTransitionResult to an HTTP
// response DTO. allowed resolves the events accepted from a status.
func ToBulkTransitionResponse(res *ports.BulkTransitionResult, allowed func(order.Status) []string) BulkTransitionResponse {
	items := make([]BulkTransitionItemResponse, len(res.Outcomes))
	for i, o := range res.Outcomes {
		item := BulkTransitionItemResponse{OrderID: o.OrderID.String()}
		switch {
		case o.Order != nil:
			resp := ToOrderResponse(o.Order, allowed(o.Order.State))
			item.Outcome = OutcomeCommitted
			item.Order = &resp
		case o.Rejection != nil:
			item.Outcome = OutcomeRejected
			item.Kind = o.Rejection.Kind.String()
			item.Message = o.Rejection.Error()
		default:
			item.Outcome = OutcomeError
			if o.Err != nil {
				item.Message = o.Err.Error()
			}
		}
		items[i] = item
	}

	succeeded := res.Succeeded()
	return BulkTransitionResponse{
		Results:   items,
		Total:     len(items),
		Succeeded: succeeded,
		Failed:    len(items) - succeeded,
	}
}
