package dto

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/ports"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
)

// TransitionRequest represents the JSON body for firing an event at an order.
// ExpectedVersion is required so that a client never commits against a
// version it has not seen.
type TransitionRequest struct {
	Event           string         `json:"event"`
	ExpectedVersion *uint64        `json:"expected_version"`
	Payload         map[string]any `json:"payload,omitempty"`
}

// ToDomain converts the request into an order.Request.
// Returns a *domain.ValidationError if any checks fail.
func (r *TransitionRequest) ToDomain() (order.Request, error) {
	fields := make(map[string]string)
	req := r.toDomain("", fields)
	if len(fields) > 0 {
		return order.Request{}, &domain.ValidationError{Fields: fields}
	}
	return req, nil
}

// toDomain records field problems under prefix in fields.
func (r *TransitionRequest) toDomain(prefix string, fields map[string]string) order.Request {
	if strings.TrimSpace(r.Event) == "" {
		fields[prefix+"event"] = msgRequired
	}
	if r.ExpectedVersion == nil {
		fields[prefix+"expected_version"] = msgRequired
	}

	payload, err := decodePayload(r.Payload)
	if err != nil {
		fields[prefix+"payload"] = err.Error()
	}

	req := order.Request{Event: r.Event, Payload: payload}
	if r.ExpectedVersion != nil {
		req.ExpectedVersion = *r.ExpectedVersion
	}
	return req
}

// decodePayload maps the free-form payload object onto order.Payload.
// Unknown keys and mistyped values are rejected.
func decodePayload(raw map[string]any) (order.Payload, error) {
	var p order.Payload
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &p,
	})
	if err != nil {
		return p, fmt.Errorf("building payload decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	return p, nil
}

// BulkTransitionItem is one entry of a BulkTransitionRequest.
type BulkTransitionItem struct {
	OrderID string `json:"order_id"`
	TransitionRequest
}

// BulkTransitionRequest represents the JSON body for transitioning several
// orders in one call.
type BulkTransitionRequest struct {
	Items []BulkTransitionItem `json:"items"`
}

// ToDomain converts every item, stopping at the first invalid one.
func (r *BulkTransitionRequest) ToDomain() result.Result[[]ports.TransitionItem, error] {
	if len(r.Items) == 0 {
		return result.Failure[[]ports.TransitionItem, error](&domain.ValidationError{
			Fields: map[string]string{"items": msgMustNotEmpty},
		})
	}

	converted := make([]result.Result[ports.TransitionItem, error], len(r.Items))
	for i := range r.Items {
		converted[i] = r.Items[i].toDomain(i)
	}
	return result.Combine(converted)
}

func (it *BulkTransitionItem) toDomain(index int) result.Result[ports.TransitionItem, error] {
	prefix := fmt.Sprintf("items[%d].", index)
	fields := make(map[string]string)

	id, err := fsm.ParseEntityID(it.OrderID)
	if err != nil {
		fields[prefix+"order_id"] = "must be a valid UUID"
	}
	req := it.TransitionRequest.toDomain(prefix, fields)

	if len(fields) > 0 {
		return result.Failure[ports.TransitionItem, error](&domain.ValidationError{Fields: fields})
	}
	return result.Success[ports.TransitionItem, error](ports.TransitionItem{OrderID: id, Request: req})
}
