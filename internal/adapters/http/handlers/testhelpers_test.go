package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/dto"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

// withChiParams attaches route parameters the way the chi router would.
func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// transitionRequest builds POST /api/v1/orders/{id}/transitions for id.
func transitionRequest(id fsm.EntityID, body io.Reader) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+id.String()+"/transitions", body)
	return withChiParams(r, map[string]string{"id": id.String()})
}

func pendingOrder() order.Order {
	return order.New()
}

func confirmedOrder() order.Order {
	return pendingOrder().Advance(order.Record{
		From:    order.StatusPending,
		To:      order.StatusConfirmed,
		Event:   order.EventConfirm,
		At:      testTime,
		Version: 1,
	})
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encoding request body: %v", err)
	}
	return &buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response body %q: %v", rec.Body.String(), err)
	}
	return out
}

// problemDetail decodes a problem response and returns the message of the
// error entry at location, failing the test when there is none.
func problemDetail(t *testing.T, rec *httptest.ResponseRecorder, location string) string {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	for _, e := range resp.Errors {
		if e.Location == location {
			return e.Message
		}
	}
	t.Fatalf("no error at %q in %+v", location, resp.Errors)
	return ""
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
