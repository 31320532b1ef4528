package dto_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/dto"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
)

func TestNewErrorResponse_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{
			name:       "ErrNotFound maps to 404",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantTitle:  "Not Found",
		},
		{
			name:       "ErrValidation maps to 400",
			err:        &domain.ValidationError{Fields: map[string]string{"title": "is required"}},
			wantStatus: http.StatusBadRequest,
			wantTitle:  "Bad Request",
		},
		{
			name:       "ErrConflict maps to 409",
			err:        domain.ErrConflict,
			wantStatus: http.StatusConflict,
			wantTitle:  "Conflict",
		},
		{
			name:       "ErrForbidden maps to 403",
			err:        domain.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantTitle:  "Forbidden",
		},
		{
			name:       "ErrUnavailable maps to 503",
			err:        domain.ErrUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantTitle:  "Service Unavailable",
		},
		{
			name:       "deadline exceeded maps to 504",
			err:        fmt.Errorf("loading order: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantTitle:  "Gateway Timeout",
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("oops"),
			wantStatus: http.StatusInternalServerError,
			wantTitle:  "Internal Server Error",
		},
		{
			name:       "wrapped ErrNotFound preserves mapping",
			err:        fmt.Errorf("loading order: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantTitle:  "Not Found",
		},
		{
			name:       "guard rejection maps to 422",
			err:        fsm.GuardRejected(order.StatusConfirmed, order.EventShip, order.ReasonTrackingRequired),
			wantStatus: http.StatusUnprocessableEntity,
			wantTitle:  "Unprocessable Entity",
		},
		{
			name:       "no such transition maps to 409",
			err:        fsm.NoSuchTransition(order.StatusDelivered, order.EventCancel),
			wantStatus: http.StatusConflict,
			wantTitle:  "Conflict",
		},
		{
			name:       "version conflict maps to 409",
			err:        fsm.Conflict(order.StatusPending, order.EventConfirm, fsm.VersionConflict{Expected: 0, Actual: 1}),
			wantStatus: http.StatusConflict,
			wantTitle:  "Conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil)
			got := dto.NewErrorResponse(r, tt.err)

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestNewErrorResponse_Fields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	err := domain.ErrNotFound

	got := dto.NewErrorResponse(r, err)

	if got.Type != "about:blank" {
		t.Errorf("Type = %q, want %q", got.Type, "about:blank")
	}
	if got.Instance != "/api/v1/orders" {
		t.Errorf("Instance = %q, want %q", got.Instance, "/api/v1/orders")
	}
	if got.Detail != err.Error() {
		t.Errorf("Detail = %q, want %q", got.Detail, err.Error())
	}
}

func TestNewErrorResponse_ValidationErrors(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{Fields: map[string]string{
		"event":            "is required",
		"expected_version": "is required",
		"payload":          "unknown key \"foo\"",
	}}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	got := dto.NewErrorResponse(r, verr)

	if len(got.Errors) != 3 {
		t.Fatalf("len(Errors) = %d, want 3", len(got.Errors))
	}

	// Verify sorted by location.
	for i := 1; i < len(got.Errors); i++ {
		if got.Errors[i-1].Location >= got.Errors[i].Location {
			t.Errorf("Errors not sorted: %q >= %q", got.Errors[i-1].Location, got.Errors[i].Location)
		}
	}

	// Verify location format.
	for _, detail := range got.Errors {
		if len(detail.Location) < 6 || detail.Location[:5] != "body." {
			t.Errorf("Location %q does not start with %q", detail.Location, "body.")
		}
	}
}

func TestNewErrorResponse_NoValidationErrorsForNonValidation(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders/1", nil)
	got := dto.NewErrorResponse(r, domain.ErrNotFound)

	if got.Errors != nil {
		t.Errorf("Errors = %v, want nil for non-validation error", got.Errors)
	}
}

func TestWriteErrorResponse_ContentType(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders/42", nil)

	dto.WriteErrorResponse(w, r, domain.ErrNotFound)

	ct := w.Header().Get("Content-Type")
	if ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/problem+json")
	}
}

func TestWriteErrorResponse_StatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"validation", &domain.ValidationError{Fields: map[string]string{"x": "y"}}, http.StatusBadRequest},
		{"conflict", domain.ErrConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/test", nil)

			dto.WriteErrorResponse(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestWriteErrorResponse_ValidJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)

	verr := &domain.ValidationError{Fields: map[string]string{
		"event": "is required",
	}}
	dto.WriteErrorResponse(w, r, verr)

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if resp.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", resp.Status, http.StatusBadRequest)
	}
	if resp.Type != "about:blank" {
		t.Errorf("Type = %q, want %q", resp.Type, "about:blank")
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(resp.Errors))
	}
	if resp.Errors[0].Location != "body.event" {
		t.Errorf("Errors[0].Location = %q, want %q", resp.Errors[0].Location, "body.event")
	}
	if resp.Errors[0].Message != "is required" {
		t.Errorf("Errors[0].Message = %q, want %q", resp.Errors[0].Message, "is required")
	}
}

func TestNewErrorResponse_TransitionExtensions(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/transitions", nil)

	t.Run("version conflict carries versions", func(t *testing.T) {
		t.Parallel()
		err := fsm.Conflict(order.StatusPending, order.EventConfirm, fsm.VersionConflict{Expected: 0, Actual: 3})
		got := dto.NewErrorResponse(r, err)

		if got.Kind != "version_conflict" {
			t.Errorf("Kind = %q, want %q", got.Kind, "version_conflict")
		}
		if got.ExpectedVersion == nil || *got.ExpectedVersion != 0 {
			t.Errorf("ExpectedVersion = %v, want 0", got.ExpectedVersion)
		}
		if got.ActualVersion == nil || *got.ActualVersion != 3 {
			t.Errorf("ActualVersion = %v, want 3", got.ActualVersion)
		}
	})

	t.Run("guard rejection carries reason", func(t *testing.T) {
		t.Parallel()
		err := fsm.GuardRejected(order.StatusConfirmed, order.EventShip, order.ReasonTrackingRequired)
		got := dto.NewErrorResponse(r, err)

		if got.Kind != "guard_rejected" {
			t.Errorf("Kind = %q, want %q", got.Kind, "guard_rejected")
		}
		if got.Reason != order.ReasonTrackingRequired {
			t.Errorf("Reason = %q, want %q", got.Reason, order.ReasonTrackingRequired)
		}
		if got.ExpectedVersion != nil || got.Errors != nil {
			t.Errorf("unexpected members: expected_version=%v errors=%v", got.ExpectedVersion, got.Errors)
		}
	})
}
