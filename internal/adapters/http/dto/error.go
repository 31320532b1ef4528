package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
)

// ErrorResponse represents an RFC 9457 Problem Details response.
//
// Rejected transitions add the extension members kind, reason,
// expected_version and actual_version so clients can branch without
// parsing detail.
type ErrorResponse struct {
	Type            string        `json:"type"`
	Title           string        `json:"title"`
	Status          int           `json:"status"`
	Detail          string        `json:"detail,omitempty"`
	Instance        string        `json:"instance,omitempty"`
	Errors          []ErrorDetail `json:"errors,omitempty"`
	Kind            string        `json:"kind,omitempty"`
	Reason          string        `json:"reason,omitempty"`
	ExpectedVersion *uint64       `json:"expected_version,omitempty"`
	ActualVersion   *uint64       `json:"actual_version,omitempty"`
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := domainErrorToStatus(err)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var terr *fsm.TransitionError
	if errors.As(err, &terr) {
		resp.Kind = terr.Kind.String()
		resp.Reason = terr.Reason
		if terr.Kind == fsm.KindVersionConflict {
			resp.ExpectedVersion = &terr.Expected
			resp.ActualVersion = &terr.Actual
		}
		return resp
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(verr.Fields)
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given domain
// error. It sets the Content-Type to application/problem+json, writes the
// appropriate HTTP status code, and marshals the error body as JSON.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	writeProblem(w, r, NewErrorResponse(r, err))
}

// WriteStatusResponse writes a problem response for a failure that has no
// domain error behind it, such as an unmatched route or method.
func WriteStatusResponse(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	})
}

func writeProblem(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Int("status", resp.Status),
			slog.Any("error", encErr),
		)
	}
}

// domainErrorToStatus maps domain sentinel errors to HTTP status codes.
// Transition rejections are checked first: a guard rejection also matches
// domain.ErrValidation but is a well-formed request the lifecycle refused.
func domainErrorToStatus(err error) int {
	var terr *fsm.TransitionError
	if errors.As(err, &terr) {
		return transitionErrorToStatus(terr)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func transitionErrorToStatus(terr *fsm.TransitionError) int {
	switch terr.Kind {
	case fsm.KindGuardRejected:
		return http.StatusUnprocessableEntity
	case fsm.KindNoSuchTransition, fsm.KindVersionConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// validationFieldsToDetails converts domain validation fields to sorted
// ErrorDetail entries.
func validationFieldsToDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{
			Location: "body." + field,
			Message:  msg,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Location < details[j].Location
	})
	return details
}
