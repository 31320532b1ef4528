package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/adapters/http/dto"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/fsm"
	"github.com/ramartinez7/coding-guidelines-sub005/internal/platform/logging"
)

// maxJSONBodyBytes caps request bodies at 1 MiB.
const maxJSONBodyBytes = 1 << 20

// parseID reads the named chi URL parameter as an entity ID.
func parseID(r *http.Request, param string) (fsm.EntityID, error) {
	id, err := fsm.ParseEntityID(chi.URLParam(r, param))
	if err != nil {
		return fsm.EntityID{}, &domain.ValidationError{
			Fields: map[string]string{param: "must be a valid UUID"},
		}
	}
	return id, nil
}

// writeJSON encodes v with the given status. Encoding failures are logged
// with the request's logger; the status line has already been sent by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}
}

// decodeJSONBody decodes exactly one JSON value from the request body into
// dst. On failure it writes a 400 problem response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": bodyProblem(err)},
		})
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "must contain a single JSON value"},
		})
		return false
	}
	return true
}

// bodyProblem describes a decode failure without echoing the payload.
func bodyProblem(err error) string {
	var (
		tooLarge *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
		syntax   *json.SyntaxError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "must not be empty"
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("must not exceed %d bytes", tooLarge.Limit)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &syntax):
		return fmt.Sprintf("invalid JSON at offset %d", syntax.Offset)
	default:
		return "invalid JSON"
	}
}
