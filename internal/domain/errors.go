package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors for errors.Is() checking. Transition rejections from the
// engine wrap ErrConflict or ErrValidation so callers that only know these
// sentinels still classify them correctly.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError carries field-level validation failures keyed by field
// path (for example "items[2].event"). Use errors.Is(err, ErrValidation)
// for simple checks, or errors.As to reach Fields.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the failures sorted by field so the message is stable.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrValidation.Error())
	b.WriteString(": ")
	for i, field := range slices.Sorted(maps.Keys(e.Fields)) {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(e.Fields[field])
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
