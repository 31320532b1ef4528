package fsm

import (
	"errors"
	"fmt"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNoSuchTransition    = errors.New("no such transition")
	ErrGuardRejected       = errors.New("guard rejected transition")
	ErrVersionConflict     = errors.New("version conflict")
	ErrDuplicateTransition = errors.New("duplicate transition definition")
	ErrInvalidDefinition   = errors.New("invalid transition definition")
)

// Kind classifies a TransitionError. The set is closed: every switch over
// Kind must handle all three values.
type Kind int

const (
	KindNoSuchTransition Kind = iota + 1
	KindGuardRejected
	KindVersionConflict
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNoSuchTransition:
		return "no_such_transition"
	case KindGuardRejected:
		return "guard_rejected"
	case KindVersionConflict:
		return "version_conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TransitionError is the failure payload of a rejected transition request.
// Callers branch on Kind; Reason is set for KindGuardRejected and
// Expected/Actual for KindVersionConflict.
//
// TransitionError matches its kind's sentinel (ErrNoSuchTransition,
// ErrGuardRejected, ErrVersionConflict) and a domain sentinel
// (domain.ErrConflict or domain.ErrValidation) through errors.Is.
type TransitionError struct {
	Kind     Kind
	State    string
	Event    string
	Reason   string
	Expected uint64
	Actual   uint64
}

// NoSuchTransition reports that the table has no entry for (state, event).
func NoSuchTransition[S comparable](state S, event string) *TransitionError {
	return &TransitionError{Kind: KindNoSuchTransition, State: fmt.Sprint(state), Event: event}
}

// GuardRejected reports that the entry's guard refused the request.
func GuardRejected[S comparable](state S, event, reason string) *TransitionError {
	return &TransitionError{Kind: KindGuardRejected, State: fmt.Sprint(state), Event: event, Reason: reason}
}

// Conflict reports that the stored version moved past the caller's
// expected version.
func Conflict[S comparable](state S, event string, vc VersionConflict) *TransitionError {
	return &TransitionError{
		Kind:     KindVersionConflict,
		State:    fmt.Sprint(state),
		Event:    event,
		Expected: vc.Expected,
		Actual:   vc.Actual,
	}
}

func (e *TransitionError) Error() string {
	switch e.Kind {
	case KindNoSuchTransition:
		return fmt.Sprintf("%s: event %q from state %q", ErrNoSuchTransition, e.Event, e.State)
	case KindGuardRejected:
		return fmt.Sprintf("%s: event %q from state %q: %s", ErrGuardRejected, e.Event, e.State, e.Reason)
	case KindVersionConflict:
		return fmt.Sprintf("%s: expected version %d, actual %d", ErrVersionConflict, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("transition error (%s): event %q from state %q", e.Kind, e.Event, e.State)
	}
}

func (e *TransitionError) Unwrap() []error {
	switch e.Kind {
	case KindNoSuchTransition:
		return []error{ErrNoSuchTransition, domain.ErrConflict}
	case KindGuardRejected:
		return []error{ErrGuardRejected, domain.ErrValidation}
	case KindVersionConflict:
		return []error{ErrVersionConflict, domain.ErrConflict}
	default:
		return nil
	}
}

// VersionConflict is the failure payload of Repository.TryCommit when the
// stored version differs from the expected one.
type VersionConflict struct {
	Expected uint64
	Actual   uint64
}

func (v VersionConflict) String() string {
	return fmt.Sprintf("expected version %d, actual %d", v.Expected, v.Actual)
}

// DuplicateTransitionError is returned by Builder.Build when the same
// (source state, event) pair was registered more than once.
type DuplicateTransitionError struct {
	State string
	Event string
}

func (e *DuplicateTransitionError) Error() string {
	return fmt.Sprintf("%s: event %q from state %q", ErrDuplicateTransition, e.Event, e.State)
}

func (e *DuplicateTransitionError) Unwrap() error {
	return ErrDuplicateTransition
}
