package fsm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/option"
)

// Guard decides whether a transition may fire for an entity and request
// payload. When it refuses, reason explains why (for example "tracking
// number required"). A nil Guard always allows the transition.
type Guard[S comparable, P any] func(entity Entity[S], payload P) (allowed bool, reason string)

// Require builds a Guard that allows the transition when pred holds and
// otherwise refuses it with the given reason.
func Require[S comparable, P any](reason string, pred func(Entity[S], P) bool) Guard[S, P] {
	return func(e Entity[S], p P) (bool, string) {
		if pred(e, p) {
			return true, ""
		}
		return false, reason
	}
}

// Entry is a single rule of a Table: from Source on Event, move to Target
// if Guard allows it.
type Entry[S comparable, P any] struct {
	Source S
	Event  string
	Guard  Guard[S, P]
	Target S
}

// Guarded reports whether the entry carries a guard.
func (e Entry[S, P]) Guarded() bool {
	return e.Guard != nil
}

// Allows evaluates the entry's guard.
func (e Entry[S, P]) Allows(entity Entity[S], payload P) (bool, string) {
	if e.Guard == nil {
		return true, ""
	}
	return e.Guard(entity, payload)
}

type tableKey[S comparable] struct {
	state S
	event string
}

// Builder collects transition rules and produces an immutable Table.
// Definition problems (duplicates, empty event names) are recorded as rules
// are added and reported together by Build.
type Builder[S comparable, P any] struct {
	initial S
	entries []Entry[S, P]
	index   map[tableKey[S]]int
	errs    []error
}

// NewBuilder starts a table whose entities begin in initial.
func NewBuilder[S comparable, P any](initial S) *Builder[S, P] {
	return &Builder[S, P]{
		initial: initial,
		index:   make(map[tableKey[S]]int),
	}
}

// AddTransition registers source --event--> target, gated by guard.
// Registering the same (source, event) pair twice makes Build fail.
func (b *Builder[S, P]) AddTransition(source S, event string, guard Guard[S, P], target S) *Builder[S, P] {
	if strings.TrimSpace(event) == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: empty event name from state %q", ErrInvalidDefinition, fmt.Sprint(source)))
		return b
	}

	key := tableKey[S]{state: source, event: event}
	if _, exists := b.index[key]; exists {
		b.errs = append(b.errs, &DuplicateTransitionError{State: fmt.Sprint(source), Event: event})
		return b
	}

	b.index[key] = len(b.entries)
	b.entries = append(b.entries, Entry[S, P]{Source: source, Event: event, Guard: guard, Target: target})
	return b
}

// Build freezes the registered rules into a Table. It fails if any rule was
// rejected while building; the returned error joins every problem found.
func (b *Builder[S, P]) Build() (*Table[S, P], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	t := &Table[S, P]{
		initial: b.initial,
		entries: make([]Entry[S, P], len(b.entries)),
		index:   make(map[tableKey[S]]int, len(b.index)),
		events:  make(map[S][]string),
	}
	copy(t.entries, b.entries)
	for k, v := range b.index {
		t.index[k] = v
	}

	seen := map[S]bool{}
	addState := func(s S) {
		if !seen[s] {
			seen[s] = true
			t.states = append(t.states, s)
		}
	}
	addState(b.initial)
	for _, e := range t.entries {
		addState(e.Source)
		addState(e.Target)
		t.events[e.Source] = append(t.events[e.Source], e.Event)
	}

	return t, nil
}

// Table is the validated, read-only set of legal transitions for one state
// type. A Table never changes after Build and is safe for concurrent use.
type Table[S comparable, P any] struct {
	initial S
	entries []Entry[S, P]
	index   map[tableKey[S]]int
	states  []S
	events  map[S][]string
}

// Lookup returns the rule for (state, event), or None if there is none.
func (t *Table[S, P]) Lookup(state S, event string) option.Option[Entry[S, P]] {
	i, ok := t.index[tableKey[S]{state: state, event: event}]
	if !ok {
		return option.None[Entry[S, P]]()
	}
	return option.Some(t.entries[i])
}

// Initial returns the state new entities start in.
func (t *Table[S, P]) Initial() S {
	return t.initial
}

// States returns every state mentioned by the table, initial state first,
// then in order of first appearance.
func (t *Table[S, P]) States() []S {
	out := make([]S, len(t.states))
	copy(out, t.states)
	return out
}

// Events returns the events accepted from state, in registration order.
func (t *Table[S, P]) Events(state S) []string {
	events := t.events[state]
	out := make([]string, len(events))
	copy(out, events)
	return out
}

// IsTerminal reports whether state has no outgoing transitions.
func (t *Table[S, P]) IsTerminal(state S) bool {
	return len(t.events[state]) == 0
}

// Entries returns all rules in registration order.
func (t *Table[S, P]) Entries() []Entry[S, P] {
	out := make([]Entry[S, P], len(t.entries))
	copy(out, t.entries)
	return out
}
