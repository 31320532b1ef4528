// Package option provides Option, an explicit presence/absence value used
// instead of nil pointers or comma-ok pairs when absence is part of a
// function's contract.
package option

import (
	"fmt"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/result"
)

// Option holds either a value (Some) or nothing (None). The zero value is None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromOK builds an Option from a comma-ok pair, such as a map lookup.
func FromOK[T any](v T, ok bool) Option[T] {
	if !ok {
		return None[T]()
	}
	return Some(v)
}

// IsSome reports whether o holds a value.
func (o Option[T]) IsSome() bool { return o.ok }

// IsNone reports whether o is empty.
func (o Option[T]) IsNone() bool { return !o.ok }

// Value returns the held value. It panics on None.
func (o Option[T]) Value() T {
	if !o.ok {
		panic("option: Value called on None")
	}
	return o.value
}

// Get returns the held value and true, or the zero T and false.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// GetOrElse returns the held value, or fallback on None.
func (o Option[T]) GetOrElse(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// Filter returns o if it holds a value satisfying keep, otherwise None.
func (o Option[T]) Filter(keep func(T) bool) Option[T] {
	if !o.ok || !keep(o.value) {
		return None[T]()
	}
	return o
}

// String implements fmt.Stringer.
func (o Option[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// Map applies f to the held value. None is returned unchanged.
func Map[T, U any](o Option[T], f func(T) U) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(f(o.value))
}

// Bind chains a lookup that may itself come back empty.
func Bind[T, U any](o Option[T], f func(T) Option[U]) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return f(o.value)
}

// ToResult converts Some(x) to Success(x) and None to Failure(e).
func ToResult[T, E any](o Option[T], e E) result.Result[T, E] {
	if !o.ok {
		return result.Failure[T](e)
	}
	return result.Success[T, E](o.value)
}
