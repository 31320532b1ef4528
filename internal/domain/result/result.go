// Package result provides Result, an explicit success/failure value used to
// carry recoverable domain outcomes without panics or sentinel zero values.
//
// Go methods cannot introduce new type parameters, so the transforming
// operations (Map, Bind, MapError, Match, Combine) are package functions:
//
//	r := result.Success[int, string](2)
//	doubled := result.Map(r, func(v int) int { return v * 2 })
//	msg := result.Match(doubled,
//	    func(v int) string { return strconv.Itoa(v) },
//	    func(e string) string { return "failed: " + e },
//	)
//
// Reading the wrong variant's payload (Value on a Failure, Err on a Success)
// is a programming error and panics. Use Get, IsSuccess, or Match when the
// variant is not known.
package result

import "fmt"

// Result holds either a success value of type T or a failure of type E.
// Build one with Success or Failure; the zero value is a Failure carrying
// the zero E.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success returns a Result holding v.
func Success[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v, ok: true}
}

// Failure returns a Result holding e.
func Failure[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// Try converts a conventional (value, error) pair into a Result. A non-nil
// err yields a Failure; otherwise v is the success value.
func Try[T any](v T, err error) Result[T, error] {
	if err != nil {
		return Failure[T](err)
	}
	return Success[T, error](v)
}

// IsSuccess reports whether r holds a success value.
func (r Result[T, E]) IsSuccess() bool { return r.ok }

// IsFailure reports whether r holds a failure.
func (r Result[T, E]) IsFailure() bool { return !r.ok }

// Value returns the success value. It panics if r is a Failure.
func (r Result[T, E]) Value() T {
	if !r.ok {
		panic(fmt.Sprintf("result: Value called on Failure(%v)", r.err))
	}
	return r.value
}

// Err returns the failure payload. It panics if r is a Success.
func (r Result[T, E]) Err() E {
	if r.ok {
		panic("result: Err called on Success")
	}
	return r.err
}

// Get returns the success value and true, or the zero T and false.
func (r Result[T, E]) Get() (T, bool) {
	return r.value, r.ok
}

// String implements fmt.Stringer.
func (r Result[T, E]) String() string {
	if r.ok {
		return fmt.Sprintf("Success(%v)", r.value)
	}
	return fmt.Sprintf("Failure(%v)", r.err)
}

// Map applies f to the success value. A Failure is returned unchanged and
// f is not called.
func Map[T, U, E any](r Result[T, E], f func(T) U) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return Success[U, E](f(r.value))
}

// Bind chains a computation that may itself fail. A Failure is returned
// unchanged and f is not called.
func Bind[T, U, E any](r Result[T, E], f func(T) Result[U, E]) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return f(r.value)
}

// MapError applies f to the failure payload. A Success passes through.
func MapError[T, E, E2 any](r Result[T, E], f func(E) E2) Result[T, E2] {
	if r.ok {
		return Success[T, E2](r.value)
	}
	return Failure[T](f(r.err))
}

// Match calls exactly one of onSuccess or onFailure and returns its value.
func Match[T, E, R any](r Result[T, E], onSuccess func(T) R, onFailure func(E) R) R {
	if r.ok {
		return onSuccess(r.value)
	}
	return onFailure(r.err)
}

// Combine collapses results into a single Result. It returns the first
// Failure in slice order, or a Success holding every value in order.
// An empty input yields Success of an empty, non-nil slice.
func Combine[T, E any](results []Result[T, E]) Result[[]T, E] {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if !r.ok {
			return Failure[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Success[[]T, E](values)
}
