// Package types defines core domain types shared across msdev packages.
//
//nolint:revive // types is a common Go package naming convention
package types

// Outcome holds exactly one of a success value or a failure error.
//
// The variant is fixed at construction and never changes. Callers branch
// on IsSuccess (or use Match) and must handle both sides; nothing on this
// type panics. Outcomes are consumed by the immediate caller and are not
// meant to be stored.
type Outcome[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success constructs a success outcome carrying value.
func Success[T, E any](value T) Outcome[T, E] {
	return Outcome[T, E]{value: value, ok: true}
}

// Failure constructs a failure outcome carrying err.
func Failure[T, E any](err E) Outcome[T, E] {
	return Outcome[T, E]{err: err}
}

// IsSuccess reports whether the outcome is a success.
func (o Outcome[T, E]) IsSuccess() bool {
	return o.ok
}

// Value returns the success value. The boolean is false for failures,
// in which case the returned value is the zero value of T.
func (o Outcome[T, E]) Value() (T, bool) {
	return o.value, o.ok
}

// Err returns the failure error. The boolean is false for successes,
// in which case the returned error is the zero value of E.
func (o Outcome[T, E]) Err() (E, bool) {
	return o.err, !o.ok
}

// UnwrapOr returns the success value, or fallback for failures.
func (o Outcome[T, E]) UnwrapOr(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// Map transforms the success value with f. Failures pass through untouched.
func Map[T, U, E any](o Outcome[T, E], f func(T) U) Outcome[U, E] {
	if !o.ok {
		return Failure[U](o.err)
	}
	return Success[U, E](f(o.value))
}

// MapError transforms the failure error with f. Successes pass through untouched.
func MapError[T, E, F any](o Outcome[T, E], f func(E) F) Outcome[T, F] {
	if o.ok {
		return Success[T, F](o.value)
	}
	return Failure[T](f(o.err))
}

// FlatMap chains f onto a success value, short-circuiting on failure.
func FlatMap[T, U, E any](o Outcome[T, E], f func(T) Outcome[U, E]) Outcome[U, E] {
	if !o.ok {
		return Failure[U](o.err)
	}
	return f(o.value)
}

// Match calls onSuccess or onFailure depending on the variant and returns
// the result. Both branches are mandatory.
func Match[T, E, R any](o Outcome[T, E], onSuccess func(T) R, onFailure func(E) R) R {
	if o.ok {
		return onSuccess(o.value)
	}
	return onFailure(o.err)
}
