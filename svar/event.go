package svar

import "context"

// Cont is a producer continuation. Forcing it performs one step of the
// producer and reports the outcome as an Event. Continuations are
// re-entrant values: a tail returned by one worker may be resumed later
// by a different worker.
type Cont[T any] func(ctx context.Context) Event[T]

type evKind uint8

const (
	evStop evKind = iota
	evSingle
	evYield
)

// Event is the outcome of forcing one step of a continuation: stop (with
// an optional failure), a single final value, or a value plus the
// continuation producing the rest.
type Event[T any] struct {
	val  T
	tail Cont[T]
	err  error
	kind evKind
}

// Stop is the normal-termination event.
func Stop[T any]() Event[T] {
	return Event[T]{kind: evStop}
}

// Fail is a termination event carrying a producer failure.
func Fail[T any](err error) Event[T] {
	return Event[T]{kind: evStop, err: err}
}

// Single produces one final value; the producer is done afterwards.
func Single[T any](v T) Event[T] {
	return Event[T]{kind: evSingle, val: v}
}

// Yield produces a value together with the continuation for the rest.
func Yield[T any](v T, k Cont[T]) Event[T] {
	return Event[T]{kind: evYield, val: v, tail: k}
}

// Stopped reports whether the producer terminated, normally or not.
func (e Event[T]) Stopped() bool {
	return e.kind == evStop
}

// Err returns the failure carried by a stop event, or nil.
func (e Event[T]) Err() error {
	return e.err
}

// Value returns the produced value. Only meaningful for non-stop events.
func (e Event[T]) Value() T {
	return e.val
}

// Tail returns the continuation for the rest of the producer, or nil if
// the value was final.
func (e Event[T]) Tail() Cont[T] {
	return e.tail
}

// Cons builds a continuation that yields v and then continues with k.
func Cons[T any](v T, k Cont[T]) Cont[T] {
	return func(context.Context) Event[T] {
		return Yield(v, k)
	}
}

// rest re-packages an un-consumed value event as a continuation, so that
// partially evaluated work can be parked and resumed later.
func (e Event[T]) rest() Cont[T] {
	if e.kind == evSingle {
		v := e.val
		return func(context.Context) Event[T] {
			return Single(v)
		}
	}
	return Cons(e.val, e.tail)
}
