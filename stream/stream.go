package stream

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"context"

	"github.com/virdis/streamly/svar"
)

// Style selects the evaluation discipline of a composition.
type Style = svar.Style

// The evaluation styles, re-exported for call sites that only import
// this package.
const (
	Serial   = svar.Serial
	WSerial  = svar.WSerial
	Ahead    = svar.Ahead
	Async    = svar.Async
	WAsync   = svar.WAsync
	Parallel = svar.Parallel
)

// Stream is a lazy stream of values. The zero value is the empty
// stream. Streams are value types: combinators and configuration knobs
// return new streams and never mutate their input.
//
// A stream is either a plain producer continuation or a pending
// concurrent composition; the latter materialises an SVar when the
// stream is first forced, so running the same stream value twice
// evaluates the producers twice, independently.
type Stream[T any] struct {
	k     svar.Cont[T]
	ops   []Stream[T]
	style svar.Style
	cfg   svar.Config
}

// cont lowers a stream to a producer continuation, scheduling a pending
// concurrent composition under the stream's configuration.
func (s Stream[T]) cont() svar.Cont[T] {
	if len(s.ops) > 0 {
		return scheduled(s.style, s.cfg, s.ops)
	}
	if s.k == nil {
		return stopCont[T]()
	}
	return s.k
}

func stopCont[T any]() svar.Cont[T] {
	return func(context.Context) svar.Event[T] {
		return svar.Stop[T]()
	}
}

// --- Constructors ----------------------------------------------------------

// Empty is the stream with no values.
func Empty[T any]() Stream[T] {
	return Stream[T]{}
}

// Fail is the stream that immediately reports err.
func Fail[T any](err error) Stream[T] {
	return Stream[T]{k: func(context.Context) svar.Event[T] {
		return svar.Fail[T](err)
	}}
}

// Of builds a stream of the given values.
func Of[T any](vals ...T) Stream[T] {
	return FromSlice(vals)
}

// FromSlice builds a stream over a slice. The slice is not copied.
func FromSlice[T any](vals []T) Stream[T] {
	return Stream[T]{k: sliceCont(vals, 0)}
}

func sliceCont[T any](vals []T, i int) svar.Cont[T] {
	return func(context.Context) svar.Event[T] {
		if i >= len(vals) {
			return svar.Stop[T]()
		}
		if i == len(vals)-1 {
			return svar.Single(vals[i])
		}
		return svar.Yield(vals[i], sliceCont(vals, i+1))
	}
}

// Unfold builds a stream from a seed. step returns the next value, the
// next seed, and whether a value was produced; false ends the stream.
func Unfold[S, T any](seed S, step func(S) (T, S, bool)) Stream[T] {
	return Stream[T]{k: unfoldCont(seed, step)}
}

func unfoldCont[S, T any](seed S, step func(S) (T, S, bool)) svar.Cont[T] {
	return func(context.Context) svar.Event[T] {
		v, next, ok := step(seed)
		if !ok {
			return svar.Stop[T]()
		}
		return svar.Yield(v, unfoldCont(next, step))
	}
}

// Iterate builds the infinite stream x, f(x), f(f(x)), …
func Iterate[T any](x T, f func(T) T) Stream[T] {
	return Stream[T]{k: iterateCont(x, f)}
}

func iterateCont[T any](x T, f func(T) T) svar.Cont[T] {
	return func(context.Context) svar.Event[T] {
		return svar.Yield(x, iterateCont(f(x), f))
	}
}

// FromCont wraps a raw producer continuation as a stream. Producers
// built elsewhere (or pulled from an SVar) enter the surface algebra
// through this.
func FromCont[T any](k svar.Cont[T]) Stream[T] {
	return Stream[T]{k: k}
}

// --- Transforms ------------------------------------------------------------

// Map applies f to every element.
func Map[T, S any](s Stream[T], f func(T) S) Stream[S] {
	return Stream[S]{k: mapCont(s.cont(), f)}
}

func mapCont[T, S any](k svar.Cont[T], f func(T) S) svar.Cont[S] {
	return func(ctx context.Context) svar.Event[S] {
		ev := k(ctx)
		if ev.Stopped() {
			if err := ev.Err(); err != nil {
				return svar.Fail[S](err)
			}
			return svar.Stop[S]()
		}
		if ev.Tail() == nil {
			return svar.Single(f(ev.Value()))
		}
		return svar.Yield(f(ev.Value()), mapCont(ev.Tail(), f))
	}
}

// Filter keeps the elements matching pred.
func Filter[T any](s Stream[T], pred func(T) bool) Stream[T] {
	return Stream[T]{k: filterCont(s.cont(), pred)}
}

func filterCont[T any](k svar.Cont[T], pred func(T) bool) svar.Cont[T] {
	return func(ctx context.Context) svar.Event[T] {
		for {
			ev := k(ctx)
			if ev.Stopped() {
				return ev
			}
			if pred(ev.Value()) {
				if ev.Tail() == nil {
					return svar.Single(ev.Value())
				}
				return svar.Yield(ev.Value(), filterCont(ev.Tail(), pred))
			}
			if ev.Tail() == nil {
				return svar.Stop[T]()
			}
			k = ev.Tail()
		}
	}
}

// Take truncates the stream after n elements. On a concurrent stream
// prefer MaxYields, which also winds the producers down.
func Take[T any](s Stream[T], n int) Stream[T] {
	return Stream[T]{k: takeCont(s.cont(), n)}
}

func takeCont[T any](k svar.Cont[T], n int) svar.Cont[T] {
	return func(ctx context.Context) svar.Event[T] {
		if n <= 0 {
			return svar.Stop[T]()
		}
		ev := k(ctx)
		if ev.Stopped() {
			return ev
		}
		if n == 1 || ev.Tail() == nil {
			return svar.Single(ev.Value())
		}
		return svar.Yield(ev.Value(), takeCont(ev.Tail(), n-1))
	}
}

// TakeWhile keeps the longest prefix matching pred.
func TakeWhile[T any](s Stream[T], pred func(T) bool) Stream[T] {
	return Stream[T]{k: takeWhileCont(s.cont(), pred)}
}

func takeWhileCont[T any](k svar.Cont[T], pred func(T) bool) svar.Cont[T] {
	return func(ctx context.Context) svar.Event[T] {
		ev := k(ctx)
		if ev.Stopped() {
			return ev
		}
		if !pred(ev.Value()) {
			return svar.Stop[T]()
		}
		if ev.Tail() == nil {
			return svar.Single(ev.Value())
		}
		return svar.Yield(ev.Value(), takeWhileCont(ev.Tail(), pred))
	}
}
