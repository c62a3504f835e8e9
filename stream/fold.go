package stream

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"context"

	"github.com/virdis/streamly/maybe"
)

// reduce is the common consumer loop: it forces the stream element by
// element until the stream stops, the context ends, or f asks to stop.
// Abandoning a concurrent stream early leaves its workers to wind down
// on backpressure. A context cancelled while the consumer waits inside a
// concurrent stream stops that stream's SVar; a cancellation seen between
// elements only ends this loop, and the workers are not signalled.
func reduce[T any](ctx context.Context, s Stream[T], f func(T) bool) error {
	k := s.cont()
	for k != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := k(ctx)
		if ev.Stopped() {
			return ev.Err()
		}
		if !f(ev.Value()) {
			return nil
		}
		k = ev.Tail()
	}
	return nil
}

// ToSlice collects every element. On failure the elements consumed
// before it are returned alongside the error.
func ToSlice[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	err := reduce(ctx, s, func(v T) bool {
		out = append(out, v)
		return true
	})
	return out, err
}

// Each calls f on every element.
func Each[T any](ctx context.Context, s Stream[T], f func(T)) error {
	return reduce(ctx, s, func(v T) bool {
		f(v)
		return true
	})
}

// Fold reduces the stream left-to-right.
func Fold[A, T any](ctx context.Context, s Stream[T], init A, f func(A, T) A) (A, error) {
	acc := init
	err := reduce(ctx, s, func(v T) bool {
		acc = f(acc, v)
		return true
	})
	return acc, err
}

// Count consumes the stream and returns the number of elements.
func Count[T any](ctx context.Context, s Stream[T]) (int64, error) {
	var n int64
	err := reduce(ctx, s, func(T) bool {
		n++
		return true
	})
	return n, err
}

// Drain consumes the stream for its effects.
func Drain[T any](ctx context.Context, s Stream[T]) error {
	return reduce(ctx, s, func(T) bool {
		return true
	})
}

// First returns the first element, if any. The rest of the stream is
// abandoned.
func First[T any](ctx context.Context, s Stream[T]) (maybe.Maybe[T], error) {
	res := maybe.Nothing[T]()
	err := reduce(ctx, s, func(v T) bool {
		res = maybe.Just(v)
		return false
	})
	return res, err
}
