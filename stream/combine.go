package stream

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"context"

	"github.com/gravitational/trace"
	"github.com/virdis/streamly/svar"
)

// Combine composes two streams under a style's monoid operation: append
// for Serial, element-wise interleave for WSerial, and scheduled
// evaluation on an SVar for the concurrent styles.
//
// Left-associated concurrent chains flatten into a single pending
// composition, so `Combine(st, Combine(st, a, b), c)` schedules one SVar
// with three producers instead of nesting SVars.
func Combine[T any](style Style, l, r Stream[T]) Stream[T] {
	if !style.Concurrent() {
		switch style {
		case WSerial:
			return Stream[T]{k: interleaveConts(l.cont(), r.cont()), cfg: l.cfg}
		case Serial:
			return Stream[T]{k: appendConts(l.cont(), r.cont()), cfg: l.cfg}
		}
		return Fail[T](trace.BadParameter("unknown evaluation style %d", style))
	}
	if len(l.ops) > 0 && l.style == style {
		ops := make([]Stream[T], 0, len(l.ops)+1)
		ops = append(ops, l.ops...)
		ops = append(ops, r)
		return Stream[T]{ops: ops, style: style, cfg: l.cfg}
	}
	return Stream[T]{ops: []Stream[T]{l, r}, style: style, cfg: l.cfg}
}

// appendConts runs a to completion, then b.
func appendConts[T any](a, b svar.Cont[T]) svar.Cont[T] {
	return func(ctx context.Context) svar.Event[T] {
		ev := a(ctx)
		if ev.Stopped() {
			if ev.Err() != nil {
				return ev
			}
			return b(ctx)
		}
		if ev.Tail() == nil {
			return svar.Yield(ev.Value(), b)
		}
		return svar.Yield(ev.Value(), appendConts(ev.Tail(), b))
	}
}

// interleaveConts alternates elements of a and b, one at a time,
// continuing with the survivor when one side ends.
func interleaveConts[T any](a, b svar.Cont[T]) svar.Cont[T] {
	return func(ctx context.Context) svar.Event[T] {
		ev := a(ctx)
		if ev.Stopped() {
			if ev.Err() != nil {
				return ev
			}
			return b(ctx)
		}
		if ev.Tail() == nil {
			return svar.Yield(ev.Value(), b)
		}
		return svar.Yield(ev.Value(), interleaveConts(b, ev.Tail()))
	}
}

// scheduled lowers a pending concurrent composition: on first force it
// creates the SVar, pushes every operand in source order, and pulls the
// results back as a sequential stream.
func scheduled[T any](style Style, cfg svar.Config, ops []Stream[T]) svar.Cont[T] {
	return func(ctx context.Context) svar.Event[T] {
		sv, err := svar.New[T](style, cfg)
		if err != nil {
			return svar.Fail[T](err)
		}
		tracer().Debugf("scheduling %d producers on a %s svar", len(ops), style)
		for _, op := range ops {
			sv.Push(op.cont())
		}
		return bridge(sv)(ctx)
	}
}

// bridge pulls batches of cells from an SVar and re-exposes them as a
// plain sequential stream. Stop cells account for retired producers; a
// failure surfaces after the values buffered ahead of it, and exactly
// once.
func bridge[T any](sv *svar.SVar[T]) svar.Cont[T] {
	var step svar.Cont[T]
	var emit func(ctx context.Context, cells []svar.Cell[T], i int) svar.Event[T]

	step = func(ctx context.Context) svar.Event[T] {
		for {
			cells := sv.PullBatch()
			if len(cells) > 0 {
				return emit(ctx, cells, 0)
			}
			if sv.Stopped() || sv.Quiesced() {
				// a producer may have retired between the pull and the
				// check; drain once more before concluding
				if cells = sv.PullBatch(); len(cells) > 0 {
					return emit(ctx, cells, 0)
				}
				sv.Cancel()
				if err := sv.Failure(); err != nil {
					return svar.Fail[T](trace.Wrap(err))
				}
				tracer().Debugf("%s stream drained", sv.Style())
				return svar.Stop[T]()
			}
			if err := sv.Await(ctx); err != nil {
				sv.Cancel()
				return svar.Fail[T](err)
			}
		}
	}

	emit = func(ctx context.Context, cells []svar.Cell[T], i int) svar.Event[T] {
		for ; i < len(cells); i++ {
			c := cells[i]
			if c.Stop {
				if c.Err != nil {
					sv.Cancel()
					return svar.Fail[T](trace.Wrap(c.Err))
				}
				continue
			}
			rest := i + 1
			return svar.Yield(c.Value, func(ctx context.Context) svar.Event[T] {
				return emit(ctx, cells, rest)
			})
		}
		return step(ctx)
	}

	return step
}

// FromSVar exposes an existing SVar as a sequential stream. The SVar
// must be consumed from a single goroutine.
func FromSVar[T any](sv *svar.SVar[T]) Stream[T] {
	return Stream[T]{k: bridge(sv)}
}

// ConcatMapWith is monadic bind under a style: every outer value a is
// expanded into the inner stream f(a), evaluated under the same style.
// Under a concurrent style the inner producers are spawned onto the same
// SVar, giving concurrency across iterations while preserving the
// style's ordering guarantee.
func ConcatMapWith[T, S any](style Style, s Stream[T], f func(T) Stream[S]) Stream[S] {
	if !style.Concurrent() {
		switch style {
		case WSerial:
			return Stream[S]{k: bindCont(s.cont(), f, interleaveConts[S])}
		case Serial:
			return Stream[S]{k: bindCont(s.cont(), f, appendConts[S])}
		}
		return Fail[S](trace.BadParameter("unknown evaluation style %d", style))
	}
	cfg := s.cfg
	outer := s.cont()
	return Stream[S]{k: func(ctx context.Context) svar.Event[S] {
		sv, err := svar.New[S](style, cfg)
		if err != nil {
			return svar.Fail[S](err)
		}
		sv.Push(drive(outer, f, sv))
		return bridge(sv)(ctx)
	}}
}

// bindCont expands outer values serially, joining inner streams with
// the given composition (append or interleave).
func bindCont[T, S any](k svar.Cont[T], f func(T) Stream[S],
	join func(a, b svar.Cont[S]) svar.Cont[S]) svar.Cont[S] {
	//
	return func(ctx context.Context) svar.Event[S] {
		ev := k(ctx)
		if ev.Stopped() {
			if err := ev.Err(); err != nil {
				return svar.Fail[S](err)
			}
			return svar.Stop[S]()
		}
		inner := f(ev.Value()).cont()
		if ev.Tail() == nil {
			return inner(ctx)
		}
		return join(inner, bindCont(ev.Tail(), f, join))(ctx)
	}
}

// drive walks one step of the outer stream as a work item on sv: it
// spawns the inner producer for the value, re-enqueues itself for the
// rest, and retires. It yields nothing; under Ahead its sequence numbers
// pass through as done markers, keeping inner values in iteration order.
func drive[T, S any](k svar.Cont[T], f func(T) Stream[S], sv *svar.SVar[S]) svar.Cont[S] {
	return func(ctx context.Context) svar.Event[S] {
		ev := k(ctx)
		if ev.Stopped() {
			if err := ev.Err(); err != nil {
				return svar.Fail[S](err)
			}
			return svar.Stop[S]()
		}
		sv.Push(f(ev.Value()).cont())
		if tail := ev.Tail(); tail != nil {
			sv.Push(drive(tail, f, sv))
		}
		return svar.Stop[S]()
	}
}
