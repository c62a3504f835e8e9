package svar

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"context"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
	"code.hybscloud.com/spin"
)

// Cell is what workers deliver to the consumer: a yielded value, or a
// worker's stop notice optionally carrying the producer failure.
type Cell[T any] struct {
	Value  T
	Err    error
	Worker int64
	Stop   bool
}

// pushSpinBudget bounds the spin phase of pushWait before parking.
const pushSpinBudget = 64

// outBuf is the bounded MPSC buffer carrying cells from workers to the
// single consumer. A bounded buffer sits on a lock-free MPSC queue; an
// unlimited one (cap < 0) falls back to a swapped slice, since the
// lock-free queue is bounded by construction.
//
// A failed push is the do-not-continue signal: the producer must park or
// step aside instead of producing more.
type outBuf[T any] struct {
	q     *lfq.MPSC[Cell[T]]
	mu    sync.Mutex
	cells []Cell[T]
	count atomix.Int64
	cap   int
	wake  chan struct{} // consumer wakeup, one slot
	room  chan struct{} // producer wakeup after a drain, one slot
}

func newOutBuf[T any](capacity int) *outBuf[T] {
	b := &outBuf[T]{
		cap:  capacity,
		wake: make(chan struct{}, 1),
		room: make(chan struct{}, 1),
	}
	if capacity >= 0 {
		n := capacity
		if n < 2 {
			n = 2
		}
		b.q = lfq.NewMPSC[Cell[T]](n)
	}
	return b
}

// push delivers one cell without blocking. A false return means the
// buffer is full; the caller must not continue producing.
func (b *outBuf[T]) push(c Cell[T]) bool {
	if b.cap >= 0 && b.count.Load() >= int64(b.cap) {
		return false
	}
	if b.q != nil {
		if err := b.q.Enqueue(&c); err != nil {
			return false
		}
	} else {
		b.mu.Lock()
		b.cells = append(b.cells, c)
		b.mu.Unlock()
	}
	b.count.Add(1)
	b.signal()
	return true
}

// pushWait delivers one cell, spinning briefly and then parking until the
// consumer makes room. Used for cells that must not be dropped or
// re-buffered (the stop notices sent on retire). Returns false if the
// SVar shut down while waiting.
func (b *outBuf[T]) pushWait(c Cell[T], done <-chan struct{}) bool {
	sw := spin.Wait{}
	for i := 0; i < pushSpinBudget; i++ {
		if b.push(c) {
			return true
		}
		sw.Once()
	}
	for {
		if b.push(c) {
			return true
		}
		select {
		case <-b.room:
		case <-done:
			return false
		}
	}
}

// pull drains every buffered cell in one acquisition. Batching is the
// point: the consumer amortises synchronisation over the whole batch.
// Cells come out in insertion order.
func (b *outBuf[T]) pull() []Cell[T] {
	var out []Cell[T]
	if b.q != nil {
		for {
			c, err := b.q.Dequeue()
			if err != nil {
				break
			}
			out = append(out, c)
		}
	} else {
		b.mu.Lock()
		out = b.cells
		b.cells = nil
		b.mu.Unlock()
	}
	if len(out) > 0 {
		b.count.Add(-int64(len(out)))
		select {
		case b.room <- struct{}{}:
		default:
		}
	}
	return out
}

// len returns the current number of buffered cells.
func (b *outBuf[T]) len() int64 {
	return b.count.Load()
}

// signal wakes the consumer if it is parked on an empty buffer.
func (b *outBuf[T]) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// await parks the consumer until a producer signals output, the SVar
// shuts down, or the context is cancelled.
func (b *outBuf[T]) await(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-b.wake:
		return nil
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
