package svar

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"github.com/gravitational/trace"
)

func panicError(r interface{}) error {
	return trace.Errorf("producer panic: %v", r)
}

// workerLoop drains the work queue until it is empty or an admission gate
// closes. Between work items the worker re-checks the gates; a worker
// that steps aside is re-dispatched from the consumer side once the
// buffer drains.
func (sv *SVar[T]) workerLoop(id int64) {
	tracer().Debugf("%s svar: worker %d starting", sv.style, id)
	defer func() {
		sv.workers.Add(-1)
		metricWorkerExit()
		tracer().Debugf("%s svar: worker %d exiting", sv.style, id)
	}()
	for {
		k, seq, ok := sv.queue.dequeue()
		if !ok {
			if sv.style == Ahead && !sv.heap.empty() {
				if !sv.drainHeap(id) {
					return
				}
				if !sv.queue.empty() && sv.keepGoing() {
					continue
				}
			}
			return
		}
		if sv.style == Ahead {
			if !sv.runAhead(id, k, seq) {
				return
			}
		} else {
			if !sv.runDirect(id, k) {
				return
			}
		}
		if !sv.keepGoing() {
			return
		}
	}
}

// keepGoing re-checks the admission gates between work items.
func (sv *SVar[T]) keepGoing() bool {
	if sv.stopped.Load() || sv.failed() {
		return false
	}
	if sv.cfg.BufferCap >= 0 && sv.out.len() >= int64(sv.cfg.BufferCap) {
		return false
	}
	if sv.budgeted && sv.yieldBudget.Load() <= 0 {
		return false
	}
	if sv.cfg.ThreadCap >= 0 && sv.workers.Load() > int64(sv.cfg.ThreadCap) {
		return false
	}
	return sv.pacer.admit(sv.workers.Load())
}

// --- Async / WAsync / Parallel ---------------------------------------------

// runDirect drains one continuation straight into the output buffer.
// On a full buffer the rest of the continuation goes back on the queue
// and the worker steps aside (false return): arrival-order styles have
// no token to keep, so any worker may resume the remainder later.
func (sv *SVar[T]) runDirect(id int64, k Cont[T]) bool {
	start := sv.clock.Now()
	yields := 0
	defer func() {
		if yields > 0 {
			sv.pacer.observe(yields, sv.clock.Now().Sub(start))
		}
	}()
	for {
		if sv.stopped.Load() || sv.failed() {
			sv.retire(id, nil)
			return false
		}
		ev := sv.force(k)
		if ev.Stopped() {
			sv.retire(id, ev.Err())
			return true
		}
		if !sv.admitYield() {
			// budget exhausted: the whole SVar winds down
			sv.retire(id, nil)
			sv.stop()
			return false
		}
		if !sv.out.push(Cell[T]{Value: ev.Value(), Worker: id}) {
			sv.refundYield()
			sv.queue.enqueue(ev.rest())
			metricBufferFull()
			return false
		}
		metricYield()
		yields++
		if ev.Tail() == nil {
			sv.retire(id, nil)
			return true
		}
		k = ev.Tail()
	}
}

// --- Ahead -----------------------------------------------------------------

// runAhead processes one dequeued (continuation, seq) pair under the
// Ahead protocol. The worker holding the token (seq == nextSeq) streams
// values directly to the output buffer; any other worker evaluates at
// most the head of its continuation, parks the result on the heap, and
// returns to scheduling. A false return means the worker must exit.
func (sv *SVar[T]) runAhead(id int64, k Cont[T], seq uint64) bool {
	if sv.stopped.Load() || sv.failed() {
		sv.retire(id, nil)
		return false
	}
	if seq == sv.nextSeq.Load() {
		if !sv.streamToOutput(id, k, seq) {
			return false
		}
		return sv.drainHeap(id)
	}
	// Speculative: one head evaluation, then back to the queue. Bounding
	// non-token workers to a single step per heap insertion keeps them
	// from running away from the token holder.
	ev := sv.force(k)
	if ev.Stopped() {
		sv.retire(id, ev.Err())
		// done marker: the token must still be able to pass this seq
		sv.heap.insert(seq, nil)
	} else {
		sv.heap.insert(seq, ev.rest())
	}
	// The inserted entry may have become the token while we worked;
	// re-check, or a finished token holder may already have left.
	return sv.drainHeap(id)
}

// drainHeap publishes parked entries for as long as the heap head holds
// the token. It stops when the head is beyond the token (the owner is
// still in the queue or in flight) or the heap is empty. A false return
// means the worker must exit.
func (sv *SVar[T]) drainHeap(id int64) bool {
	for {
		next := sv.nextSeq.Load()
		k, ok := sv.heap.popIf(next)
		if !ok {
			return true
		}
		if k == nil {
			// done marker: sequence already retired with no more values
			sv.nextSeq.Add(1)
			continue
		}
		if !sv.streamToOutput(id, k, next) {
			return false
		}
	}
}

// streamToOutput runs a continuation as the token holder, publishing
// every value directly to the output buffer in sequence order. When the
// continuation stops, the token advances. On a full buffer the remaining
// continuation is parked back on the heap under its sequence and the
// worker steps aside (false return).
func (sv *SVar[T]) streamToOutput(id int64, k Cont[T], seq uint64) bool {
	start := sv.clock.Now()
	yields := 0
	defer func() {
		if yields > 0 {
			sv.pacer.observe(yields, sv.clock.Now().Sub(start))
		}
	}()
	for {
		if sv.stopped.Load() || sv.failed() {
			sv.retire(id, nil)
			return false
		}
		ev := sv.force(k)
		if ev.Stopped() {
			sv.retire(id, ev.Err())
			sv.nextSeq.Add(1)
			return true
		}
		if !sv.admitYield() {
			sv.retire(id, nil)
			sv.stop()
			return false
		}
		if !sv.out.push(Cell[T]{Value: ev.Value(), Worker: id}) {
			sv.refundYield()
			sv.heap.insert(seq, ev.rest())
			metricBufferFull()
			return false
		}
		metricYield()
		yields++
		if ev.Tail() == nil {
			sv.retire(id, nil)
			sv.nextSeq.Add(1)
			return true
		}
		k = ev.Tail()
	}
}
