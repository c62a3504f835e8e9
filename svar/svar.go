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
	"github.com/jonboulle/clockwork"
)

// SVar is the per-stream coordination object: output buffer, work queue,
// ordering heap (Ahead), admission caps, pacing, and worker bookkeeping.
// Producers are pushed as continuations; the consumer pulls cells in
// batches from a single goroutine.
type SVar[T any] struct {
	style Style
	cfg   Config
	clock clockwork.Clock

	out   *outBuf[T]
	queue workQueue[T]
	heap  *aheadHeap[T]

	// nextSeq is the sequence number holding the publication token
	// (Ahead only). Only the worker owning this sequence writes values
	// to the output buffer; it advances the counter when its sequence
	// retires.
	nextSeq atomix.Uint64

	workers  atomix.Int64
	workerID atomix.Int64
	// live counts continuations pushed but not yet retired. Zero means
	// every producer has reported its stop.
	live atomix.Int64

	// yieldBudget is the remaining yield cap; negative means unlimited.
	yieldBudget atomix.Int64
	budgeted    bool

	pacer *pacer

	stopped  atomix.Bool
	done     chan struct{}
	stopOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc

	// failure is write-once: the first producer failure observed.
	failMu  sync.Mutex
	failure error
}

// New creates an SVar for a concurrent style. The configuration is
// validated here and an unknown style is rejected. Serial and WSerial
// are accepted and scheduled on a FIFO queue like WAsync; the stream
// package evaluates them in-line and never creates an SVar for them.
func New[T any](style Style, cfg Config) (*SVar[T], error) {
	rc, err := cfg.resolve(style)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	sv := &SVar[T]{
		style:  style,
		cfg:    rc,
		clock:  rc.Clock,
		out:    newOutBuf[T](rc.BufferCap),
		queue:  newWorkQueue[T](style),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		pacer:  newPacer(rc.Clock, rc.RateTarget, rc.LatencyHint),
	}
	if style == Ahead {
		sv.heap = newAheadHeap[T]()
	}
	if n, ok := rc.YieldCap.Value(); ok {
		sv.budgeted = true
		sv.yieldBudget.Store(n)
	} else {
		sv.yieldBudget.Store(-1)
	}
	metricSVarOpen()
	if sv.budgeted && sv.yieldBudget.Load() == 0 {
		sv.stop()
	}
	tracer().Debugf("new %s svar, threads=%d buffer=%d", style, rc.ThreadCap, rc.BufferCap)
	return sv, nil
}

// Style returns the SVar's evaluation style.
func (sv *SVar[T]) Style() Style {
	return sv.style
}

// Push enqueues a producer continuation and dispatches workers as the
// admission caps allow. Push never blocks on buffer space; backpressure
// reaches producers through the buffer's do-not-continue signal.
func (sv *SVar[T]) Push(k Cont[T]) {
	if sv.stopped.Load() {
		return
	}
	sv.live.Add(1)
	seq := sv.queue.enqueue(k)
	tracer().Debugf("%s svar: queued work, seq=%d live=%d", sv.style, seq, sv.live.Load())
	sv.dispatch()
}

// PullBatch drains whatever cells are buffered, in one acquisition, and
// re-arms worker dispatch now that the consumer has made room. It never
// blocks; an empty result means the consumer should check Quiesced and
// otherwise Await.
func (sv *SVar[T]) PullBatch() []Cell[T] {
	cells := sv.out.pull()
	if !sv.stopped.Load() {
		sv.dispatch()
	}
	return cells
}

// Await parks the consumer until output arrives, the SVar shuts down, or
// the context is cancelled.
func (sv *SVar[T]) Await(ctx context.Context) error {
	return sv.out.await(ctx, sv.done)
}

// Quiesced reports whether every pushed continuation has retired.
// Buffered cells may still be pending; pull before trusting an end.
func (sv *SVar[T]) Quiesced() bool {
	return sv.live.Load() <= 0
}

// Stopped reports whether the SVar has shut down.
func (sv *SVar[T]) Stopped() bool {
	return sv.stopped.Load()
}

// Buffered returns the number of cells currently in the output buffer.
func (sv *SVar[T]) Buffered() int64 {
	return sv.out.len()
}

// Failure returns the first producer failure observed, if any.
func (sv *SVar[T]) Failure() error {
	sv.failMu.Lock()
	defer sv.failMu.Unlock()
	return sv.failure
}

func (sv *SVar[T]) failed() bool {
	return sv.Failure() != nil
}

// Cancel marks the SVar stopped on behalf of a consumer dropping the
// stream. Workers observe the flag on their next push or scheduling
// attempt and exit.
func (sv *SVar[T]) Cancel() {
	sv.stop()
}

func (sv *SVar[T]) stop() {
	sv.stopOnce.Do(func() {
		sv.stopped.Store(true)
		sv.cancel()
		close(sv.done)
		metricSVarClose()
		tracer().Debugf("%s svar stopped\n%s", sv.style, sv.dump())
	})
}

// recordFailure stores the first producer failure. Once set, no further
// yields are admitted; workers observe it and exit. The SVar is not
// stopped here: buffered values stay pullable and the consumer surfaces
// the failure after draining them.
func (sv *SVar[T]) recordFailure(err error) {
	sv.failMu.Lock()
	if sv.failure == nil {
		sv.failure = err
	}
	sv.failMu.Unlock()
	metricFailure()
	sv.out.signal()
}

// --- Admission -------------------------------------------------------------

// dispatch spawns workers while queued work is pending and every
// admission gate holds: thread cap, buffer cap, yield budget, pacing.
// Under Ahead a heap entry holding the token also counts as pending, so
// parked token work is always picked back up.
func (sv *SVar[T]) dispatch() {
	for {
		pending := sv.queue.length()
		if pending == 0 && sv.style == Ahead {
			if s, ok := sv.heap.minSeq(); ok && s == sv.nextSeq.Load() {
				pending = 1
			}
		}
		if pending == 0 {
			return
		}
		n := sv.workers.Load()
		// live bounds useful parallelism: one worker per outstanding
		// continuation, whether queued, parked, or in flight
		if n >= sv.live.Load() {
			return
		}
		if !sv.admit(n + 1) {
			return
		}
		if !sv.workers.CompareAndSwapAcqRel(n, n+1) {
			continue
		}
		id := sv.workerID.Add(1)
		metricDispatch()
		go sv.workerLoop(id)
	}
}

// admit checks every admission gate for a worker population of n.
func (sv *SVar[T]) admit(n int64) bool {
	if sv.stopped.Load() || sv.failed() {
		return false
	}
	if sv.cfg.ThreadCap >= 0 && n > int64(sv.cfg.ThreadCap) {
		return false
	}
	if sv.cfg.BufferCap >= 0 && sv.out.len() >= int64(sv.cfg.BufferCap) {
		return false
	}
	if sv.budgeted && sv.yieldBudget.Load() <= 0 {
		return false
	}
	return sv.pacer.admit(n)
}

// admitYield consumes one unit of the yield budget. A false return means
// the budget is exhausted and the SVar must wind down.
func (sv *SVar[T]) admitYield() bool {
	if !sv.budgeted {
		return true
	}
	for {
		b := sv.yieldBudget.Load()
		if b <= 0 {
			return false
		}
		if sv.yieldBudget.CompareAndSwapAcqRel(b, b-1) {
			return true
		}
	}
}

// refundYield returns one unit after a yield was admitted but could not
// be delivered.
func (sv *SVar[T]) refundYield() {
	if sv.budgeted {
		sv.yieldBudget.Add(1)
	}
}

// --- Worker support --------------------------------------------------------

// retire delivers a worker's stop cell and takes its continuation out of
// the live count. err, when non-nil, is the producer failure.
func (sv *SVar[T]) retire(id int64, err error) {
	if err != nil {
		sv.recordFailure(err)
	}
	sv.out.pushWait(Cell[T]{Stop: true, Worker: id, Err: err}, sv.done)
	sv.live.Add(-1)
	sv.out.signal()
}

// force runs one step of a continuation, converting a panic in producer
// code into a failure event.
func (sv *SVar[T]) force(k Cont[T]) (ev Event[T]) {
	defer func() {
		if r := recover(); r != nil {
			ev = Fail[T](panicError(r))
		}
	}()
	return k(sv.ctx)
}
