package stream

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/virdis/streamly/maybe"
)

// The configuration knobs travel with the stream value and take effect
// when a concurrent composition is forced. For every count knob, 0
// resets to the default and a negative value removes the limit. Apply
// knobs to the concurrent stream itself, before wrapping it in further
// transforms.

// MaxThreads caps the number of concurrent workers.
func (s Stream[T]) MaxThreads(n int) Stream[T] {
	s.cfg.ThreadCap = n
	return s
}

// MaxBuffer caps the number of buffered output values.
func (s Stream[T]) MaxBuffer(n int) Stream[T] {
	s.cfg.BufferCap = n
	return s
}

// MaxYields bounds the total number of values the composition will
// emit; Nothing removes the bound. The budget applies to the immediate
// composition only and does not propagate to enclosing scopes.
func (s Stream[T]) MaxYields(n maybe.Maybe[int64]) Stream[T] {
	s.cfg.YieldCap = n
	return s
}

// MaxRate sets a target yield rate in values per second; 0 removes it.
func (s Stream[T]) MaxRate(r float64) Stream[T] {
	s.cfg.RateTarget = r
	return s
}

// SerialLatency seeds the per-yield latency estimate used for pacing
// before any real measurements arrive.
func (s Stream[T]) SerialLatency(d time.Duration) Stream[T] {
	s.cfg.LatencyHint = d
	return s
}

// WithClock injects the clock used for pacing and latency measurement.
// Tests use a fake clock.
func (s Stream[T]) WithClock(c clockwork.Clock) Stream[T] {
	s.cfg.Clock = c
	return s
}
