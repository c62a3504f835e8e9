package svar

import (
	"math"
	"time"

	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
	"github.com/virdis/streamly/maybe"
)

// Style selects the evaluation discipline of an SVar.
type Style int8

const (
	// Serial evaluates depth-first in source order on a single thread.
	Serial Style = iota
	// WSerial interleaves branches breadth-first on a single thread.
	WSerial
	// Ahead evaluates speculatively on many workers but publishes in
	// strict source order.
	Ahead
	// Async evaluates depth-first on many workers, arrival order.
	Async
	// WAsync interleaves branches across many workers, arrival order.
	WAsync
	// Parallel dispatches one worker per producer, arrival order.
	Parallel
)

func (s Style) String() string {
	switch s {
	case Serial:
		return "serial"
	case WSerial:
		return "wserial"
	case Ahead:
		return "ahead"
	case Async:
		return "async"
	case WAsync:
		return "wasync"
	case Parallel:
		return "parallel"
	}
	return "unknown"
}

// Concurrent reports whether the style schedules producers on workers.
// Serial and WSerial evaluate in-line and need no SVar.
func (s Style) Concurrent() bool {
	switch s {
	case Ahead, Async, WAsync, Parallel:
		return true
	}
	return false
}

// Defaults for the admission caps. A zero cap in a Config resets to the
// default; a negative cap removes the limit.
const (
	DefaultThreadCap = 1500
	DefaultBufferCap = 1500
)

// defaultLatencyHint seeds the latency estimate until workers report
// real measurements.
const defaultLatencyHint = 10 * time.Microsecond

// Config carries the admission and pacing knobs of an SVar.
// The zero value selects all defaults.
type Config struct {
	// ThreadCap limits concurrent workers. 0 means DefaultThreadCap,
	// negative means unlimited.
	ThreadCap int
	// BufferCap limits buffered output cells. 0 means DefaultBufferCap,
	// negative means unlimited.
	BufferCap int
	// YieldCap, when present, bounds the total number of values the SVar
	// will emit. The budget does not propagate to enclosing scopes.
	YieldCap maybe.Maybe[int64]
	// RateTarget is the target yield rate in values per second.
	// 0 leaves the SVar unpaced.
	RateTarget float64
	// LatencyHint seeds the per-yield latency estimate for the first
	// dispatches. 0 selects a built-in default; afterwards the estimate
	// is measured.
	LatencyHint time.Duration
	// Clock drives pacing and latency measurement. Nil selects the real
	// clock; tests inject a fake one.
	Clock clockwork.Clock
}

// resolve validates a configuration for a style and fills in defaults.
func (cfg Config) resolve(style Style) (Config, error) {
	if style < Serial || style > Parallel {
		return cfg, trace.BadParameter("unknown evaluation style %d", style)
	}
	if cfg.RateTarget < 0 || math.IsNaN(cfg.RateTarget) || math.IsInf(cfg.RateTarget, 0) {
		return cfg, trace.BadParameter("rate target must be a non-negative finite number, got %v", cfg.RateTarget)
	}
	if n, ok := cfg.YieldCap.Value(); ok && n < 0 {
		return cfg, trace.BadParameter("yield cap must not be negative, got %d", n)
	}
	if cfg.ThreadCap == 0 {
		cfg.ThreadCap = DefaultThreadCap
	} else if cfg.ThreadCap < 0 {
		cfg.ThreadCap = -1
	}
	if cfg.BufferCap == 0 {
		cfg.BufferCap = DefaultBufferCap
	} else if cfg.BufferCap < 0 {
		cfg.BufferCap = -1
	}
	if cfg.LatencyHint <= 0 {
		cfg.LatencyHint = defaultLatencyHint
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return cfg, nil
}
