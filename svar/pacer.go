package svar

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// pacer gates worker dispatch to hold the yield rate near a target.
// The expected rate of n workers is n / latency, where latency is a
// rolling estimate of wall-clock per yield, seeded by a hint and updated
// after every worker finishes a work item. One worker is always
// admitted, otherwise a paced SVar could never make progress.
type pacer struct {
	clock clockwork.Clock
	rate  float64 // target yields/second; <= 0 means unpaced

	mu      sync.Mutex
	latency time.Duration
	samples int
}

func newPacer(clock clockwork.Clock, rate float64, hint time.Duration) *pacer {
	return &pacer{
		clock:   clock,
		rate:    rate,
		latency: hint,
	}
}

// admit reports whether n concurrent workers stay within the target
// rate.
func (p *pacer) admit(n int64) bool {
	if p.rate <= 0 || n <= 1 {
		return true
	}
	lat := p.measuredLatency()
	if lat <= 0 {
		lat = defaultLatencyHint
	}
	expected := float64(n) / lat.Seconds()
	return expected <= p.rate
}

// observe folds a worker's measured wall-clock per yield into the
// rolling latency estimate.
func (p *pacer) observe(yields int, elapsed time.Duration) {
	if yields <= 0 || elapsed < 0 {
		return
	}
	per := elapsed / time.Duration(yields)
	p.mu.Lock()
	if p.samples == 0 {
		p.latency = per
	} else {
		p.latency = (p.latency*7 + per) / 8
	}
	p.samples++
	p.mu.Unlock()
	metricLatency(per)
}

// measuredLatency returns the current per-yield latency estimate.
func (p *pacer) measuredLatency() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latency
}
