package svar

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestPacerSeedsFromHint(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	p := newPacer(clockwork.NewFakeClock(), 1000, 2*time.Millisecond)
	if got := p.measuredLatency(); got != 2*time.Millisecond {
		t.Errorf("expected hint latency 2ms, got %v", got)
	}
}

func TestPacerObserveReplacesHintThenSmooths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	p := newPacer(clockwork.NewFakeClock(), 0, time.Millisecond)
	p.observe(4, 8*time.Millisecond) // 2ms per yield
	if got := p.measuredLatency(); got != 2*time.Millisecond {
		t.Errorf("expected first sample to replace the hint, got %v", got)
	}
	p.observe(1, 10*time.Millisecond)
	got := p.measuredLatency()
	if got <= 2*time.Millisecond || got >= 10*time.Millisecond {
		t.Errorf("expected smoothed latency between the samples, got %v", got)
	}
}

func TestPacerAdmitGatesOnExpectedRate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	// 10ms per yield => one worker produces 100/s
	p := newPacer(clockwork.NewFakeClock(), 250, 10*time.Millisecond)
	if !p.admit(1) {
		t.Error("expected a single worker to always be admitted")
	}
	if !p.admit(2) {
		t.Error("expected 2 workers (200/s) under a 250/s target")
	}
	if p.admit(3) {
		t.Error("expected 3 workers (300/s) to exceed a 250/s target")
	}
}

func TestPacerUnpacedAdmitsAnything(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	p := newPacer(clockwork.NewFakeClock(), 0, time.Nanosecond)
	if !p.admit(10000) {
		t.Error("expected an unpaced svar to admit any worker count")
	}
}
