package svar

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestHeapOrdersBySequence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	h := newAheadHeap[int]()
	h.insert(5, Cons(50, noopCont()))
	h.insert(2, Cons(20, noopCont()))
	h.insert(9, Cons(90, noopCont()))
	if s, ok := h.minSeq(); !ok || s != 2 {
		t.Errorf("expected min sequence 2, got %d (ok=%v)", s, ok)
	}
}

func TestHeapPopIfMatchesExactly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	h := newAheadHeap[int]()
	h.insert(3, Cons(30, noopCont()))
	if _, ok := h.popIf(2); ok {
		t.Error("expected popIf(2) to refuse when head is 3")
	}
	k, ok := h.popIf(3)
	if !ok {
		t.Fatal("expected popIf(3) to pop the head, didn't")
	}
	if ev := k(context.Background()); ev.Value() != 30 {
		t.Errorf("expected popped continuation to yield 30, got %d", ev.Value())
	}
	if !h.empty() {
		t.Error("expected heap to be empty after pop")
	}
}

func TestHeapDoneMarker(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	h := newAheadHeap[int]()
	h.insert(0, nil)
	k, ok := h.popIf(0)
	if !ok {
		t.Fatal("expected to pop the done marker, didn't")
	}
	if k != nil {
		t.Error("expected a done marker to carry no continuation")
	}
}
