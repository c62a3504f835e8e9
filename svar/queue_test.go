package svar

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func noopCont() Cont[int] {
	return func(context.Context) Event[int] {
		return Stop[int]()
	}
}

func TestQueueAsyncIsLIFO(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	q := newWorkQueue[int](Async)
	first := Cons(1, noopCont())
	second := Cons(2, noopCont())
	q.enqueue(first)
	q.enqueue(second)
	k, _, ok := q.dequeue()
	if !ok {
		t.Fatal("expected to dequeue from a non-empty queue, didn't")
	}
	if ev := k(context.Background()); ev.Value() != 2 {
		t.Errorf("expected async queue to pop newest first, got %d", ev.Value())
	}
}

func TestQueueWAsyncIsFIFO(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	q := newWorkQueue[int](WAsync)
	q.enqueue(Cons(1, noopCont()))
	q.enqueue(Cons(2, noopCont()))
	k, _, ok := q.dequeue()
	if !ok {
		t.Fatal("expected to dequeue from a non-empty queue, didn't")
	}
	if ev := k(context.Background()); ev.Value() != 1 {
		t.Errorf("expected wasync queue to pop oldest first, got %d", ev.Value())
	}
}

func TestQueueAheadAssignsSequenceNumbers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.svar")
	defer teardown()
	//
	q := newWorkQueue[int](Ahead)
	for i := 0; i < 3; i++ {
		q.enqueue(noopCont())
	}
	for want := uint64(0); want < 3; want++ {
		_, seq, ok := q.dequeue()
		if !ok {
			t.Fatalf("expected 3 queue entries, ran out at %d", want)
		}
		if seq != want {
			t.Errorf("expected sequence %d, got %d", want, seq)
		}
	}
	if !q.empty() {
		t.Error("expected queue to be empty after draining")
	}
}
