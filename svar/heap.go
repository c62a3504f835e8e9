package svar

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/

import (
	"container/heap"
	"sync"
)

// heapEntry is an out-of-order result parked under the Ahead style:
// either a continuation still to be run under its sequence number, or a
// done marker (nil continuation) recording that the sequence already
// produced everything it ever will. Done markers let the publication
// token pass sequences whose producers stopped without yielding.
type heapEntry[T any] struct {
	k   Cont[T]
	seq uint64
}

// entrySlice implements heap.Interface, min-keyed by sequence number.
type entrySlice[T any] []heapEntry[T]

func (es entrySlice[T]) Len() int            { return len(es) }
func (es entrySlice[T]) Less(i, j int) bool  { return es[i].seq < es[j].seq }
func (es entrySlice[T]) Swap(i, j int)       { es[i], es[j] = es[j], es[i] }
func (es *entrySlice[T]) Push(x interface{}) { *es = append(*es, x.(heapEntry[T])) }
func (es *entrySlice[T]) Pop() interface{} {
	old := *es
	n := len(old)
	e := old[n-1]
	old[n-1] = heapEntry[T]{}
	*es = old[:n-1]
	return e
}

// aheadHeap holds speculative results until the token reaches their
// sequence. The heap owns each stored continuation; popping an entry
// transfers ownership to the extracting worker. Sequence numbers are
// assigned exactly once at enqueue, so no two entries ever collide.
type aheadHeap[T any] struct {
	mu      sync.Mutex
	entries entrySlice[T]
}

func newAheadHeap[T any]() *aheadHeap[T] {
	return &aheadHeap[T]{}
}

// insert parks a continuation (or a done marker, k == nil) under seq.
func (h *aheadHeap[T]) insert(seq uint64, k Cont[T]) {
	h.mu.Lock()
	heap.Push(&h.entries, heapEntry[T]{k: k, seq: seq})
	h.mu.Unlock()
}

// popIf removes the head entry iff it carries exactly seq. It returns the
// stored continuation (nil for a done marker) and whether an entry was
// removed.
func (h *aheadHeap[T]) popIf(seq uint64) (Cont[T], bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 || h.entries[0].seq != seq {
		return nil, false
	}
	e := heap.Pop(&h.entries).(heapEntry[T])
	return e.k, true
}

// minSeq returns the smallest parked sequence number, if any.
func (h *aheadHeap[T]) minSeq() (uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return 0, false
	}
	return h.entries[0].seq, true
}

func (h *aheadHeap[T]) empty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries) == 0
}

func (h *aheadHeap[T]) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
