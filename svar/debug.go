package svar

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// dump renders the scheduler state as a tree, for trace output.
func (sv *SVar[T]) dump() string {
	printer := tp.New()
	root := printer.AddBranch(fmt.Sprintf("svar(%s)", sv.style))
	root.AddNode(fmt.Sprintf("workers=%d live=%d", sv.workers.Load(), sv.live.Load()))
	root.AddNode(fmt.Sprintf("queued=%d buffered=%d", sv.queue.length(), sv.Buffered()))
	if sv.heap != nil {
		h := root.AddBranch("heap")
		h.AddNode(fmt.Sprintf("size=%d", sv.heap.size()))
		if s, ok := sv.heap.minSeq(); ok {
			h.AddNode(fmt.Sprintf("min=%d token=%d", s, sv.nextSeq.Load()))
		}
	}
	if sv.budgeted {
		root.AddNode(fmt.Sprintf("yields left=%d", sv.yieldBudget.Load()))
	}
	if err := sv.Failure(); err != nil {
		root.AddNode(fmt.Sprintf("failure=%v", err))
	}
	return printer.String()
}
