package stream

import (
	"context"

	streamly "github.com/virdis/streamly"
	"github.com/virdis/streamly/svar"
)

// Zip pairs two streams element-wise, stopping with the shorter one.
// Zipping is serial: both sides are pulled in lock-step.
func Zip[A, B any](sa Stream[A], sb Stream[B]) Stream[streamly.Pair[A, B]] {
	return Stream[streamly.Pair[A, B]]{k: zipConts(sa.cont(), sb.cont())}
}

func zipConts[A, B any](ka svar.Cont[A], kb svar.Cont[B]) svar.Cont[streamly.Pair[A, B]] {
	return func(ctx context.Context) svar.Event[streamly.Pair[A, B]] {
		eva := ka(ctx)
		if eva.Stopped() {
			if err := eva.Err(); err != nil {
				return svar.Fail[streamly.Pair[A, B]](err)
			}
			return svar.Stop[streamly.Pair[A, B]]()
		}
		evb := kb(ctx)
		if evb.Stopped() {
			if err := evb.Err(); err != nil {
				return svar.Fail[streamly.Pair[A, B]](err)
			}
			return svar.Stop[streamly.Pair[A, B]]()
		}
		p := streamly.P(eva.Value(), evb.Value())
		if eva.Tail() == nil || evb.Tail() == nil {
			return svar.Single(p)
		}
		return svar.Yield(p, zipConts(eva.Tail(), evb.Tail()))
	}
}
