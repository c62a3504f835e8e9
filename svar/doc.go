/*
Package svar implements the concurrent scheduling substrate behind the
streamly evaluation styles. The central object is the SVar: a per-stream
rendezvous carrying a bounded output buffer, a style-specific queue of
pending producer continuations, an ordering heap (Ahead only), admission
control and yield-rate pacing, and worker lifecycle bookkeeping.

Producers are continuations: step functions which, when forced, either
stop, produce a single final value, or produce a value together with the
continuation for the rest. Workers drain the queue and deliver values
through the output buffer; the consumer pulls them in batches. Under the
Ahead style a min-heap keyed by sequence number restores source order
while workers run speculatively ahead of the publication token.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/
package svar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'streamly.svar'.
func tracer() tracing.Trace {
	return tracing.Select("streamly.svar")
}
