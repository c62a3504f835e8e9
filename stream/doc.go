/*
Package stream exposes lazy streams of values together with the family
of evaluation styles that control how their producers are scheduled:
fully sequential (Serial), interleaved sequential (WSerial),
speculatively ahead in source order (Ahead), unordered asynchronous
(Async), interleaved asynchronous (WAsync), and strictly parallel
(Parallel).

Streams are value types built from producer continuations. Serial and
WSerial compositions evaluate in-line; the concurrent styles schedule
their operands onto an SVar (package svar) and pull the results back as
an ordinary sequential stream. Configuration knobs — MaxThreads,
MaxBuffer, MaxYields, MaxRate, SerialLatency — travel with the stream
value and take effect when a concurrent composition is first forced.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024–2026 The streamly authors
*/
package stream

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'streamly.stream'.
func tracer() tracing.Trace {
	return tracing.Select("streamly.stream")
}
