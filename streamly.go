package streamly

// Pair is a 2-tuple. Zipped streams carry pairs.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// P constructs a Pair from its two components.
func P[A, B any](x A, y B) Pair[A, B] {
	return Pair[A, B]{x, y}
}

// Decompose splits a pair into its components.
func (p Pair[A, B]) Decompose() (A, B) {
	return p.Left, p.Right
}
