package streamly_test

import (
	"testing"

	streamly "github.com/virdis/streamly"
)

func TestPairDecompose(t *testing.T) {
	p := streamly.P(1, "one")
	l, r := p.Decompose()
	if l != 1 || r != "one" {
		t.Errorf("expected (1, one), got (%v, %v)", l, r)
	}
}
