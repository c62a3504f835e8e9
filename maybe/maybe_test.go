package maybe_test

import (
	"testing"

	"github.com/virdis/streamly/maybe"
)

func TestJustCarriesValue(t *testing.T) {
	m := maybe.Just(7)
	if !m.IsJust() {
		t.Error("expected Just(7) to be present")
	}
	if v, ok := m.Value(); !ok || v != 7 {
		t.Errorf("expected value 7, got %v (ok=%v)", v, ok)
	}
}

func TestNothingIsAbsent(t *testing.T) {
	m := maybe.Nothing[int]()
	if m.IsJust() {
		t.Error("expected Nothing to be absent")
	}
	if m.WithDefault(3) != 3 {
		t.Error("expected WithDefault to fall back on Nothing")
	}
}

func TestZeroValueIsNothing(t *testing.T) {
	var m maybe.Maybe[string]
	if m.IsJust() {
		t.Error("expected the zero Maybe to be Nothing")
	}
}

func TestMap(t *testing.T) {
	double := func(n int) int { return n * 2 }
	if got := maybe.Map(double, maybe.Just(4)).WithDefault(0); got != 8 {
		t.Errorf("expected Map to apply over Just, got %d", got)
	}
	if maybe.Map(double, maybe.Nothing[int]()).IsJust() {
		t.Error("expected Map over Nothing to stay Nothing")
	}
}

func TestAndThen(t *testing.T) {
	half := func(n int) maybe.Maybe[int] {
		if n%2 != 0 {
			return maybe.Nothing[int]()
		}
		return maybe.Just(n / 2)
	}
	if got := maybe.AndThen(half, maybe.Just(8)).WithDefault(-1); got != 4 {
		t.Errorf("expected AndThen to chain, got %d", got)
	}
	if maybe.AndThen(half, maybe.Just(7)).IsJust() {
		t.Error("expected AndThen over an odd value to be Nothing")
	}
}
