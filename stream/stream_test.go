package stream

import (
	"context"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	streamly "github.com/virdis/streamly"
)

func TestToSliceOfValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	out, err := ToSlice(context.Background(), Of(1, 2, 3))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", out)
	}
}

func TestEmptyStream(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	out, err := ToSlice(context.Background(), Empty[int]())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected the empty stream to produce nothing, got %v", out)
	}
}

func TestUnfold(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	countdown := Unfold(3, func(n int) (int, int, bool) {
		return n, n - 1, n > 0
	})
	out, err := ToSlice(context.Background(), countdown)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 3 || out[0] != 3 || out[2] != 1 {
		t.Errorf("expected [3 2 1], got %v", out)
	}
}

func TestMapFilter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	s := Filter(Map(Of(1, 2, 3, 4), func(n int) int { return n * 10 }),
		func(n int) bool { return n > 15 })
	out, err := ToSlice(context.Background(), s)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 3 || out[0] != 20 {
		t.Errorf("expected [20 30 40], got %v", out)
	}
}

func TestTakeFromInfinite(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	nats := Iterate(1, func(n int) int { return n + 1 })
	out, err := ToSlice(context.Background(), Take(nats, 4))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 4 || out[3] != 4 {
		t.Errorf("expected [1 2 3 4], got %v", out)
	}
}

func TestTakeWhile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	out, err := ToSlice(context.Background(),
		TakeWhile(Of(2, 4, 5, 6), func(n int) bool { return n%2 == 0 }))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected the prefix [2 4], got %v", out)
	}
}

func TestFoldCountFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	ctx := context.Background()
	sum, err := Fold(ctx, Of(1, 2, 3), 0, func(a, n int) int { return a + n })
	if err != nil || sum != 6 {
		t.Errorf("expected sum 6, got %d (err=%v)", sum, err)
	}
	n, err := Count(ctx, Of("a", "b"))
	if err != nil || n != 2 {
		t.Errorf("expected count 2, got %d (err=%v)", n, err)
	}
	first, err := First(ctx, Of(7, 8))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v, ok := first.Value(); !ok || v != 7 {
		t.Errorf("expected first element 7, got %v (ok=%v)", v, ok)
	}
}

func TestZipStopsAtShorter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "streamly.stream")
	defer teardown()
	//
	z := Zip(Of(1, 2, 3), Of("a", "b"))
	out, err := ToSlice(context.Background(), z)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []streamly.Pair[int, string]{streamly.P(1, "a"), streamly.P(2, "b")}
	if len(out) != len(want) || out[0] != want[0] || out[1] != want[1] {
		t.Errorf("expected %v, got %v", want, out)
	}
}
