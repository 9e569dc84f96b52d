package detection

import (
	"math"
	"testing"

	"github.com/tilescan/tilescan/internal/imaging"
)

// lineMap builds an edge map with a horizontal run of edge pixels at row y
// spanning [x1, x2].
func lineMap(w, h, y, x1, x2 int) *imaging.EdgeMap {
	m := imaging.NewEdgeMap(w, h)
	for x := x1; x <= x2; x++ {
		m.Set(x, y)
	}
	return m
}

func TestSegmentLength(t *testing.T) {
	s := Segment{X1: 0, Y1: 0, X2: 3, Y2: 4}
	if s.Length() != 5 {
		t.Errorf("Length: got %v, want 5", s.Length())
	}
}

func TestDetectSegments_EmptyMap(t *testing.T) {
	if got := DetectSegments(imaging.NewEdgeMap(100, 100), 50); got != nil {
		t.Errorf("empty map: got %v, want nil", got)
	}
	if got := DetectSegments(imaging.NewEdgeMap(0, 0), 50); got != nil {
		t.Errorf("zero-size map: got %v, want nil", got)
	}
}

func TestDetectSegments_HorizontalLine(t *testing.T) {
	m := lineMap(100, 100, 50, 20, 80)

	segments := DetectSegments(m, 50)
	if len(segments) == 0 {
		t.Fatal("no segments found on a 60px horizontal line")
	}

	s := segments[0]
	if s.Length() < 50 {
		t.Errorf("segment length: got %v, want >= 50", s.Length())
	}
	if s.Y1 != 50 || s.Y2 != 50 {
		t.Errorf("segment rows: got %d/%d, want 50/50", s.Y1, s.Y2)
	}
}

func TestDetectSegments_DiagonalLine(t *testing.T) {
	m := imaging.NewEdgeMap(100, 100)
	for i := 20; i <= 80; i++ {
		m.Set(i, i)
	}

	segments := DetectSegments(m, 50)
	if len(segments) == 0 {
		t.Fatal("no segments found on an 85px diagonal line")
	}
	if got := segments[0].Length(); got < 50 {
		t.Errorf("segment length: got %v, want >= 50", got)
	}
}

func TestDetectSegments_ShortLineDiscarded(t *testing.T) {
	m := lineMap(100, 100, 50, 40, 60)

	if got := DetectSegments(m, 50); len(got) != 0 {
		t.Errorf("21px line with 50px minimum: got %d segments, want 0", len(got))
	}
}

func TestDetectSegments_SmallGapMerges(t *testing.T) {
	// Two 31px collinear runs separated by a 9px gap (under the merge
	// tolerance) must come back as one long segment, not two short ones.
	m := imaging.NewEdgeMap(120, 120)
	for x := 10; x <= 40; x++ {
		m.Set(x, 30)
	}
	for x := 50; x <= 80; x++ {
		m.Set(x, 30)
	}

	segments := DetectSegments(m, 50)
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1 merged segment", len(segments))
	}
	if got := segments[0].Length(); math.Abs(got-70) > 2 {
		t.Errorf("merged length: got %v, want ~70", got)
	}
}

func TestDetectSegments_WideGapSplits(t *testing.T) {
	// The same two runs separated by a 29px gap stay separate, and each is
	// long enough on its own only for a smaller minimum length.
	m := imaging.NewEdgeMap(140, 140)
	for x := 10; x <= 40; x++ {
		m.Set(x, 30)
	}
	for x := 70; x <= 100; x++ {
		m.Set(x, 30)
	}

	if got := DetectSegments(m, 50); len(got) != 0 {
		t.Errorf("min length 50: got %d segments, want 0 (runs are 30px each)", len(got))
	}

	segments := DetectSegments(m, 25)
	if len(segments) != 2 {
		t.Fatalf("min length 25: got %d segments, want 2", len(segments))
	}
	for _, s := range segments {
		if s.Length() > 35 {
			t.Errorf("segment bridged the wide gap: length %v", s.Length())
		}
	}
}

func TestDetectSegments_OrderIsStrongestFirst(t *testing.T) {
	m := imaging.NewEdgeMap(200, 200)
	for x := 10; x <= 180; x++ {
		m.Set(x, 40) // long line, more votes
	}
	for x := 60; x <= 120; x++ {
		m.Set(x, 150) // shorter line
	}

	segments := DetectSegments(m, 50)
	if len(segments) < 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Length() < segments[1].Length() {
		t.Errorf("detection order: first segment (%v) shorter than second (%v)",
			segments[0].Length(), segments[1].Length())
	}
}
