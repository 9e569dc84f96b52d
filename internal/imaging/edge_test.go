package imaging

import (
	"image"
	"image/color"
	"testing"
)

// fillImage returns a w x h image filled with a single color.
func fillImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// rectImage returns a white image with a centered black rectangle, giving a
// strong, known edge contour.
func rectImage(w, h int) *image.NRGBA {
	img := fillImage(w, h, color.NRGBA{255, 255, 255, 255})
	for y := h / 4; y < 3*h/4; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.Set(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	return img
}

func TestExtractEdges_UniformImageHasNoEdges(t *testing.T) {
	for _, c := range []color.NRGBA{
		{0, 0, 0, 255},
		{128, 128, 128, 255},
		{255, 255, 255, 255},
	} {
		m := ExtractEdges(fillImage(50, 50, c), 50, 150)
		if m.Count() != 0 {
			t.Errorf("uniform %v: got %d edge pixels, want 0", c, m.Count())
		}
		if m.Density() != 0 {
			t.Errorf("uniform %v: got density %v, want 0", c, m.Density())
		}
	}
}

func TestExtractEdges_RectangleProducesEdges(t *testing.T) {
	m := ExtractEdges(rectImage(100, 100), 50, 150)

	if m.Width() != 100 || m.Height() != 100 {
		t.Fatalf("dimensions: got %dx%d, want 100x100", m.Width(), m.Height())
	}
	if m.Count() == 0 {
		t.Fatal("no edge pixels detected around a high-contrast rectangle")
	}
	if d := m.Density(); d <= 0 || d > 1 {
		t.Errorf("density: got %v, want in (0,1]", d)
	}
	// Edges should be sparse: the rectangle outline, not its fill.
	if d := m.Density(); d > 0.5 {
		t.Errorf("density: got %v, suspiciously dense for an outline", d)
	}
}

func TestExtractEdges_Deterministic(t *testing.T) {
	img := rectImage(60, 60)

	a := ExtractEdges(img, 50, 150)
	b := ExtractEdges(img, 50, 150)

	if a.Count() != b.Count() {
		t.Fatalf("counts differ across runs: %d vs %d", a.Count(), b.Count())
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs across runs", x, y)
			}
		}
	}
}

func TestExtractEdges_HigherThresholdsDetectFewerEdges(t *testing.T) {
	img := rectImage(80, 80)

	loose := ExtractEdges(img, 20, 60)
	strict := ExtractEdges(img, 100, 200)

	if strict.Count() > loose.Count() {
		t.Errorf("strict thresholds found more edges (%d) than loose ones (%d)",
			strict.Count(), loose.Count())
	}
}

func TestEdgeMap_Bounds(t *testing.T) {
	m := NewEdgeMap(10, 10)

	m.Set(5, 5)
	m.Set(-1, 0)
	m.Set(0, 10)

	if !m.At(5, 5) {
		t.Error("At(5,5): got false after Set")
	}
	if m.At(-1, 0) || m.At(0, 10) {
		t.Error("out-of-bounds At returned true")
	}
	if m.Count() != 1 {
		t.Errorf("Count: got %d, want 1", m.Count())
	}
}

func TestEdgeMap_ZeroSizeDensity(t *testing.T) {
	m := NewEdgeMap(0, 0)
	if m.Density() != 0 {
		t.Errorf("zero-size density: got %v, want 0", m.Density())
	}
}

func TestEdgeMap_Gray(t *testing.T) {
	m := NewEdgeMap(4, 4)
	m.Set(1, 2)

	g := m.Gray()
	if g.Bounds().Dx() != 4 || g.Bounds().Dy() != 4 {
		t.Fatalf("gray bounds: got %v", g.Bounds())
	}
	if g.GrayAt(1, 2).Y != 255 {
		t.Errorf("edge pixel: got %d, want 255", g.GrayAt(1, 2).Y)
	}
	if g.GrayAt(0, 0).Y != 0 {
		t.Errorf("clear pixel: got %d, want 0", g.GrayAt(0, 0).Y)
	}
}
