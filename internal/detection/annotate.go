package detection

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tilescan/tilescan/internal/imaging"
)

// segmentStrokeRadius gives the drawn crack lines a 2-3px stroke so they
// stay visible over textured tile imagery.
const segmentStrokeRadius = 1

// goldenAngle steps the highlight hue between consecutive segments so that
// neighboring cracks get visually distinct colors.
const goldenAngle = 137.508

// renderAnnotated builds the three-panel evidence composite (original image,
// original with each segment highlighted in a distinct color, edge map) and
// persists it next to the original with a "_cracks" suffix. It returns the
// path written.
func renderAnnotated(src imaging.Source, origPath string, img image.Image, edges *imaging.EdgeMap, segments []Segment) (string, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return "", fmt.Errorf("cannot annotate empty image %s", origPath)
	}

	overlay := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(overlay, overlay.Bounds(), img, bounds.Min, draw.Src)
	for i, seg := range segments {
		drawSegment(overlay, seg, segmentColor(i))
	}

	composite := image.NewNRGBA(image.Rect(0, 0, w*3, h))
	draw.Draw(composite, image.Rect(0, 0, w, h), img, bounds.Min, draw.Src)
	draw.Draw(composite, image.Rect(w, 0, w*2, h), overlay, image.Point{}, draw.Src)
	draw.Draw(composite, image.Rect(w*2, 0, w*3, h), edges.Gray(), image.Point{}, draw.Src)

	path := annotatedPath(origPath)
	if err := src.Save(path, composite); err != nil {
		return "", err
	}
	return path, nil
}

// annotatedPath derives the evidence path from the original filename:
// "floor/tile07.jpg" becomes "floor/tile07_cracks.jpg".
func annotatedPath(orig string) string {
	ext := filepath.Ext(orig)
	return strings.TrimSuffix(orig, ext) + "_cracks" + ext
}

// segmentColor returns the highlight color for the i-th segment, stepping
// the hue by the golden angle for maximal separation between neighbors.
func segmentColor(i int) color.NRGBA {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	r, g, b := colorful.Hsv(hue, 0.95, 1.0).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// drawSegment draws a thick line between the segment endpoints using
// Bresenham traversal with a small square brush.
func drawSegment(dst *image.NRGBA, seg Segment, c color.NRGBA) {
	x1, y1 := seg.X1, seg.Y1
	x2, y2 := seg.X2, seg.Y2

	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	errTerm := dx + dy

	for {
		stamp(dst, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * errTerm
		if e2 >= dy {
			errTerm += dy
			x1 += sx
		}
		if e2 <= dx {
			errTerm += dx
			y1 += sy
		}
	}
}

func stamp(dst *image.NRGBA, x, y int, c color.NRGBA) {
	b := dst.Bounds()
	for oy := -segmentStrokeRadius; oy <= segmentStrokeRadius; oy++ {
		for ox := -segmentStrokeRadius; ox <= segmentStrokeRadius; ox++ {
			px, py := x+ox, y+oy
			if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
				dst.SetNRGBA(px, py, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
