package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// edgeBlurRadius is the Gaussian pre-pass radius, equivalent to the small
// 5x5 kernel (sigma ~1.4) used to suppress single-pixel noise before
// gradient computation.
const edgeBlurRadius = 1.4

// EdgeMap is a binary raster the same size as its source image, marking the
// pixels whose intensity gradient survived hysteresis thresholding.
type EdgeMap struct {
	width  int
	height int
	bits   []bool
}

// NewEdgeMap returns an empty (all clear) edge map of the given size.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{
		width:  width,
		height: height,
		bits:   make([]bool, width*height),
	}
}

// Width returns the map width in pixels.
func (m *EdgeMap) Width() int { return m.width }

// Height returns the map height in pixels.
func (m *EdgeMap) Height() int { return m.height }

// At reports whether the pixel at (x, y) is an edge. Out-of-bounds
// coordinates are never edges.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Set marks the pixel at (x, y) as an edge. Out-of-bounds coordinates are
// ignored.
func (m *EdgeMap) Set(x, y int) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.bits[y*m.width+x] = true
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Density returns the fraction of pixels that are edges, in [0,1].
func (m *EdgeMap) Density() float64 {
	total := m.width * m.height
	if total == 0 {
		return 0
	}
	return float64(m.Count()) / float64(total)
}

// Gray renders the map as a grayscale image with edges in white, suitable
// for composing into annotated evidence output.
func (m *EdgeMap) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.bits[y*m.width+x] {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// ExtractEdges performs Canny-style edge detection on an image, producing a
// binary edge map.
//
// The implementation follows the classic Canny pipeline:
//
//  1. Gaussian blur (small fixed kernel) to suppress single-pixel noise
//  2. Grayscale conversion: RGB -> luminance using ITU-R BT.601 weights
//  3. Gradient computation: Sobel operators, magnitude and direction
//  4. Non-maximum suppression to thin edges to 1-pixel width
//  5. Hysteresis thresholding: pixels above thresholdHigh are strong edges;
//     pixels between the thresholds are kept only when connected to a strong
//     edge; pixels below thresholdLow are discarded
//
// Thresholds are on the 0-255 scale. Lower thresholds detect more edges but
// increase noise; 50/150 is a reasonable starting point for tile imagery.
func ExtractEdges(img image.Image, thresholdLow, thresholdHigh int) *EdgeMap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return NewEdgeMap(width, height)
	}

	blurred := blur.Gaussian(img, edgeBlurRadius)

	// Grayscale luminance in [0,1].
	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := blurred.At(x+blurred.Bounds().Min.X, y+blurred.Bounds().Min.Y).RGBA()
			rf := float64(r>>8) / 255.0
			gf := float64(g>>8) / 255.0
			bf := float64(b>>8) / 255.0
			gray[y][x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}

	// Sobel gradients.
	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += gray[py][px] * sobelX[ky+1][kx+1]
					gy += gray[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression: keep only local maxima along the gradient
	// direction.
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	// Double threshold with edge tracking by hysteresis.
	result := NewEdgeMap(width, height)
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= highThresh {
				result.Set(x, y)
			} else if val >= lowThresh {
				hasStrongNeighbor := false
				for ky := -1; ky <= 1 && !hasStrongNeighbor; ky++ {
					for kx := -1; kx <= 1 && !hasStrongNeighbor; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= highThresh {
							hasStrongNeighbor = true
						}
					}
				}
				if hasStrongNeighbor {
					result.Set(x, y)
				}
			}
		}
	}

	return result
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
