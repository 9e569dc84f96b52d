package detection

import (
	"math"
	"sort"

	"github.com/tilescan/tilescan/internal/imaging"
)

const (
	// houghAngles is the angular resolution of the accumulator (1 degree).
	houghAngles = 180

	// pointDistTolerance is how far (in pixels) an edge pixel may sit from
	// a voted line and still support it.
	pointDistTolerance = 2.0

	// maxLineGap is the largest gap (in pixels) between collinear edge
	// pixels that still merges them into one segment.
	maxLineGap = 20.0

	// maxSegments caps the number of segments reported per image.
	maxSegments = 50

	// endpointMergeDist is the endpoint proximity below which two candidate
	// segments are considered duplicates of the same physical feature.
	endpointMergeDist = 10.0
)

// Segment is a detected straight line segment in pixel coordinates.
type Segment struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Length returns the Euclidean distance between the segment endpoints.
func (s Segment) Length() float64 {
	dx := float64(s.X2 - s.X1)
	dy := float64(s.Y2 - s.Y1)
	return math.Sqrt(dx*dx + dy*dy)
}

type point struct {
	x, y int
}

// DetectSegments groups edge pixels into straight line segments using a
// Hough transform over (angle, offset) space.
//
// Edge pixels vote for every line passing through them; accumulator peaks
// (local maxima with enough votes) identify candidate lines. The edge pixels
// supporting each candidate are projected along the line and split into runs
// wherever the gap between consecutive pixels exceeds maxLineGap; each run
// whose extent reaches minLength becomes a Segment. Near-duplicate segments
// from adjacent accumulator cells are merged away by endpoint proximity.
//
// The returned order is detection order (strongest peaks first) and carries
// no semantic meaning.
func DetectSegments(edges *imaging.EdgeMap, minLength int) []Segment {
	width := edges.Width()
	height := edges.Height()
	if width == 0 || height == 0 || edges.Count() == 0 {
		return nil
	}

	maxRho := int(math.Sqrt(float64(width*width + height*height)))
	accumulator := make([][]int, maxRho*2)
	for i := range accumulator {
		accumulator[i] = make([]int, houghAngles)
	}

	var points []point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges.At(x, y) {
				continue
			}
			points = append(points, point{x, y})
			for theta := 0; theta < houghAngles; theta++ {
				angle := float64(theta) * math.Pi / float64(houghAngles)
				rho := float64(x)*math.Cos(angle) + float64(y)*math.Sin(angle)
				rhoIdx := int(rho) + maxRho
				if rhoIdx >= 0 && rhoIdx < maxRho*2 {
					accumulator[rhoIdx][theta]++
				}
			}
		}
	}

	voteThreshold := minLength / 2
	if voteThreshold < 1 {
		voteThreshold = 1
	}

	type peak struct {
		rho   int
		theta int
		votes int
	}
	var peaks []peak
	for rhoIdx := 0; rhoIdx < maxRho*2; rhoIdx++ {
		for theta := 0; theta < houghAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < voteThreshold {
				continue
			}
			// Keep only local maxima so one physical line does not flood
			// the peak list from adjacent cells.
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (theta + dt + houghAngles) % houghAngles
					if nr >= 0 && nr < maxRho*2 && accumulator[nr][nt] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: rhoIdx - maxRho, theta: theta, votes: votes})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].votes > peaks[j].votes })

	var segments []Segment
	for _, pk := range peaks {
		if len(segments) >= maxSegments {
			break
		}

		angle := float64(pk.theta) * math.Pi / float64(houghAngles)
		cosA := math.Cos(angle)
		sinA := math.Sin(angle)
		rho := float64(pk.rho)

		// Collect supporting pixels and their projection onto the line's
		// tangent direction (-sinA, cosA).
		type projected struct {
			p point
			t float64
		}
		var support []projected
		for _, p := range points {
			dist := math.Abs(float64(p.x)*cosA + float64(p.y)*sinA - rho)
			if dist < pointDistTolerance {
				support = append(support, projected{
					p: p,
					t: -float64(p.x)*sinA + float64(p.y)*cosA,
				})
			}
		}
		if len(support) < minLength {
			continue
		}
		sort.Slice(support, func(i, j int) bool { return support[i].t < support[j].t })

		// Split the collinear pixels into runs at gaps wider than
		// maxLineGap, then keep each run long enough to be a crack.
		runStart := 0
		for i := 1; i <= len(support); i++ {
			if i < len(support) && support[i].t-support[i-1].t <= maxLineGap {
				continue
			}
			first := support[runStart].p
			last := support[i-1].p
			runStart = i

			seg := Segment{X1: first.x, Y1: first.y, X2: last.x, Y2: last.y}
			if seg.Length() < float64(minLength) {
				continue
			}
			if isDuplicate(segments, seg) {
				continue
			}
			segments = append(segments, seg)
			if len(segments) >= maxSegments {
				break
			}
		}
	}

	return segments
}

// isDuplicate reports whether seg lands on a feature an existing segment
// already covers, comparing endpoints in both orientations.
func isDuplicate(existing []Segment, seg Segment) bool {
	for _, e := range existing {
		if (endpointDist(e.X1, e.Y1, seg.X1, seg.Y1) < endpointMergeDist &&
			endpointDist(e.X2, e.Y2, seg.X2, seg.Y2) < endpointMergeDist) ||
			(endpointDist(e.X1, e.Y1, seg.X2, seg.Y2) < endpointMergeDist &&
				endpointDist(e.X2, e.Y2, seg.X1, seg.Y1) < endpointMergeDist) {
			return true
		}
	}
	return false
}

func endpointDist(x1, y1, x2, y2 int) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return math.Sqrt(dx*dx + dy*dy)
}
