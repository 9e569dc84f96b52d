package detection

import (
	"log/slog"
	"math"

	"github.com/tilescan/tilescan/internal/imaging"
)

// Options configures a CrackDetector. Zero values fall back to the
// documented defaults: crack threshold 0.15, minimum crack length 50px, edge
// thresholds 50/150, slog.Default().
type Options struct {
	// CrackThreshold is the minimum confidence for the detection decision;
	// lower values make detection more sensitive.
	CrackThreshold float64

	// MinCrackLength is the minimum segment length in pixels for a segment
	// to count as a crack.
	MinCrackLength int

	// EdgeLowThreshold and EdgeHighThreshold are the hysteresis thresholds
	// (0-255) for edge extraction.
	EdgeLowThreshold  int
	EdgeHighThreshold int

	// Logger receives diagnostic output.
	Logger *slog.Logger
}

// CrackDetector detects cracks in floor tile images using edge extraction
// and line analysis.
//
// The detector is purely functional over its input image: concurrent Detect
// calls on different images are safe. Concurrent calls on the same image
// path race on the annotated output file (last writer wins); callers should
// generate unique filenames.
type CrackDetector struct {
	crackThreshold float64
	minCrackLength int
	edgeLow        int
	edgeHigh       int

	src imaging.Source
	log *slog.Logger
}

// CrackResult is the immutable outcome of analyzing one image.
type CrackResult struct {
	// Detected reports whether cracks were found.
	Detected bool `json:"detected"`

	// Confidence is the detection confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// CrackCount is the number of surviving line segments.
	CrackCount int `json:"crack_count"`

	// EdgeDensity is the fraction of image pixels marked as edges, in [0,1].
	EdgeDensity float64 `json:"edge_density"`

	// AnnotatedPath is where the annotated evidence composite was saved.
	// Empty when annotation was not requested, nothing was detected, or
	// rendering failed.
	AnnotatedPath string `json:"annotated_path,omitempty"`

	// Err explains why analysis could not run (for example an unreadable
	// image). Empty on success.
	Err string `json:"error,omitempty"`
}

// NewCrackDetector creates a detector reading images through src.
func NewCrackDetector(src imaging.Source, opts Options) *CrackDetector {
	if opts.CrackThreshold <= 0 {
		opts.CrackThreshold = 0.15
	}
	if opts.MinCrackLength <= 0 {
		opts.MinCrackLength = 50
	}
	if opts.EdgeLowThreshold <= 0 {
		opts.EdgeLowThreshold = 50
	}
	if opts.EdgeHighThreshold <= 0 {
		opts.EdgeHighThreshold = 150
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &CrackDetector{
		crackThreshold: opts.CrackThreshold,
		minCrackLength: opts.MinCrackLength,
		edgeLow:        opts.EdgeLowThreshold,
		edgeHigh:       opts.EdgeHighThreshold,
		src:            src,
		log:            opts.Logger,
	}
}

// Detect analyzes the image at path for cracks.
//
// The image is edge-extracted, line segments at least the minimum crack
// length survive as cracks, and the decision combines segment count with
// edge density. When saveAnnotated is true and a detection occurred, a
// three-panel evidence composite is written next to the original with a
// "_cracks" filename suffix; failure to write it degrades gracefully (the
// result is returned intact with an empty AnnotatedPath).
//
// Detect never returns an error: an unreadable image yields a zero-value
// result with the Err field set.
func (d *CrackDetector) Detect(path string, saveAnnotated bool) CrackResult {
	img, err := d.src.Load(path)
	if err != nil {
		d.log.Error("could not read image", "path", path, "error", err)
		return CrackResult{Err: err.Error()}
	}

	edges := imaging.ExtractEdges(img, d.edgeLow, d.edgeHigh)
	segments := DetectSegments(edges, d.minCrackLength)

	density := edges.Density()
	confidence, detected := scoreDetection(len(segments), density, d.crackThreshold)

	result := CrackResult{
		Detected:    detected,
		Confidence:  round3(confidence),
		CrackCount:  len(segments),
		EdgeDensity: round3(density),
	}

	if saveAnnotated && (detected || len(segments) > 0) {
		annotated, err := renderAnnotated(d.src, path, img, edges, segments)
		if err != nil {
			d.log.Error("failed to save annotated evidence", "path", path, "error", err)
		} else {
			result.AnnotatedPath = annotated
			d.log.Info("saved annotated evidence", "path", annotated)
		}
	}

	d.log.Info("crack detection",
		"path", path,
		"detected", result.Detected,
		"confidence", result.Confidence,
		"cracks", result.CrackCount,
		"density", result.EdgeDensity)
	return result
}

// scoreDetection reduces the aggregate crack features to the detection
// decision:
//
//	confidence = min(1.0, 0.1*crackCount + 2.0*edgeDensity)
//	detected   = confidence >= threshold OR crackCount > 0
//
// Any surviving segment forces detection regardless of the confidence
// threshold.
func scoreDetection(crackCount int, edgeDensity, threshold float64) (confidence float64, detected bool) {
	confidence = math.Min(1.0, 0.1*float64(crackCount)+2.0*edgeDensity)
	detected = confidence >= threshold || crackCount > 0
	return confidence, detected
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
