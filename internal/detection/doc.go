// Package detection turns edge maps into crack verdicts.
//
// The pipeline mirrors the classic computer-vision recipe for line-like
// defects:
//
//  1. Line segment detection: a Hough transform groups edge pixels into
//     straight segments, merging runs separated by small gaps and dropping
//     segments below the minimum crack length.
//  2. Aggregation: the surviving segment count and the edge-pixel density
//     reduce to a single confidence score.
//  3. Decision: a crack is reported when the confidence clears the
//     configured threshold, or unconditionally when any qualifying segment
//     survived. The OR deliberately favors recall over precision: one long
//     line-like feature is structural damage evidence regardless of how
//     quiet the rest of the image is.
//  4. Evidence: on detection, a three-panel annotated composite (original,
//     highlighted segments, edge map) is persisted next to the source image.
//
// # Error Handling
//
// Detect never returns a Go error. Load failures produce a zero-value result
// with the Err field explaining why; annotation failures are logged and
// leave only the AnnotatedPath field empty. Callers handle negative results
// explicitly instead of unwinding through error control flow.
package detection
