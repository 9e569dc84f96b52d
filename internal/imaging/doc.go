// Package imaging provides the raster side of crack detection: image
// load/save behind a substitutable Source boundary, and Canny-style edge
// extraction producing a binary EdgeMap.
//
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Determinism
//
// Edge extraction is deterministic: the same image and threshold pair always
// produce the same EdgeMap. There is no shared mutable state; concurrent
// extraction over different images is safe.
package imaging
