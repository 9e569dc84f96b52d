// Package vibration classifies tap responses from a binary vibration sensor
// to distinguish hollow floor tiles from solid ones.
//
// The pipeline is: tap detection (debounced rising edge) -> fixed-window
// sampling of signal transitions -> feature extraction (duration,
// oscillation count, decay rate) -> pattern classification -> confidence
// scoring. Hollow tiles resonate longer and with more oscillations than
// solid substrate; the classification rules encode exactly that.
//
// # Concurrency
//
// A Sensor is not safe for concurrent use. The sampling window is a blocking
// loop that owns the calling goroutine for its full duration (0.5s by
// default), and the tap debounce state plus the analysis history ring are
// plain fields on the Sensor. Run at most one tap-test pipeline per Sensor
// instance at a time; callers invoking TapTest faster than the sample window
// will serialize, which is intentional.
//
// # Error Handling
//
// Sensor reads are best-effort: a read error degrades to the inactive signal
// level (fail-closed) and is logged at debug level, never propagated. Every
// operation resolves to a well-typed negative result rather than an error
// return, so callers never need error control flow to use this package.
package vibration
