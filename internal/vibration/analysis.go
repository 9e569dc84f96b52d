package vibration

import "time"

// Pattern is the classified tap-response category.
type Pattern string

const (
	// PatternSolid indicates a short, quickly damped response typical of a
	// tile bonded to solid substrate.
	PatternSolid Pattern = "solid"

	// PatternHollow indicates a long, oscillatory response typical of an
	// air gap beneath the tile.
	PatternHollow Pattern = "hollow"

	// PatternUnknown indicates the response did not match either profile
	// cleanly.
	PatternUnknown Pattern = "unknown"
)

// Sample records one signal state transition during a tap-response window.
//
// Samples are owned by a single analysis run and discarded after feature
// extraction; they never outlive the Analysis derived from them.
type Sample struct {
	// Offset is the elapsed time from the start of the sampling window to
	// the transition.
	Offset time.Duration `json:"offset"`

	// Level is the signal level after the transition.
	Level Level `json:"level"`
}

// Analysis is the immutable result of analyzing one tap response.
type Analysis struct {
	// Duration is how long the vibration lasted within the sample window.
	Duration time.Duration `json:"duration"`

	// OscillationCount is the total number of signal transitions recorded.
	OscillationCount int `json:"oscillation_count"`

	// MaxIntensity is the peak running transition count observed during
	// sampling. The running count is monotonic, so this equals
	// OscillationCount; it is retained for diagnostic continuity.
	MaxIntensity int `json:"max_intensity"`

	// DecayRate is the ratio of second-half to first-half transition
	// counts; lower means the vibration died off faster. Zero when too few
	// transitions were recorded to split meaningfully.
	DecayRate float64 `json:"decay_rate"`

	// Pattern is the classification verdict.
	Pattern Pattern `json:"pattern"`

	// Timestamp is when the analysis completed.
	Timestamp time.Time `json:"timestamp"`
}

// TapTestResult is the outcome of one complete tap test.
//
// Analysis and IsHollow are nil when no tap was detected.
type TapTestResult struct {
	TapDetected bool      `json:"tap_detected"`
	Analysis    *Analysis `json:"analysis,omitempty"`
	IsHollow    *bool     `json:"is_hollow,omitempty"`
	Confidence  float64   `json:"confidence"`
}
