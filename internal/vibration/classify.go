package vibration

import (
	"math"
	"time"
)

const (
	// solidDurationCeiling is the duration below which a response is
	// confidently solid regardless of oscillation count.
	solidDurationCeiling = 50 * time.Millisecond

	// defaultHollowOscillations is the oscillation floor a long-duration
	// response must exceed to be called hollow (rather than unknown).
	defaultHollowOscillations = 5

	// Medium-duration tie-breakers: duration alone is ambiguous in this
	// band, so oscillation count decides.
	mediumHollowOscillations = 8
	mediumSolidOscillations  = 3
)

// Thresholds are the targets the classifier and scorer evaluate a response
// against. They come either from configuration (DefaultThresholds) or from a
// calibrated Baseline.
type Thresholds struct {
	// HollowDuration is the minimum vibration duration for the
	// long-duration hollow rule to apply.
	HollowDuration time.Duration

	// HollowOscillations is the oscillation count a long-duration response
	// must exceed to classify as hollow.
	HollowOscillations int
}

// DefaultThresholds returns the uncalibrated thresholds for a configured
// hollow-duration cutoff.
func DefaultThresholds(hollowDuration time.Duration) Thresholds {
	return Thresholds{
		HollowDuration:     hollowDuration,
		HollowOscillations: defaultHollowOscillations,
	}
}

// Classify maps the extracted features of one tap response to a Pattern.
//
// The rules are evaluated in strict precedence order:
//
//  1. Long duration (>= HollowDuration): hollow if the oscillation count
//     clears the hollow floor, otherwise unknown.
//  2. Very short duration (< 50ms): solid.
//  3. Medium duration: hollow on many oscillations (> 8), solid on few
//     (< 3), otherwise unknown.
//
// Classify is a pure function with no side effects.
func Classify(duration time.Duration, oscillations int, th Thresholds) Pattern {
	switch {
	case duration >= th.HollowDuration:
		if oscillations > th.HollowOscillations {
			return PatternHollow
		}
		return PatternUnknown
	case duration < solidDurationCeiling:
		return PatternSolid
	default:
		switch {
		case oscillations > mediumHollowOscillations:
			return PatternHollow
		case oscillations < mediumSolidOscillations:
			return PatternSolid
		default:
			return PatternUnknown
		}
	}
}

// Score computes the confidence for a classified response, always in [0,1].
//
// Unknown responses get a fixed 0.3. Hollow confidence rewards duration and
// oscillation count independently, capped at 1.0:
//
//	min(1.0, 0.5 + 0.3*(duration/HollowDuration) + 0.2*min(oscillations/10, 1))
//
// Solid confidence is a staircase on duration: shorter taps are more
// confidently solid (0.8 below 30ms, 0.6 below 50ms, 0.4 otherwise).
func Score(pattern Pattern, duration time.Duration, oscillations int, th Thresholds) float64 {
	switch pattern {
	case PatternHollow:
		durationRatio := duration.Seconds() / th.HollowDuration.Seconds()
		oscRatio := math.Min(float64(oscillations)/10.0, 1.0)
		return math.Min(0.5+0.3*durationRatio+0.2*oscRatio, 1.0)
	case PatternSolid:
		switch {
		case duration < 30*time.Millisecond:
			return 0.8
		case duration < solidDurationCeiling:
			return 0.6
		default:
			return 0.4
		}
	default:
		return 0.3
	}
}
