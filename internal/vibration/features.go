package vibration

import "time"

// decayMinTransitions is the minimum transition count before a first-half /
// second-half decay comparison is meaningful.
const decayMinTransitions = 11

// durationScanDepth is how many of the trailing transitions are inspected
// when locating the end of the vibration.
const durationScanDepth = 10

// features holds the scalar features reduced from one sampling window.
type features struct {
	duration     time.Duration
	oscillations int
	maxIntensity int
	decayRate    float64
}

// extractFeatures reduces the recorded transitions of one sampling window to
// the features the classifier consumes.
//
// Duration is the offset of the last transition to the active level found
// within the final durationScanDepth transitions, scanning backward. If no
// such late active transition exists but transitions occurred, the signal
// was still ringing at window end and duration collapses to the full window.
//
// The decay rate compares the second half of the transition list against the
// first half; with fewer than decayMinTransitions transitions it stays zero.
func extractFeatures(samples []Sample, window time.Duration) features {
	f := features{
		oscillations: len(samples),
		maxIntensity: len(samples),
	}
	if len(samples) == 0 {
		return f
	}

	lo := len(samples) - durationScanDepth
	if lo < 0 {
		lo = 0
	}
	for i := len(samples) - 1; i >= lo; i-- {
		if samples[i].Level == High {
			f.duration = samples[i].Offset
			break
		}
	}
	if f.duration == 0 {
		f.duration = window
	}

	if len(samples) >= decayMinTransitions {
		mid := len(samples) / 2
		firstHalf := mid
		secondHalf := len(samples) - mid
		if firstHalf > 0 {
			f.decayRate = float64(secondHalf) / float64(firstHalf)
		}
	}

	return f
}
