package vibration

import "time"

const (
	// baselineDurationFactor scales the calibrated average duration into a
	// hollow-duration threshold: responses 1.5x longer than the known-solid
	// baseline are treated as long-duration.
	baselineDurationFactor = 1.5

	// baselineOscillationMargin is added to the calibrated average
	// oscillation count to form the hollow oscillation floor.
	baselineOscillationMargin = 3

	// minBaselineSamples is the minimum number of successful analyses a
	// calibration run must collect.
	minBaselineSamples = 3
)

// Baseline is the calibration artifact derived from tapping a known solid
// tile several times. When set on a Sensor, it substitutes its own targets
// for the configured classification thresholds.
type Baseline struct {
	// AvgDuration is the mean vibration duration across the calibration
	// samples.
	AvgDuration time.Duration `json:"avg_duration"`

	// AvgOscillations is the mean oscillation count across the calibration
	// samples.
	AvgOscillations float64 `json:"avg_oscillation_count"`

	// SampleCount is how many successful analyses contributed.
	SampleCount int `json:"sample_count"`
}

// Thresholds derives classification targets from the baseline: the hollow
// duration cutoff becomes 1.5x the solid average, and the hollow oscillation
// floor becomes the solid average plus a fixed margin.
func (b *Baseline) Thresholds() Thresholds {
	return Thresholds{
		HollowDuration:     time.Duration(float64(b.AvgDuration) * baselineDurationFactor),
		HollowOscillations: int(b.AvgOscillations) + baselineOscillationMargin,
	}
}
