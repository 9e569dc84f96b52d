package vibration

import (
	"math"
	"testing"
	"time"
)

func defaultTestThresholds() Thresholds {
	return DefaultThresholds(150 * time.Millisecond)
}

func TestClassify(t *testing.T) {
	th := defaultTestThresholds()

	tests := []struct {
		name         string
		duration     time.Duration
		oscillations int
		want         Pattern
	}{
		{"long duration many oscillations", 200 * time.Millisecond, 12, PatternHollow},
		{"long duration exactly above osc floor", 150 * time.Millisecond, 6, PatternHollow},
		{"long duration few oscillations", 300 * time.Millisecond, 5, PatternUnknown},
		{"long duration zero oscillations", 500 * time.Millisecond, 0, PatternUnknown},
		{"very short duration", 10 * time.Millisecond, 20, PatternSolid},
		{"just below solid ceiling", 49 * time.Millisecond, 0, PatternSolid},
		{"medium duration many oscillations", 100 * time.Millisecond, 9, PatternHollow},
		{"medium duration few oscillations", 100 * time.Millisecond, 2, PatternSolid},
		{"medium duration ambiguous", 100 * time.Millisecond, 5, PatternUnknown},
		{"medium duration at hollow boundary", 100 * time.Millisecond, 8, PatternUnknown},
		{"medium duration at solid boundary", 100 * time.Millisecond, 3, PatternUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.duration, tt.oscillations, th)
			if got != tt.want {
				t.Errorf("Classify(%v, %d): got %q, want %q",
					tt.duration, tt.oscillations, got, tt.want)
			}
		})
	}
}

func TestClassify_LongDurationRulePrecedence(t *testing.T) {
	// Any duration at or above the threshold must be decided by rule 1,
	// never by the medium-band tie-breakers.
	th := defaultTestThresholds()

	for _, osc := range []int{6, 10, 50} {
		for _, d := range []time.Duration{150 * time.Millisecond, 200 * time.Millisecond, time.Second} {
			if got := Classify(d, osc, th); got != PatternHollow {
				t.Errorf("Classify(%v, %d): got %q, want hollow", d, osc, got)
			}
		}
	}
}

func TestClassify_BaselineOverridesTargets(t *testing.T) {
	b := &Baseline{
		AvgDuration:     100 * time.Millisecond,
		AvgOscillations: 4,
		SampleCount:     3,
	}
	th := b.Thresholds()

	if th.HollowDuration != 150*time.Millisecond {
		t.Errorf("baseline hollow duration: got %v, want 150ms", th.HollowDuration)
	}
	if th.HollowOscillations != 7 {
		t.Errorf("baseline hollow oscillations: got %d, want 7", th.HollowOscillations)
	}

	// 7 oscillations clears the default floor of 5 but not the calibrated
	// floor of 7.
	if got := Classify(200*time.Millisecond, 7, DefaultThresholds(150*time.Millisecond)); got != PatternHollow {
		t.Errorf("default thresholds: got %q, want hollow", got)
	}
	if got := Classify(200*time.Millisecond, 7, th); got != PatternUnknown {
		t.Errorf("baseline thresholds: got %q, want unknown", got)
	}
}

func TestScore_HollowRoundTrip(t *testing.T) {
	// duration=0.2s, oscillations=6, threshold=0.15s:
	// min(1.0, 0.5 + 0.3*(0.2/0.15) + 0.2*0.6) = min(1.0, 1.02) = 1.0
	th := defaultTestThresholds()

	if got := Classify(200*time.Millisecond, 6, th); got != PatternHollow {
		t.Fatalf("Classify: got %q, want hollow", got)
	}
	got := Score(PatternHollow, 200*time.Millisecond, 6, th)
	if got != 1.0 {
		t.Errorf("Score: got %v, want 1.0", got)
	}
}

func TestScore_SolidStaircase(t *testing.T) {
	th := defaultTestThresholds()

	tests := []struct {
		duration time.Duration
		want     float64
	}{
		{0, 0.8},
		{10 * time.Millisecond, 0.8},
		{29 * time.Millisecond, 0.8},
		{30 * time.Millisecond, 0.6},
		{49 * time.Millisecond, 0.6},
		{50 * time.Millisecond, 0.4},
		{100 * time.Millisecond, 0.4},
	}

	prev := math.Inf(1)
	for _, tt := range tests {
		got := Score(PatternSolid, tt.duration, 0, th)
		if got != tt.want {
			t.Errorf("Score(solid, %v): got %v, want %v", tt.duration, got, tt.want)
		}
		if got > prev {
			t.Errorf("Score(solid, %v): confidence rose to %v from %v as duration grew",
				tt.duration, got, prev)
		}
		prev = got
	}
}

func TestScore_UnknownIsFixed(t *testing.T) {
	th := defaultTestThresholds()
	for _, d := range []time.Duration{0, 100 * time.Millisecond, time.Second} {
		if got := Score(PatternUnknown, d, 42, th); got != 0.3 {
			t.Errorf("Score(unknown, %v): got %v, want 0.3", d, got)
		}
	}
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	th := defaultTestThresholds()
	durations := []time.Duration{0, time.Millisecond, 50 * time.Millisecond,
		150 * time.Millisecond, time.Second, 10 * time.Second}
	oscillations := []int{0, 1, 5, 10, 100, 10000}

	for _, p := range []Pattern{PatternSolid, PatternHollow, PatternUnknown} {
		for _, d := range durations {
			for _, osc := range oscillations {
				got := Score(p, d, osc, th)
				if got < 0 || got > 1 {
					t.Errorf("Score(%q, %v, %d) = %v outside [0,1]", p, d, osc, got)
				}
			}
		}
	}
}
