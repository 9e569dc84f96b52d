package vibration

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tilescan/tilescan/internal/clock"
)

const (
	// samplePeriod is the cadence of the sampling loop.
	samplePeriod = time.Millisecond

	// calibrationTapTimeout is how long a calibration round waits for a tap
	// before giving up on that sample.
	calibrationTapTimeout = 5 * time.Second

	// calibrationPollPeriod is the poll cadence while waiting for a
	// calibration tap.
	calibrationPollPeriod = 10 * time.Millisecond

	// calibrationRetryPause is the pause after a missed calibration sample.
	calibrationRetryPause = time.Second
)

// State is the position of a Sensor in its tap-test cycle. A tap test
// traverses Idle -> TapDetected -> Analyzing -> ResultReady -> Idle
// synchronously within a single TapTest call.
type State int

const (
	StateIdle State = iota
	StateTapDetected
	StateAnalyzing
	StateResultReady
)

// String returns the state name for logs and diagnostics.
func (s State) String() string {
	switch s {
	case StateTapDetected:
		return "tap_detected"
	case StateAnalyzing:
		return "analyzing"
	case StateResultReady:
		return "result_ready"
	default:
		return "idle"
	}
}

// Options configures a Sensor. Zero values fall back to the documented
// defaults: 50ms tap threshold, 500ms sample window, 150ms hollow duration
// threshold, the system clock, and slog.Default().
type Options struct {
	// TapThreshold is the debounce interval between accepted taps.
	TapThreshold time.Duration

	// SampleWindow is how long to record vibration after an accepted tap.
	SampleWindow time.Duration

	// HollowDurationThreshold is the minimum vibration duration for the
	// long-duration hollow rule.
	HollowDurationThreshold time.Duration

	// Clock supplies time and sleep; tests substitute a deterministic one.
	Clock clock.Clock

	// Logger receives diagnostic output.
	Logger *slog.Logger
}

// Sensor runs the tap-response classification pipeline over a binary
// vibration signal.
//
// Sensor is not thread-safe: one tap-test pipeline may be active per
// instance at a time. The debounce timestamp and history ring are owned by
// the instance, never ambient process state.
type Sensor struct {
	signal SignalSource
	clk    clock.Clock
	log    *slog.Logger

	tapThreshold    time.Duration
	sampleWindow    time.Duration
	hollowThreshold time.Duration

	lastTap  time.Time
	state    State
	history  *ring
	baseline *Baseline
}

// NewSensor creates a Sensor reading from the given signal source.
func NewSensor(signal SignalSource, opts Options) *Sensor {
	if opts.TapThreshold <= 0 {
		opts.TapThreshold = 50 * time.Millisecond
	}
	if opts.SampleWindow <= 0 {
		opts.SampleWindow = 500 * time.Millisecond
	}
	if opts.HollowDurationThreshold <= 0 {
		opts.HollowDurationThreshold = 150 * time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Sensor{
		signal:          signal,
		clk:             opts.Clock,
		log:             opts.Logger,
		tapThreshold:    opts.TapThreshold,
		sampleWindow:    opts.SampleWindow,
		hollowThreshold: opts.HollowDurationThreshold,
		history:         newRing(historyCapacity),
	}
	s.log.Debug("vibration sensor ready",
		"tap_threshold", s.tapThreshold,
		"sample_window", s.sampleWindow,
		"hollow_duration_threshold", s.hollowThreshold)
	return s
}

// Level reads the instantaneous signal level, failing closed to Low.
func (s *Sensor) Level() Level {
	lv, err := s.signal.Read()
	if err != nil {
		s.log.Debug("signal read failed", "error", err)
		return Low
	}
	return lv
}

// DetectTap reports whether a new tap has occurred.
//
// A tap is accepted exactly when the signal is High and the elapsed time
// since the previous accepted tap exceeds the debounce interval. Acceptance
// updates the last-tap timestamp; the debounce is a hard floor, never
// retroactively corrected. Read errors degrade to "no tap".
func (s *Sensor) DetectTap() bool {
	lv, err := s.signal.Read()
	if err != nil {
		s.log.Debug("signal read failed during tap detection", "error", err)
		return false
	}
	if lv != High {
		return false
	}
	now := s.clk.Now()
	if now.Sub(s.lastTap) > s.tapThreshold {
		s.lastTap = now
		return true
	}
	return false
}

// recordWindow samples the signal at the fixed cadence for the full sample
// window, recording every state transition with its offset from window
// start. The loop is wall-clock bound, so it terminates even under sampling
// jitter. It blocks the calling goroutine for the whole window.
func (s *Sensor) recordWindow() []Sample {
	start := s.clk.Now()
	last := s.Level()

	var samples []Sample
	for s.clk.Now().Sub(start) < s.sampleWindow {
		cur := s.Level()
		if cur != last {
			samples = append(samples, Sample{
				Offset: s.clk.Now().Sub(start),
				Level:  cur,
			})
		}
		last = cur
		s.clk.Sleep(samplePeriod)
	}
	return samples
}

// Analyze samples one tap-response window and classifies it. Call it
// immediately after DetectTap returns true. The result is appended to the
// diagnostic history ring.
func (s *Sensor) Analyze() *Analysis {
	s.state = StateAnalyzing
	samples := s.recordWindow()
	f := extractFeatures(samples, s.sampleWindow)

	th := s.thresholds()
	a := Analysis{
		Duration:         f.duration,
		OscillationCount: f.oscillations,
		MaxIntensity:     f.maxIntensity,
		DecayRate:        f.decayRate,
		Pattern:          Classify(f.duration, f.oscillations, th),
		Timestamp:        s.clk.Now(),
	}
	s.history.append(a)

	s.log.Debug("vibration analysis",
		"duration", a.Duration,
		"oscillations", a.OscillationCount,
		"decay_rate", a.DecayRate,
		"pattern", a.Pattern)
	return &a
}

// TapTest performs one complete tap test: detect, analyze, classify, score.
//
// The call traverses the full state cycle synchronously and returns with the
// sensor back at Idle. When no tap is detected the zero-confidence result
// with nil Analysis is returned.
func (s *Sensor) TapTest() TapTestResult {
	s.state = StateIdle
	if !s.DetectTap() {
		return TapTestResult{}
	}
	s.state = StateTapDetected
	s.log.Info("tap detected, analyzing vibration pattern")

	a := s.Analyze()
	s.state = StateResultReady

	hollow := a.Pattern == PatternHollow
	result := TapTestResult{
		TapDetected: true,
		Analysis:    a,
		IsHollow:    &hollow,
		Confidence:  Score(a.Pattern, a.Duration, a.OscillationCount, s.thresholds()),
	}
	s.state = StateIdle
	return result
}

// Calibrate collects up to the requested number of tap analyses from a known
// solid tile and derives a Baseline from them. Each round waits up to five
// seconds for a tap. At least three successful analyses are required;
// otherwise an error is returned and the sensor keeps its previous baseline.
//
// On success the baseline is installed on the sensor, substituting its
// targets for the configured classification thresholds.
func (s *Sensor) Calibrate(samples int) (*Baseline, error) {
	s.log.Info("calibrating baseline pattern", "samples", samples)

	var collected []Analysis
	for i := 0; i < samples; i++ {
		s.log.Info("waiting for calibration tap", "sample", i+1, "of", samples)
		deadline := s.clk.Now().Add(calibrationTapTimeout)
		got := false
		for s.clk.Now().Before(deadline) {
			if s.DetectTap() {
				if a := s.Analyze(); a != nil {
					collected = append(collected, *a)
					got = true
				}
				break
			}
			s.clk.Sleep(calibrationPollPeriod)
		}
		if !got {
			s.log.Warn("no tap detected for calibration sample", "sample", i+1)
			s.clk.Sleep(calibrationRetryPause)
		}
	}

	if len(collected) < minBaselineSamples {
		return nil, fmt.Errorf("insufficient calibration samples: got %d, need %d",
			len(collected), minBaselineSamples)
	}

	var durSum time.Duration
	var oscSum int
	for _, a := range collected {
		durSum += a.Duration
		oscSum += a.OscillationCount
	}
	b := &Baseline{
		AvgDuration:     durSum / time.Duration(len(collected)),
		AvgOscillations: float64(oscSum) / float64(len(collected)),
		SampleCount:     len(collected),
	}
	s.baseline = b

	s.log.Info("baseline set",
		"avg_duration", b.AvgDuration,
		"avg_oscillations", b.AvgOscillations,
		"sample_count", b.SampleCount)
	return b, nil
}

// Baseline returns the installed calibration baseline, or nil.
func (s *Sensor) Baseline() *Baseline { return s.baseline }

// SetBaseline installs (or clears, with nil) a calibration baseline.
func (s *Sensor) SetBaseline(b *Baseline) { s.baseline = b }

// Recent returns up to n most recent analyses, oldest first. The history is
// diagnostic only and never feeds back into classification.
func (s *Sensor) Recent(n int) []Analysis { return s.history.recent(n) }

// State returns the sensor's position in the tap-test cycle. Outside an
// active TapTest call this is always StateIdle.
func (s *Sensor) State() State { return s.state }

func (s *Sensor) thresholds() Thresholds {
	if s.baseline != nil {
		return s.baseline.Thresholds()
	}
	return DefaultThresholds(s.hollowThreshold)
}
