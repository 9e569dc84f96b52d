// Package config provides TOML configuration for the tile inspection
// pipelines, with documented defaults for every tuning knob.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root of the TOML configuration file.
type Config struct {
	Logging   LoggingConfig   `toml:"logging"`
	Vibration VibrationConfig `toml:"vibration"`
	Vision    VisionConfig    `toml:"vision"`
}

// LoggingConfig controls the process-wide logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// JSON switches the handler from human-readable text to JSON lines.
	JSON bool `toml:"json"`
}

// VibrationConfig holds the tap-response analysis knobs. Durations are
// expressed in seconds to match the physical timescales involved
// (milliseconds to half a second).
type VibrationConfig struct {
	// TapThreshold is the debounce interval: the minimum time in seconds
	// between two signal activations for them to count as separate taps.
	TapThreshold float64 `toml:"tap_threshold"`

	// SampleWindow is the time in seconds to record vibration after a tap.
	SampleWindow float64 `toml:"sample_window"`

	// HollowDurationThreshold is the minimum vibration duration in seconds
	// for a tap response to be considered hollow.
	HollowDurationThreshold float64 `toml:"hollow_duration_threshold"`
}

// VisionConfig holds the crack detection knobs.
type VisionConfig struct {
	// CrackThreshold is the minimum confidence (0.0-1.0) for the detection
	// decision; lower values make detection more sensitive.
	CrackThreshold float64 `toml:"crack_threshold"`

	// MinCrackLength is the minimum line-segment length in pixels for a
	// segment to be reported as a crack.
	MinCrackLength int `toml:"min_crack_length"`

	// EdgeLowThreshold is the lower hysteresis threshold (0-255) for edge
	// extraction.
	EdgeLowThreshold int `toml:"edge_low_threshold"`

	// EdgeHighThreshold is the upper hysteresis threshold (0-255) for edge
	// extraction.
	EdgeHighThreshold int `toml:"edge_high_threshold"`
}

// Default returns the configuration with every knob at its documented
// default: 50ms tap debounce, 0.5s sample window, 0.15s hollow duration
// threshold, 0.15 crack threshold, 50px minimum crack length, and 50/150
// edge hysteresis thresholds.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Vibration: VibrationConfig{
			TapThreshold:            0.05,
			SampleWindow:            0.5,
			HollowDurationThreshold: 0.15,
		},
		Vision: VisionConfig{
			CrackThreshold:    0.15,
			MinCrackLength:    50,
			EdgeLowThreshold:  50,
			EdgeHighThreshold: 150,
		},
	}
}

// Load reads a TOML config from the given path, layered over Default().
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values that would make a pipeline degenerate.
func (c Config) Validate() error {
	if c.Vibration.TapThreshold <= 0 {
		return fmt.Errorf("vibration.tap_threshold must be positive, got %v", c.Vibration.TapThreshold)
	}
	if c.Vibration.SampleWindow <= 0 {
		return fmt.Errorf("vibration.sample_window must be positive, got %v", c.Vibration.SampleWindow)
	}
	if c.Vibration.HollowDurationThreshold <= 0 {
		return fmt.Errorf("vibration.hollow_duration_threshold must be positive, got %v", c.Vibration.HollowDurationThreshold)
	}
	// Zero is rejected rather than read as "unset": the detector substitutes
	// its defaults for non-positive knobs, so a configured zero would be
	// silently rewritten.
	if c.Vision.CrackThreshold <= 0 || c.Vision.CrackThreshold > 1 {
		return fmt.Errorf("vision.crack_threshold must be in (0,1], got %v", c.Vision.CrackThreshold)
	}
	if c.Vision.MinCrackLength <= 0 {
		return fmt.Errorf("vision.min_crack_length must be positive, got %d", c.Vision.MinCrackLength)
	}
	if c.Vision.EdgeLowThreshold <= 0 || c.Vision.EdgeHighThreshold > 255 ||
		c.Vision.EdgeLowThreshold >= c.Vision.EdgeHighThreshold {
		return fmt.Errorf("vision edge thresholds must satisfy 0 < low < high <= 255, got %d/%d",
			c.Vision.EdgeLowThreshold, c.Vision.EdgeHighThreshold)
	}
	return nil
}

// TapThresholdDuration returns the debounce interval as a time.Duration.
func (c VibrationConfig) TapThresholdDuration() time.Duration {
	return secondsToDuration(c.TapThreshold)
}

// SampleWindowDuration returns the sampling window as a time.Duration.
func (c VibrationConfig) SampleWindowDuration() time.Duration {
	return secondsToDuration(c.SampleWindow)
}

// HollowDurationThresholdDuration returns the hollow-classification duration
// threshold as a time.Duration.
func (c VibrationConfig) HollowDurationThresholdDuration() time.Duration {
	return secondsToDuration(c.HollowDurationThreshold)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
