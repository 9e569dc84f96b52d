// Package main provides the CLI entrypoint for tilescan.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tilescan/tilescan/internal/config"
	"github.com/tilescan/tilescan/internal/detection"
	"github.com/tilescan/tilescan/internal/imaging"
	"github.com/tilescan/tilescan/internal/logging"
	"github.com/tilescan/tilescan/internal/vibration"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	logLevel   string
	logJSON    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tilescan",
		Short:         "Floor tile inspection: hollow-tile tap analysis and crack detection",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")

	root.AddCommand(newCracksCmd())
	root.AddCommand(newTapCmd())
	root.AddCommand(newCalibrateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return cfg, logging.New(level, logJSON || cfg.Logging.JSON), nil
}

func newCracksCmd() *cobra.Command {
	var noAnnotate bool

	cmd := &cobra.Command{
		Use:   "cracks <image>...",
		Short: "Detect cracks in tile images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			detector := detection.NewCrackDetector(imaging.FileSource{}, detection.Options{
				CrackThreshold:    cfg.Vision.CrackThreshold,
				MinCrackLength:    cfg.Vision.MinCrackLength,
				EdgeLowThreshold:  cfg.Vision.EdgeLowThreshold,
				EdgeHighThreshold: cfg.Vision.EdgeHighThreshold,
				Logger:            logger,
			})

			for _, path := range args {
				result := detector.Detect(path, !noAnnotate)
				if result.Err != "" {
					fmt.Printf("%s: analysis failed: %s\n", path, result.Err)
					continue
				}
				fmt.Printf("%s: detected=%v confidence=%.3f cracks=%d edge_density=%.3f\n",
					path, result.Detected, result.Confidence, result.CrackCount, result.EdgeDensity)
				if result.AnnotatedPath != "" {
					fmt.Printf("%s: annotated evidence saved to %s\n", path, result.AnnotatedPath)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noAnnotate, "no-annotate", false, "skip saving annotated evidence images")
	return cmd
}

func newTapCmd() *cobra.Command {
	var (
		replayPath string
		tests      int
	)

	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Run tap tests against a recorded signal capture",
		Long: "Replays a capture file of piezo line levels ('0'/'1' characters,\n" +
			"whitespace ignored) through the tap-response classifier.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			src, closeFn, err := openReplay(replayPath)
			if err != nil {
				return err
			}
			defer closeFn()

			sensor := newSensor(cfg, src, logger)
			for i := 0; i < tests; i++ {
				result := sensor.TapTest()
				printTapResult(i+1, result)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&replayPath, "replay", "", "capture file of signal levels (required)")
	cmd.Flags().IntVar(&tests, "tests", 1, "number of tap tests to run")
	_ = cmd.MarkFlagRequired("replay")
	return cmd
}

func newCalibrateCmd() *cobra.Command {
	var (
		replayPath string
		samples    int
	)

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Derive a solid-tile baseline from a recorded signal capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			src, closeFn, err := openReplay(replayPath)
			if err != nil {
				return err
			}
			defer closeFn()

			sensor := newSensor(cfg, src, logger)
			baseline, err := sensor.Calibrate(samples)
			if err != nil {
				return err
			}
			fmt.Printf("baseline: avg_duration=%v avg_oscillations=%.1f samples=%d\n",
				baseline.AvgDuration, baseline.AvgOscillations, baseline.SampleCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&replayPath, "replay", "", "capture file of signal levels (required)")
	cmd.Flags().IntVar(&samples, "samples", 5, "number of calibration taps to collect")
	_ = cmd.MarkFlagRequired("replay")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tilescan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
		},
	}
}

func newSensor(cfg config.Config, src vibration.SignalSource, logger *slog.Logger) *vibration.Sensor {
	return vibration.NewSensor(src, vibration.Options{
		TapThreshold:            cfg.Vibration.TapThresholdDuration(),
		SampleWindow:            cfg.Vibration.SampleWindowDuration(),
		HollowDurationThreshold: cfg.Vibration.HollowDurationThresholdDuration(),
		Logger:                  logger,
	})
}

func printTapResult(n int, result vibration.TapTestResult) {
	if !result.TapDetected {
		fmt.Printf("test %d: no tap detected\n", n)
		return
	}
	a := result.Analysis
	verdict := "solid"
	if result.IsHollow != nil && *result.IsHollow {
		verdict = "HOLLOW"
	}
	if a.Pattern == vibration.PatternUnknown {
		verdict = "unknown"
	}
	fmt.Printf("test %d: %s confidence=%.2f duration=%v oscillations=%d decay=%.2f\n",
		n, verdict, result.Confidence, a.Duration, a.OscillationCount, a.DecayRate)
}

// openReplay opens a capture file as a SignalSource. Each Read consumes the
// next '0' or '1' character; whitespace is skipped and end-of-file reads as
// a permanently idle line.
func openReplay(path string) (vibration.SignalSource, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open replay capture: %w", err)
	}
	r := bufio.NewReader(f)
	src := vibration.SignalFunc(func() (vibration.Level, error) {
		for {
			b, err := r.ReadByte()
			if err != nil {
				return vibration.Low, nil
			}
			switch b {
			case '0':
				return vibration.Low, nil
			case '1':
				return vibration.High, nil
			}
		}
	})
	return src, func() { f.Close() }, nil
}
