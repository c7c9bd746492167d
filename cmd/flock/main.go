// Command flock runs the simulation without a window, at a fixed time step,
// and reports aggregated frame statistics as log lines and an optional CSV file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lao-tseu-is-alive/go-boids3d/internal/cli"
	"github.com/lao-tseu-is-alive/go-boids3d/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

func main() {
	configPath := flag.String("config", "", "JSON or YAML configuration file")
	frames := flag.Int("frames", 600, "number of frames to simulate")
	dt := flag.Float64("dt", 1.0/60.0, "fixed time step in seconds")
	var o cli.Overrides
	o.Register(flag.CommandLine)
	o.RegisterTelemetry(flag.CommandLine)
	dumpConfig := flag.String("dump-config", "", "write the effective configuration as YAML to this file")
	jsonLog := flag.Bool("json-log", false, "log as JSON instead of text")
	debug := flag.Bool("debug", false, "log every frame")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if *jsonLog {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			logger.Error("failed to load config", slog.String("path", *configPath), slog.Any("error", err))
			os.Exit(1)
		}
	}
	cfg = o.Apply(cfg)

	if err := run(cfg, *frames, *dt, *dumpConfig, logger); err != nil {
		logger.Error("simulation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg simulation.Config, frames int, dt float64, dumpConfig string, logger *slog.Logger) error {
	flock, err := simulation.New(cfg, simulation.WithLogger(logger))
	if err != nil {
		return err
	}

	if dumpConfig != "" {
		if err := writeConfig(cfg, dumpConfig); err != nil {
			return err
		}
		logger.Info("effective config written", slog.String("path", dumpConfig))
	}

	out, err := telemetry.NewCSVWriter(cfg.Telemetry.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("failed to close telemetry output", slog.Any("error", err))
		}
	}()

	collector := telemetry.NewCollector(cfg.Telemetry.Window)
	emit := func(w telemetry.WindowStats) error {
		logger.Info("window", slog.Any("stats", w))
		return out.Write(w)
	}

	for i := 0; i < frames; i++ {
		flock.Advance(dt)
		if w, ok := collector.Add(telemetry.SampleFrom(flock.Stats())); ok {
			if err := emit(w); err != nil {
				return err
			}
		}
	}
	if w, ok := collector.Flush(); ok {
		if err := emit(w); err != nil {
			return err
		}
	}

	final := flock.Stats()
	logger.Info("simulation done",
		slog.Uint64("frames", final.Frame),
		slog.Float64("sim_time", final.SimTime),
		slog.Float64("mean_speed", final.MeanSpeed),
		slog.Int("octree_nodes", final.Index.Nodes),
		slog.String("telemetry", out.Path()),
	)
	return nil
}

func writeConfig(cfg simulation.Config, path string) error {
	b, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
