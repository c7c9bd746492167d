package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids3d/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

func TestRun_WritesTelemetryAndConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := simulation.DefaultConfig()
	cfg.Flock.Population = 40
	cfg.Telemetry.Window = 10
	cfg.Telemetry.Output = filepath.Join(dir, "out", "telemetry.csv")
	dump := filepath.Join(dir, "effective.yaml")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := run(cfg, 25, 1.0/60.0, dump, logger); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	rows, err := telemetry.ReadCSV(cfg.Telemetry.Output)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	// Two full windows and the flushed remainder.
	if len(rows) != 3 {
		t.Fatalf("got %d rows; want 3", len(rows))
	}
	if rows[2].WindowStart != 21 || rows[2].WindowEnd != 25 {
		t.Errorf("last window = [%d, %d]; want [21, 25]", rows[2].WindowStart, rows[2].WindowEnd)
	}

	back, err := simulation.LoadConfig(dump)
	if err != nil {
		t.Fatalf("LoadConfig(dump) error = %v", err)
	}
	if back != cfg {
		t.Errorf("dumped config = %+v; want %+v", back, cfg)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.Index.Capacity = 0
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(cfg, 1, 0.01, "", logger); err == nil {
		t.Fatal("run() with an invalid config should fail")
	}
}

