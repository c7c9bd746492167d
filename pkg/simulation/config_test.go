package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative population", func(c *Config) { c.Flock.Population = -1 }},
		{"spread beyond boundary", func(c *Config) { c.Flock.InitialSpread = 100 }},
		{"zero capacity", func(c *Config) { c.Index.Capacity = 0 }},
		{"unknown strategy", func(c *Config) { c.Index.Strategy = "lazy" }},
		{"negative workers", func(c *Config) { c.Parallel.Workers = -2 }},
		{"negative max delta", func(c *Config) { c.Clock.MaxDelta = -1 }},
		{"zero telemetry window", func(c *Config) { c.Telemetry.Window = 0 }},
		{"negative weight", func(c *Config) { c.Boid.Forces.Cohesion = -3 }},
		{"protect not below view", func(c *Config) { c.Boid.ProtectRange = c.Boid.ViewRange }},
		{"min speed above max", func(c *Config) { c.Boid.MinSpeed = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil; want an error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.Capacity = 0
	cfg.Parallel.Workers = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	for _, want := range []string{"index.capacity", "parallel.workers"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "flock.yaml", `
flock:
  population: 120
  seed: 7
boid:
  forces:
    freeWill: 0
index:
  strategy: rebuild
  capacity: 4
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Flock.Population != 120 || cfg.Flock.Seed != 7 {
		t.Errorf("flock = %+v; want population 120 seed 7", cfg.Flock)
	}
	if cfg.Index.Strategy != StrategyRebuild || cfg.Index.Capacity != 4 {
		t.Errorf("index = %+v; want rebuild with capacity 4", cfg.Index)
	}
	if cfg.Boid.Forces.FreeWill != 0 {
		t.Errorf("freeWill = %v; want 0", cfg.Boid.Forces.FreeWill)
	}
	def := DefaultConfig()
	if cfg.Boid.Forces.Separation != def.Boid.Forces.Separation {
		t.Errorf("separation = %v; untouched weights must keep their default %v",
			cfg.Boid.Forces.Separation, def.Boid.Forces.Separation)
	}
	if cfg.World != def.World {
		t.Errorf("world = %+v; want defaults %+v", cfg.World, def.World)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "flock.json", `{"flock": {"population": 10}, "parallel": {"workers": 4}}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Flock.Population != 10 || cfg.Parallel.Workers != 4 {
		t.Errorf("got population %d workers %d; want 10 and 4", cfg.Flock.Population, cfg.Parallel.Workers)
	}
}

func TestLoadConfig_EmptyYAMLGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty config = %+v; want defaults", cfg)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown key", "a.json", `{"flock": {"populaton": 10}}`},
		{"bad strategy", "b.yaml", "index:\n  strategy: sometimes\n"},
		{"zero capacity", "c.json", `{"index": {"capacity": 0}}`},
		{"wrong type", "d.yaml", "flock:\n  population: many\n"},
		{"semantic rule", "e.json", `{"boid": {"protectRange": 20}}`},
		{"unsupported extension", "f.toml", `population = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("LoadConfig() error = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v; want os.ErrNotExist", err)
	}
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "broken.json", `{"flock": `))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Flock.Population = 42
	b, err := want.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	got, err := ParseConfigYAML(b)
	if err != nil {
		t.Fatalf("ParseConfigYAML() error = %v\n%s", err, b)
	}
	if got != want {
		t.Errorf("round trip = %+v; want %+v", got, want)
	}
}

func TestLoadConfig_ShippedExamples(t *testing.T) {
	def, err := LoadConfig(filepath.Join("..", "..", "configs", "flock.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig(flock.yaml) error = %v", err)
	}
	if def != DefaultConfig() {
		t.Errorf("configs/flock.yaml drifted from DefaultConfig():\n got %+v\nwant %+v", def, DefaultConfig())
	}

	large, err := LoadConfig(filepath.Join("..", "..", "configs", "flock-large.json"))
	if err != nil {
		t.Fatalf("LoadConfig(flock-large.json) error = %v", err)
	}
	if large.Flock.Population != 5000 || large.Index.Strategy != StrategyRebuild || large.Parallel.Workers != 8 {
		t.Errorf("flock-large.json = %+v", large)
	}
	// Keys absent from the file keep their defaults.
	if large.Boid != DefaultConfig().Boid {
		t.Errorf("boid section = %+v; want defaults", large.Boid)
	}
}
