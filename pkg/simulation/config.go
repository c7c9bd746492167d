package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/behavior"
)

//go:embed config.schema.json
var configSchema string

var ErrInvalidConfig = errors.New("invalid configuration")

// IndexStrategy selects how the octree follows the boids between frames.
type IndexStrategy string

const (
	// StrategyIncremental moves only the boids that left their node.
	StrategyIncremental IndexStrategy = "incremental"
	// StrategyRebuild clears the tree and inserts every boid each frame.
	StrategyRebuild IndexStrategy = "rebuild"
)

type Config struct {
	Flock     FlockConfig     `json:"flock" yaml:"flock"`
	World     WorldConfig     `json:"world" yaml:"world"`
	Boid      BoidConfig      `json:"boid" yaml:"boid"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Parallel  ParallelConfig  `json:"parallel" yaml:"parallel"`
	Clock     ClockConfig     `json:"clock" yaml:"clock"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}

type FlockConfig struct {
	Population int    `json:"population" yaml:"population"`
	Seed       uint64 `json:"seed" yaml:"seed"`
	// Boids spawn with every coordinate in [-InitialSpread, InitialSpread]
	// and every velocity component in [-InitialSpeed, InitialSpeed].
	InitialSpread float64 `json:"initialSpread" yaml:"initialSpread"`
	InitialSpeed  float64 `json:"initialSpeed" yaml:"initialSpeed"`
}

type WorldConfig struct {
	Boundary  float64 `json:"boundary" yaml:"boundary"`   // hard wall, half extent of the cube
	WallLimit float64 `json:"wallLimit" yaml:"wallLimit"` // soft wall
}

type BoidConfig struct {
	ViewRange    float64         `json:"viewRange" yaml:"viewRange"`
	ProtectRange float64         `json:"protectRange" yaml:"protectRange"`
	MinSpeed     float64         `json:"minSpeed" yaml:"minSpeed"`
	MaxSpeed     float64         `json:"maxSpeed" yaml:"maxSpeed"`
	Forces       behavior.Forces `json:"forces" yaml:"forces"`
}

type IndexConfig struct {
	Capacity int           `json:"capacity" yaml:"capacity"`
	MaxDepth int           `json:"maxDepth" yaml:"maxDepth"`
	Strategy IndexStrategy `json:"strategy" yaml:"strategy"`
}

type ParallelConfig struct {
	// Workers > 1 splits the step phase across goroutines.
	Workers int `json:"workers" yaml:"workers"`
}

type ClockConfig struct {
	// MaxDelta caps a frame delta in seconds, 0 disables the cap.
	MaxDelta float64 `json:"maxDelta" yaml:"maxDelta"`
}

type TelemetryConfig struct {
	Window int    `json:"window" yaml:"window"` // frames per aggregated row
	Output string `json:"output" yaml:"output"` // CSV file, empty to disable
}

func DefaultConfig() Config {
	p := behavior.DefaultParams()
	return Config{
		Flock: FlockConfig{
			Population:    500,
			Seed:          1,
			InitialSpread: 15,
			InitialSpeed:  15,
		},
		World: WorldConfig{
			Boundary:  p.Boundary,
			WallLimit: p.WallLimit,
		},
		Boid: BoidConfig{
			ViewRange:    p.ViewRange,
			ProtectRange: p.ProtectRange,
			MinSpeed:     p.MinSpeed,
			MaxSpeed:     p.MaxSpeed,
			Forces:       p.Forces,
		},
		Index: IndexConfig{
			Capacity: 8,
			MaxDepth: 16,
			Strategy: StrategyIncremental,
		},
		Parallel:  ParallelConfig{Workers: 1},
		Clock:     ClockConfig{MaxDelta: 0.1},
		Telemetry: TelemetryConfig{Window: 60},
	}
}

// Params returns the per-boid parameters described by the configuration.
func (c Config) Params() behavior.Params {
	return behavior.Params{
		ViewRange:    c.Boid.ViewRange,
		ProtectRange: c.Boid.ProtectRange,
		MinSpeed:     c.Boid.MinSpeed,
		MaxSpeed:     c.Boid.MaxSpeed,
		WallLimit:    c.World.WallLimit,
		Boundary:     c.World.Boundary,
		Forces:       c.Boid.Forces,
	}
}

// Validate reports every rule the configuration breaks, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Flock.Population < 0 {
		invalid("flock.population %d must be >= 0", c.Flock.Population)
	}
	if c.Flock.InitialSpread <= 0 || c.Flock.InitialSpread > c.World.Boundary {
		invalid("flock.initialSpread %v must be in (0, world.boundary %v]", c.Flock.InitialSpread, c.World.Boundary)
	}
	if c.Flock.InitialSpeed < 0 {
		invalid("flock.initialSpeed %v must be >= 0", c.Flock.InitialSpeed)
	}
	if c.Index.Capacity < 1 {
		invalid("index.capacity %d must be >= 1", c.Index.Capacity)
	}
	if c.Index.MaxDepth < 1 {
		invalid("index.maxDepth %d must be >= 1", c.Index.MaxDepth)
	}
	switch c.Index.Strategy {
	case StrategyIncremental, StrategyRebuild:
	default:
		invalid("index.strategy %q must be %q or %q", c.Index.Strategy, StrategyIncremental, StrategyRebuild)
	}
	if c.Parallel.Workers < 0 {
		invalid("parallel.workers %d must be >= 0", c.Parallel.Workers)
	}
	if c.Clock.MaxDelta < 0 {
		invalid("clock.maxDelta %v must be >= 0", c.Clock.MaxDelta)
	}
	if c.Telemetry.Window < 1 {
		invalid("telemetry.window %d must be >= 1", c.Telemetry.Window)
	}
	if err := validateForces(c.Boid.Forces); err != nil {
		errs = append(errs, err)
	}
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: boid: %w", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

func validateForces(f behavior.Forces) error {
	weights := []struct {
		name  string
		value float64
	}{
		{"separation", f.Separation},
		{"alignment", f.Alignment},
		{"cohesion", f.Cohesion},
		{"wallAvoidance", f.WallAvoidance},
		{"freeWill", f.FreeWill},
	}
	var errs []error
	for _, w := range weights {
		if w.value < 0 || math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			errs = append(errs, fmt.Errorf("%w: boid.forces.%s %v must be a finite weight >= 0", ErrInvalidConfig, w.name, w.value))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig reads a JSON or YAML configuration file (chosen by extension),
// validates it against the embedded schema and decodes it over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseConfigYAML(b)
	case ".json":
		return ParseConfigJSON(b)
	default:
		return Config{}, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, ext)
	}
}

// ParseConfigYAML converts the YAML document to JSON and parses it with ParseConfigJSON.
func ParseConfigYAML(b []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Config{}, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return Config{}, fmt.Errorf("failed to convert config yaml: %w", err)
	}
	return ParseConfigJSON(js)
}

func ParseConfigJSON(b []byte) (Config, error) {
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return Config{}, fmt.Errorf("failed to compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return Config{}, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return Config{}, fmt.Errorf("%w: schema: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// YAML renders the configuration as a YAML document, handy to start a config file from defaults.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
