// Package cli holds the command line plumbing shared by the binaries.
package cli

import (
	"flag"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

// Overrides are command line values that replace fields of a loaded configuration.
// Only flags given on the command line are applied, so an explicit zero
// (for instance -seed 0) still overrides the file.
type Overrides struct {
	Population int
	Seed       uint64
	Workers    int
	Strategy   string
	Telemetry  string

	fs *flag.FlagSet
}

// Register declares the flock flags on fs.
func (o *Overrides) Register(fs *flag.FlagSet) {
	o.fs = fs
	fs.IntVar(&o.Population, "population", 0, "override flock.population")
	fs.Uint64Var(&o.Seed, "seed", 0, "override flock.seed")
	fs.IntVar(&o.Workers, "workers", 0, "override parallel.workers")
	fs.StringVar(&o.Strategy, "strategy", "", "override index.strategy (incremental or rebuild)")
}

// RegisterTelemetry adds the telemetry output flag, for binaries that write CSV.
func (o *Overrides) RegisterTelemetry(fs *flag.FlagSet) {
	o.fs = fs
	fs.StringVar(&o.Telemetry, "telemetry", "", "override telemetry.output (CSV file)")
}

// Apply returns cfg with every flag set on the parsed FlagSet copied in.
func (o *Overrides) Apply(cfg simulation.Config) simulation.Config {
	if o.fs == nil {
		return cfg
	}
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "population":
			cfg.Flock.Population = o.Population
		case "seed":
			cfg.Flock.Seed = o.Seed
		case "workers":
			cfg.Parallel.Workers = o.Workers
		case "strategy":
			cfg.Index.Strategy = simulation.IndexStrategy(o.Strategy)
		case "telemetry":
			cfg.Telemetry.Output = o.Telemetry
		}
	})
	return cfg
}
