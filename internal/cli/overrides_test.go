package cli

import (
	"flag"
	"io"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

func parse(t *testing.T, telemetry bool, args ...string) *Overrides {
	t.Helper()
	var o Overrides
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.Register(fs)
	if telemetry {
		o.RegisterTelemetry(fs)
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}
	return &o
}

func TestOverrides_Apply(t *testing.T) {
	base := simulation.DefaultConfig()
	base.Flock.Seed = 99
	base.Flock.Population = 300
	base.Parallel.Workers = 4
	base.Telemetry.Output = "out.csv"

	tests := []struct {
		name string
		args []string
		want func(c *simulation.Config)
	}{
		{"nothing set keeps the file", nil, func(c *simulation.Config) {}},
		{"seed zero overrides", []string{"-seed", "0"}, func(c *simulation.Config) { c.Flock.Seed = 0 }},
		{"population zero overrides", []string{"-population", "0"}, func(c *simulation.Config) { c.Flock.Population = 0 }},
		{"workers zero overrides", []string{"-workers", "0"}, func(c *simulation.Config) { c.Parallel.Workers = 0 }},
		{"strategy", []string{"-strategy", "rebuild"}, func(c *simulation.Config) { c.Index.Strategy = simulation.StrategyRebuild }},
		{"empty telemetry disables output", []string{"-telemetry", ""}, func(c *simulation.Config) { c.Telemetry.Output = "" }},
		{"several", []string{"-seed", "7", "-population", "12"}, func(c *simulation.Config) {
			c.Flock.Seed = 7
			c.Flock.Population = 12
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := base
			tt.want(&want)
			if got := parse(t, true, tt.args...).Apply(base); got != want {
				t.Errorf("Apply() = %+v; want %+v", got, want)
			}
		})
	}
}

func TestOverrides_TelemetryNotRegistered(t *testing.T) {
	var o Overrides
	fs := flag.NewFlagSet("viewer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.Register(fs)
	if err := fs.Parse([]string{"-telemetry", "x.csv"}); err == nil {
		t.Fatal("Parse(-telemetry) should fail when the flag is not registered")
	}
}

func TestOverrides_UnregisteredIsNoop(t *testing.T) {
	var o Overrides
	cfg := simulation.DefaultConfig()
	if got := o.Apply(cfg); got != cfg {
		t.Errorf("Apply() on an unregistered Overrides changed the config: %+v", got)
	}
}
