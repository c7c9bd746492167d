package simulation

import (
	"math"
	"testing"
)

func TestClock_Tick(t *testing.T) {
	tests := []struct {
		name     string
		maxDelta float64
		elapsed  []float64
		want     []float64
	}{
		{"steady", 0, []float64{0.016, 0.032, 0.048}, []float64{0.016, 0.016, 0.016}},
		{"time going backwards", 0, []float64{1, 0.5, 0.7}, []float64{1, 0, 0.2}},
		{"capped", 0.1, []float64{0.05, 2, 2.05}, []float64{0.05, 0.1, 0.05}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClock(tt.maxDelta)
			for i, e := range tt.elapsed {
				got := c.Tick(e)
				if math.Abs(got-tt.want[i]) > 1e-12 {
					t.Errorf("tick %d at %v: delta = %v; want %v", i, e, got, tt.want[i])
				}
			}
			if c.Frames() != uint64(len(tt.elapsed)) {
				t.Errorf("Frames() = %d; want %d", c.Frames(), len(tt.elapsed))
			}
			if c.Elapsed() != tt.elapsed[len(tt.elapsed)-1] {
				t.Errorf("Elapsed() = %v", c.Elapsed())
			}
		})
	}
}

func TestClampDelta(t *testing.T) {
	tests := []struct {
		dt, maxDelta, want float64
	}{
		{0.5, 0, 0.5},
		{-1, 0, 0},
		{math.NaN(), 0, 0},
		{math.Inf(1), 0, 0},
		{0.5, 0.1, 0.1},
	}
	for _, tt := range tests {
		if got := clampDelta(tt.dt, tt.maxDelta); got != tt.want {
			t.Errorf("clampDelta(%v, %v) = %v; want %v", tt.dt, tt.maxDelta, got, tt.want)
		}
	}
}
