package simulation

import "math"

// Clock turns the elapsed time reported by the host loop into per-frame deltas.
// All values are seconds.
type Clock struct {
	previous float64
	current  float64
	delta    float64
	frames   uint64
	maxDelta float64
}

// NewClock returns a clock starting at zero. maxDelta > 0 caps every delta,
// so a stalled host does not teleport the flock.
func NewClock(maxDelta float64) *Clock {
	return &Clock{maxDelta: maxDelta}
}

// Tick records a new elapsed time and returns the delta since the previous one.
// Time going backwards yields a zero delta.
func (c *Clock) Tick(elapsed float64) float64 {
	c.previous = c.current
	c.current = elapsed
	c.delta = clampDelta(c.current-c.previous, c.maxDelta)
	c.frames++
	return c.delta
}

func (c *Clock) Delta() float64   { return c.delta }
func (c *Clock) Elapsed() float64 { return c.current }
func (c *Clock) Frames() uint64   { return c.frames }

// clampDelta maps a raw delta to [0, maxDelta], NaN and Inf to 0. maxDelta <= 0 means no cap.
func clampDelta(dt, maxDelta float64) float64 {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return 0
	}
	if maxDelta > 0 && dt > maxDelta {
		return maxDelta
	}
	return dt
}
