package behavior

import (
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
)

// Neighbor is the frame snapshot of another boid as seen by the one stepping.
type Neighbor struct {
	ID  int
	Pos geometry.Vector3
	Vel geometry.Vector3
}

// Steering holds the unit (or zero) direction of every flocking rule.
type Steering struct {
	Separation geometry.Vector3
	Alignment  geometry.Vector3
	Cohesion   geometry.Vector3

	Crowding int // neighbors inside the protect range
	Visible  int // neighbors in the [protect, view) band
}

// Steer classifies the candidate neighbors by exact squared distance and
// returns the three classic rules:
//   - separation: d < ProtectRange, average of (me - other)
//   - alignment: ProtectRange <= d < ViewRange, average velocity
//   - cohesion: same band, direction to the center of mass
//
// Candidates may be a superset of the real neighbors. The boid itself and any
// neighbor sharing its exact position are ignored.
func (b *Boid) Steer(neighbors []Neighbor) Steering {
	var (
		s                         Steering
		sepSum, velSum, centerSum geometry.Vector3
	)
	protectSq := b.Params.ProtectRange * b.Params.ProtectRange
	viewSq := b.Params.ViewRange * b.Params.ViewRange

	for _, other := range neighbors {
		if other.ID == b.ID {
			continue
		}
		diff := b.Pos.Sub(other.Pos)
		distSq := diff.LenSqr()
		if distSq == 0 {
			continue
		}

		switch {
		case distSq < protectSq:
			sepSum = sepSum.Add(diff)
			s.Crowding++
		case distSq < viewSq:
			velSum = velSum.Add(other.Vel)
			centerSum = centerSum.Add(other.Pos)
			s.Visible++
		}
	}

	if s.Crowding > 0 {
		s.Separation = sepSum.Div(float64(s.Crowding)).Normalize()
	}
	if s.Visible > 0 {
		n := float64(s.Visible)
		s.Alignment = velSum.Div(n).Normalize()
		s.Cohesion = centerSum.Div(n).Sub(b.Pos).Normalize()
	}
	return s
}

// Step advances the boid by dt seconds given the frame snapshot of its
// candidate neighbors. It only writes the boid's own fields.
func (b *Boid) Step(dt float64, neighbors []Neighbor) {
	if dt < 0 {
		dt = 0
	}
	steer := b.Steer(neighbors)
	b.NeighborCount = steer.Crowding + steer.Visible

	f := b.Params.Forces
	b.Acc = b.Acc.
		Add(steer.Separation.Mul(f.Separation)).
		Add(steer.Alignment.Mul(f.Alignment)).
		Add(steer.Cohesion.Mul(f.Cohesion)).
		Add(b.FreeWill())

	b.avoidWalls()
	b.clampToBoundary()
	b.integrate(dt)
	// Clamp again so the position never ends a step outside the boundary.
	b.clampToBoundary()
	b.faceFront()
}

// FreeWill returns a random direction scaled by the free will weight,
// the small noise that makes the flock look alive.
func (b *Boid) FreeWill() geometry.Vector3 {
	noise := geometry.Vector3{
		X: b.rng.Float64()*2 - 1,
		Y: b.rng.Float64()*2 - 1,
		Z: b.rng.Float64()*2 - 1,
	}
	return noise.Normalize().Mul(b.Params.Forces.FreeWill)
}

// avoidWalls adds a spring force on every axis past the soft wall.
func (b *Boid) avoidWalls() {
	wall := b.Params.WallLimit
	k := b.Params.Forces.WallAvoidance
	b.AvoidingWalls = false

	for axis := 0; axis < 3; axis++ {
		p := b.Pos.Component(axis)
		var push float64
		switch {
		case p <= -wall:
			push = k * (-wall - p)
		case p >= wall:
			push = k * (wall - p)
		default:
			continue
		}
		b.Acc = b.Acc.WithComponent(axis, b.Acc.Component(axis)+push)
		b.AvoidingWalls = true
	}
}

// clampToBoundary pins every axis to [-Boundary, Boundary].
func (b *Boid) clampToBoundary() {
	limit := b.Params.Boundary
	b.Pos = geometry.Vector3{
		X: geometry.Clamp(b.Pos.X, -limit, limit),
		Y: geometry.Clamp(b.Pos.Y, -limit, limit),
		Z: geometry.Clamp(b.Pos.Z, -limit, limit),
	}
}

func (b *Boid) integrate(dt float64) {
	// Drop a corrupted acceleration rather than poisoning the state with NaN.
	if !b.Acc.IsFinite() {
		b.Acc = geometry.Zero
	}
	b.Vel = b.Vel.Add(b.Acc.Mul(dt))
	b.Acc = geometry.Zero
	b.Vel = b.limitSpeed(b.Vel)
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

// limitSpeed rescales v into [MinSpeed, MaxSpeed]. A stalled boid restarts
// along its last heading.
func (b *Boid) limitSpeed(v geometry.Vector3) geometry.Vector3 {
	if !v.IsFinite() {
		v = geometry.Zero
	}
	if v.Len() < geometry.Epsilon {
		return b.Facing.Mul(b.Params.MinSpeed)
	}
	return v.ClampLen(b.Params.MinSpeed, b.Params.MaxSpeed)
}

func (b *Boid) faceFront() {
	if dir := b.LookAt().Sub(b.Pos).Normalize(); !dir.IsZero() {
		b.Facing = dir
	}
}

// LookAt is the point the boid is heading to, Pos+Vel.
func (b *Boid) LookAt() geometry.Vector3 {
	return b.Pos.Add(b.Vel)
}
