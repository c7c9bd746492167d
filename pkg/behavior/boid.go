package behavior

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/octree"
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
// Pos, Vel and Facing are exported so the renderer can read them.
type Boid struct {
	ID  int
	Pos geometry.Vector3
	Vel geometry.Vector3
	Acc geometry.Vector3
	// Facing is the unit heading toward Pos+Vel, for the renderer only.
	Facing geometry.Vector3

	// AvoidingWalls is true when the last step pushed the boid back from a soft wall.
	AvoidingWalls bool
	// NeighborCount is how many neighbors influenced the last step.
	NeighborCount int

	Params Params

	rng  *rand.Rand
	node octree.NodeID
}

// Forces holds the weight of every steering contribution.
type Forces struct {
	Separation    float64 `json:"separation" yaml:"separation"`
	Alignment     float64 `json:"alignment" yaml:"alignment"`
	Cohesion      float64 `json:"cohesion" yaml:"cohesion"`
	WallAvoidance float64 `json:"wallAvoidance" yaml:"wallAvoidance"`
	FreeWill      float64 `json:"freeWill" yaml:"freeWill"`
}

// Params controls the physics constants of one boid.
type Params struct {
	ViewRange    float64 // Alignment and cohesion reach
	ProtectRange float64 // Personal space radius, separation only

	MinSpeed float64
	MaxSpeed float64

	// WallLimit is the soft wall: past it a spring pushes the boid back.
	WallLimit float64
	// Boundary is the hard wall: positions are clamped to [-Boundary, Boundary].
	Boundary float64

	Forces Forces
}

// DefaultParams returns the tuning the flock was designed with.
func DefaultParams() Params {
	return Params{
		ViewRange:    15,
		ProtectRange: 5,
		MinSpeed:     0.7,
		MaxSpeed:     20,
		WallLimit:    15,
		Boundary:     40,
		Forces: Forces{
			Separation:    80,
			Alignment:     35,
			Cohesion:      20,
			WallAvoidance: 10,
			FreeWill:      50,
		},
	}
}

var ErrInvalidParams = errors.New("invalid boid parameters")

// Validate checks the invariants Step relies on.
func (p Params) Validate() error {
	var errs []error
	if p.ProtectRange <= 0 {
		errs = append(errs, fmt.Errorf("%w: protect range %v must be > 0", ErrInvalidParams, p.ProtectRange))
	}
	if p.ProtectRange >= p.ViewRange {
		errs = append(errs, fmt.Errorf("%w: protect range %v must be < view range %v", ErrInvalidParams, p.ProtectRange, p.ViewRange))
	}
	if p.MinSpeed < 0 {
		errs = append(errs, fmt.Errorf("%w: min speed %v must be >= 0", ErrInvalidParams, p.MinSpeed))
	}
	if p.MinSpeed > p.MaxSpeed {
		errs = append(errs, fmt.Errorf("%w: min speed %v must be <= max speed %v", ErrInvalidParams, p.MinSpeed, p.MaxSpeed))
	}
	if p.Boundary <= 0 {
		errs = append(errs, fmt.Errorf("%w: boundary %v must be > 0", ErrInvalidParams, p.Boundary))
	}
	if p.WallLimit <= 0 || p.WallLimit > p.Boundary {
		errs = append(errs, fmt.Errorf("%w: wall limit %v must be in (0, boundary %v]", ErrInvalidParams, p.WallLimit, p.Boundary))
	}
	return errors.Join(errs...)
}

// New creates a boid at the given position and velocity. rng drives the free
// will perturbation and must not be shared with boids stepped concurrently.
// A nil rng gets a generator seeded from id.
func New(id int, pos, vel geometry.Vector3, params Params, rng *rand.Rand) *Boid {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(id), 0))
	}
	b := &Boid{
		ID:     id,
		Pos:    pos,
		Vel:    vel,
		Params: params,
		rng:    rng,
		node:   octree.NoNode,
	}
	b.Facing = vel.Normalize()
	if b.Facing.IsZero() {
		b.Facing = geometry.Vector3{Z: 1}
	}
	return b
}

// NewRandom creates a boid uniformly spread in the cube of half extent spread,
// with every velocity component in [-speed, speed].
func NewRandom(id int, spread, speed float64, params Params, rng *rand.Rand) *Boid {
	pos := randomIn(rng, spread)
	vel := randomIn(rng, speed)
	return New(id, pos, vel, params, rng)
}

func randomIn(rng *rand.Rand, halfExtent float64) geometry.Vector3 {
	return geometry.Vector3{
		X: (rng.Float64()*2 - 1) * halfExtent,
		Y: (rng.Float64()*2 - 1) * halfExtent,
		Z: (rng.Float64()*2 - 1) * halfExtent,
	}
}

// octree.Item implementation. The node handle is owned by the spatial index.

func (b *Boid) Position() geometry.Vector3 { return b.Pos }
func (b *Boid) Node() octree.NodeID        { return b.node }
func (b *Boid) SetNode(id octree.NodeID)   { b.node = id }

// Speed returns the current velocity magnitude.
func (b *Boid) Speed() float64 {
	return b.Vel.Len()
}

// State returns the kinematic view other boids see during a frame.
func (b *Boid) State() Neighbor {
	return Neighbor{ID: b.ID, Pos: b.Pos, Vel: b.Vel}
}
