package simulation

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/octree"
)

// Flock owns the population and the octree over it and advances both one frame at a time.
// It is not safe for concurrent use; FlockActor serializes access when several
// goroutines need it.
type Flock struct {
	cfg    Config
	params behavior.Params
	boids  []*behavior.Boid
	index  *octree.Tree[*behavior.Boid]
	clock  *Clock
	logger *slog.Logger

	// snapshot[i] is the state of boid i when the current frame started.
	snapshot []behavior.Neighbor
	scratch  []scratch

	frame     uint64
	simTime   float64
	lastDelta float64
	lastStep  time.Duration
}

// scratch holds the per-worker query buffers, reused across frames.
type scratch struct {
	candidates []*behavior.Boid
	neighbors  []behavior.Neighbor
}

type Option func(*Flock)

// WithLogger sets the logger used for lifecycle and per-frame debug messages.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flock) {
		if l != nil {
			f.logger = l
		}
	}
}

// New validates cfg and spawns cfg.Flock.Population boids at random inside
// the initial spread. The same seed always produces the same flock.
func New(cfg Config, opts ...Option) (*Flock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Flock{
		cfg:    cfg,
		params: cfg.Params(),
		clock:  NewClock(cfg.Clock.MaxDelta),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}

	bounds := geometry.NewCube(geometry.Zero, cfg.World.Boundary)
	index, err := octree.New[*behavior.Boid](bounds, cfg.Index.Capacity, octree.WithMaxDepth(cfg.Index.MaxDepth))
	if err != nil {
		return nil, fmt.Errorf("failed to create spatial index: %w", err)
	}
	f.index = index

	seed := cfg.Flock.Seed
	master := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	f.boids = make([]*behavior.Boid, cfg.Flock.Population)
	for i := range f.boids {
		rng := rand.New(rand.NewPCG(master.Uint64(), master.Uint64()))
		b := behavior.NewRandom(i, cfg.Flock.InitialSpread, cfg.Flock.InitialSpeed, f.params, rng)
		if !f.index.Insert(b) {
			return nil, fmt.Errorf("%w: boid %d spawned outside the index at %s", ErrInvalidConfig, i, b.Pos)
		}
		f.boids[i] = b
	}
	f.snapshot = make([]behavior.Neighbor, len(f.boids))

	workers := f.workers()
	f.scratch = make([]scratch, workers)

	f.logger.Info("flock created",
		slog.Int("population", len(f.boids)),
		slog.Uint64("seed", seed),
		slog.String("strategy", string(cfg.Index.Strategy)),
		slog.Int("capacity", cfg.Index.Capacity),
		slog.Int("workers", workers),
		slog.Float64("boundary", cfg.World.Boundary),
	)
	return f, nil
}

func (f *Flock) workers() int {
	w := f.cfg.Parallel.Workers
	if w < 1 {
		w = 1
	}
	if n := len(f.boids); n > 0 && w > n {
		w = n
	}
	return w
}

// AdvanceTo moves the simulation to the host elapsed time, in seconds, and
// returns the delta that was applied.
func (f *Flock) AdvanceTo(elapsed float64) float64 {
	dt := f.clock.Tick(elapsed)
	f.Advance(dt)
	return dt
}

// Advance runs one frame of dt seconds: index maintenance, snapshot,
// then query and step for every boid.
func (f *Flock) Advance(dt float64) {
	start := time.Now()
	dt = clampDelta(dt, f.cfg.Clock.MaxDelta)

	f.maintainIndex()
	for i, b := range f.boids {
		f.snapshot[i] = b.State()
	}

	if len(f.scratch) > 1 {
		f.stepParallel(dt)
	} else {
		f.stepRange(f.boids, dt, &f.scratch[0])
	}

	f.frame++
	f.simTime += dt
	f.lastDelta = dt
	f.lastStep = time.Since(start)
	f.logger.Debug("frame advanced",
		slog.Uint64("frame", f.frame),
		slog.Float64("dt", dt),
		slog.Duration("took", f.lastStep),
	)
}

func (f *Flock) maintainIndex() {
	if f.cfg.Index.Strategy == StrategyRebuild {
		f.index.Reset()
		for _, b := range f.boids {
			if !f.index.Insert(b) {
				f.logger.Warn("boid left the index bounds", slog.Int("id", b.ID), slog.String("pos", b.Pos.String()))
			}
		}
		return
	}
	for _, b := range f.boids {
		if !f.index.Update(b) {
			f.logger.Warn("boid left the index bounds", slog.Int("id", b.ID), slog.String("pos", b.Pos.String()))
		}
	}
}

// stepRange queries and steps every boid of the slice. The index is only read,
// neighbor state comes from the frame snapshot and each boid writes only itself,
// so disjoint ranges can run concurrently.
func (f *Flock) stepRange(boids []*behavior.Boid, dt float64, sc *scratch) {
	for _, b := range boids {
		self := f.snapshot[b.ID]
		sc.candidates = f.index.Query(geometry.Sphere{Center: self.Pos, Radius: b.Params.ViewRange}, sc.candidates[:0])
		sc.neighbors = sc.neighbors[:0]
		for _, c := range sc.candidates {
			sc.neighbors = append(sc.neighbors, f.snapshot[c.ID])
		}
		b.Step(dt, sc.neighbors)
	}
	clear(sc.candidates)
}

func (f *Flock) stepParallel(dt float64) {
	workers := len(f.scratch)
	chunk := (len(f.boids) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(f.boids) {
			break
		}
		hi := min(lo+chunk, len(f.boids))
		sc := &f.scratch[w]
		g.Go(func() error {
			f.stepRange(f.boids[lo:hi], dt, sc)
			return nil
		})
	}
	// Workers never fail, Wait only joins them.
	_ = g.Wait()
}

// SetForces changes the force weights of every boid from the next frame on.
func (f *Flock) SetForces(forces behavior.Forces) error {
	if err := validateForces(forces); err != nil {
		return err
	}
	f.params.Forces = forces
	f.cfg.Boid.Forces = forces
	for _, b := range f.boids {
		b.Params.Forces = forces
	}
	return nil
}

// Forces returns the current force weights.
func (f *Flock) Forces() behavior.Forces {
	return f.params.Forces
}

// Len returns the population size.
func (f *Flock) Len() int {
	return len(f.boids)
}

func (f *Flock) Config() Config          { return f.cfg }
func (f *Flock) Frame() uint64           { return f.frame }
func (f *Flock) SimTime() float64        { return f.simTime }
func (f *Flock) Clock() *Clock           { return f.clock }
func (f *Flock) LastStep() time.Duration { return f.lastStep }

// Poses appends the pose of every boid to dst, in ID order.
func (f *Flock) Poses(dst []Pose) []Pose {
	for _, b := range f.boids {
		dst = append(dst, poseOf(b))
	}
	return dst
}

// Inspect returns the debug readout of boid id.
func (f *Flock) Inspect(id int) (BoidInfo, bool) {
	if id < 0 || id >= len(f.boids) {
		return BoidInfo{}, false
	}
	return infoOf(f.boids[id]), true
}

// IndexStats describes the current shape of the octree.
func (f *Flock) IndexStats() IndexStats {
	return IndexStats{
		Items: f.index.Len(),
		Nodes: f.index.NodeCount(),
		Depth: f.index.Depth(),
	}
}

// IndexBounds returns the box of every octree node, for debug overlays.
func (f *Flock) IndexBounds() []geometry.Box {
	return f.index.Bounds()
}

// Stats summarizes the last frame.
func (f *Flock) Stats() FrameStats {
	s := FrameStats{
		Frame:        f.frame,
		SimTime:      f.simTime,
		Delta:        f.lastDelta,
		StepDuration: f.lastStep,
		Agents:       len(f.boids),
		Index:        f.IndexStats(),
	}
	if len(f.boids) == 0 {
		return s
	}
	var speed, neighbors float64
	for _, b := range f.boids {
		speed += b.Speed()
		neighbors += float64(b.NeighborCount)
		if b.AvoidingWalls {
			s.AvoidingWalls++
		}
	}
	n := float64(len(f.boids))
	s.MeanSpeed = speed / n
	s.MeanNeighbors = neighbors / n
	return s
}
