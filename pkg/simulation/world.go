package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
)

// Snapshot is the frame state pushed to the renderer after every tick.
type Snapshot struct {
	Frame uint64
	Poses []Pose
	// Octree holds the node boxes when the overlay is enabled.
	Octree   []geometry.Box
	Selected *BoidInfo
	Stats    FrameStats
}

// FlockActor hosts a Flock inside a goakt actor system. Messages:
//   - *durationpb.Duration advances the flock by that delta and pushes a Snapshot
//   - *structpb.Struct updates force weights ("separation", "alignment", "cohesion",
//     "wallAvoidance", "freeWill") and view options ("showOctree", "selected")
//   - *emptypb.Empty is answered with the FrameStats as a *structpb.Struct
type FlockActor struct {
	cfg   Config
	opts  []Option
	flock *Flock

	// Communication with UI
	snapshotCh chan<- *Snapshot

	showOctree bool
	selected   int

	// --- Benchmark Stats ---
	ticks       int
	dropped     int
	lastLogTime time.Time
}

// NewFlockActor creates the actor. The flock itself is built in PreStart so a
// bad configuration fails the spawn. snapshotCh may be nil for headless use.
func NewFlockActor(cfg Config, snapshotCh chan<- *Snapshot, opts ...Option) *FlockActor {
	return &FlockActor{
		cfg:         cfg,
		opts:        opts,
		snapshotCh:  snapshotCh,
		selected:    -1,
		lastLogTime: time.Now(),
	}
}

func (w *FlockActor) PreStart(ctx *actor.Context) error {
	f, err := New(w.cfg, w.opts...)
	if err != nil {
		return err
	}
	w.flock = f
	ctx.ActorSystem().Logger().Infof("Flock of %d boids is ready", f.Len())
	return nil
}

func (w *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("Flock actor started")
		w.pushSnapshot()

	case *durationpb.Duration:
		if err := msg.CheckValid(); err != nil {
			ctx.Logger().Warnf("ignoring invalid tick: %v", err)
			return
		}
		w.flock.Advance(msg.AsDuration().Seconds())
		w.ticks++
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	case *structpb.Struct:
		w.applyUpdate(ctx, msg)

	case *emptypb.Empty:
		stats, err := w.flock.Stats().ToProto()
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(stats)

	default:
		ctx.Unhandled()
	}
}

func (w *FlockActor) applyUpdate(ctx *actor.ReceiveContext, msg *structpb.Struct) {
	fields := msg.GetFields()
	if err := w.flock.SetForces(forcesFromProto(msg, w.flock.Forces())); err != nil {
		ctx.Logger().Warnf("rejected force update: %v", err)
	}
	if v, ok := fields["showOctree"]; ok {
		w.showOctree = v.GetBoolValue()
	}
	if v, ok := fields["selected"]; ok {
		w.selected = int(v.GetNumberValue())
	}
}

func (w *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		idx := w.flock.IndexStats()
		ctx.Logger().Infof("TICK RATE: %d/sec (dropped snapshots: %d) | Boids: %d | Octree nodes: %d depth: %d",
			w.ticks, w.dropped, w.flock.Len(), idx.Nodes, idx.Depth)
		w.ticks = 0
		w.dropped = 0
		w.lastLogTime = time.Now()
	}
}

func (w *FlockActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot():
	default:
		// UI busy, skip frame
		w.dropped++
	}
}

func (w *FlockActor) buildSnapshot() *Snapshot {
	s := &Snapshot{
		Frame: w.flock.Frame(),
		Poses: w.flock.Poses(make([]Pose, 0, w.flock.Len())),
		Stats: w.flock.Stats(),
	}
	if w.showOctree {
		s.Octree = w.flock.IndexBounds()
	}
	if info, ok := w.flock.Inspect(w.selected); ok {
		s.Selected = &info
	}
	return s
}

func (w *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("Flock actor is shutdown...")
	return nil
}
