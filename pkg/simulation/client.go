package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/behavior"
)

// FlockClient sends messages to a FlockActor. Every failed delivery is logged
// at Warn and returned.
type FlockClient struct {
	ctx    context.Context
	pid    *actor.PID
	logger *slog.Logger
}

func NewFlockClient(ctx context.Context, pid *actor.PID, logger *slog.Logger) *FlockClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlockClient{ctx: ctx, pid: pid, logger: logger}
}

func (c *FlockClient) PID() *actor.PID { return c.pid }

// Tick asks the actor to advance the flock by dt.
func (c *FlockClient) Tick(dt time.Duration) error {
	return c.send("tick", durationpb.New(dt))
}

// SetForces replaces every force weight.
func (c *FlockClient) SetForces(f behavior.Forces) error {
	msg, err := ForcesToProto(f)
	if err != nil {
		return fmt.Errorf("failed to encode forces: %w", err)
	}
	return c.send("forces", msg)
}

// Update sends force weights and view options, see FlockActor for the keys.
func (c *FlockClient) Update(fields map[string]any) error {
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to encode flock update: %w", err)
	}
	return c.send("update", msg)
}

func (c *FlockClient) send(kind string, msg proto.Message) error {
	if err := actor.Tell(c.ctx, c.pid, msg); err != nil {
		c.logger.Warn("flock message not delivered", slog.String("kind", kind), slog.Any("error", err))
		return err
	}
	return nil
}

// LatestSnapshot drains ch without blocking and returns the newest snapshot,
// or current when nothing is pending.
func LatestSnapshot(ch <-chan *Snapshot, current *Snapshot) *Snapshot {
	for {
		select {
		case s := <-ch:
			current = s
		default:
			return current
		}
	}
}
