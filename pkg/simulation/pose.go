package simulation

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
)

// Pose is what a renderer needs to draw one boid.
type Pose struct {
	ID            int
	Position      geometry.Vector3
	Facing        geometry.Vector3
	AvoidingWalls bool
}

func poseOf(b *behavior.Boid) Pose {
	return Pose{
		ID:            b.ID,
		Position:      b.Pos,
		Facing:        b.Facing,
		AvoidingWalls: b.AvoidingWalls,
	}
}

// BoidInfo is the debug readout of a selected boid.
type BoidInfo struct {
	ID            int
	Position      geometry.Vector3
	Velocity      geometry.Vector3
	Speed         float64
	Neighbors     int
	AvoidingWalls bool
}

func infoOf(b *behavior.Boid) BoidInfo {
	return BoidInfo{
		ID:            b.ID,
		Position:      b.Pos,
		Velocity:      b.Vel,
		Speed:         b.Speed(),
		Neighbors:     b.NeighborCount,
		AvoidingWalls: b.AvoidingWalls,
	}
}

func (i BoidInfo) String() string {
	return fmt.Sprintf("boid %d pos %s speed %.2f neighbors %d", i.ID, i.Position, i.Speed, i.Neighbors)
}

type IndexStats struct {
	Items int
	Nodes int
	Depth int
}

// FrameStats summarizes the flock after a frame.
type FrameStats struct {
	Frame         uint64
	SimTime       float64
	Delta         float64
	StepDuration  time.Duration
	Agents        int
	MeanSpeed     float64
	MeanNeighbors float64
	AvoidingWalls int
	Index         IndexStats
}

// ToProto converts the stats into the protobuf envelope exchanged with FlockActor.
func (s FrameStats) ToProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"frame":         float64(s.Frame),
		"simTime":       s.SimTime,
		"delta":         s.Delta,
		"stepMicros":    float64(s.StepDuration.Microseconds()),
		"agents":        s.Agents,
		"meanSpeed":     s.MeanSpeed,
		"meanNeighbors": s.MeanNeighbors,
		"avoidingWalls": s.AvoidingWalls,
		"indexItems":    s.Index.Items,
		"indexNodes":    s.Index.Nodes,
		"indexDepth":    s.Index.Depth,
	})
}

// FrameStatsFromProto reads back what ToProto produced. Missing fields stay zero.
func FrameStatsFromProto(p *structpb.Struct) FrameStats {
	num := func(k string) float64 { return p.GetFields()[k].GetNumberValue() }
	return FrameStats{
		Frame:         uint64(num("frame")),
		SimTime:       num("simTime"),
		Delta:         num("delta"),
		StepDuration:  time.Duration(num("stepMicros")) * time.Microsecond,
		Agents:        int(num("agents")),
		MeanSpeed:     num("meanSpeed"),
		MeanNeighbors: num("meanNeighbors"),
		AvoidingWalls: int(num("avoidingWalls")),
		Index: IndexStats{
			Items: int(num("indexItems")),
			Nodes: int(num("indexNodes")),
			Depth: int(num("indexDepth")),
		},
	}
}

// forcesFromProto overlays the weights present in p on top of current.
func forcesFromProto(p *structpb.Struct, current behavior.Forces) behavior.Forces {
	fields := p.GetFields()
	set := func(k string, dst *float64) {
		if v, ok := fields[k]; ok {
			*dst = v.GetNumberValue()
		}
	}
	set("separation", &current.Separation)
	set("alignment", &current.Alignment)
	set("cohesion", &current.Cohesion)
	set("wallAvoidance", &current.WallAvoidance)
	set("freeWill", &current.FreeWill)
	return current
}

// ForcesToProto builds the weight update message understood by FlockActor.
func ForcesToProto(f behavior.Forces) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"separation":    f.Separation,
		"alignment":     f.Alignment,
		"cohesion":      f.Cohesion,
		"wallAvoidance": f.WallAvoidance,
		"freeWill":      f.FreeWill,
	})
}
