package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

// FrameSample holds the measurements of a single frame.
type FrameSample struct {
	Frame         uint64
	SimTime       float64
	DeltaTime     float64
	StepDuration  time.Duration
	MeanSpeed     float64
	MeanNeighbors float64
	AvoidingWalls int
	Agents        int
	IndexNodes    int
	IndexDepth    int
}

// SampleFrom extracts a sample from the flock frame summary.
func SampleFrom(s simulation.FrameStats) FrameSample {
	return FrameSample{
		Frame:         s.Frame,
		SimTime:       s.SimTime,
		DeltaTime:     s.Delta,
		StepDuration:  s.StepDuration,
		MeanSpeed:     s.MeanSpeed,
		MeanNeighbors: s.MeanNeighbors,
		AvoidingWalls: s.AvoidingWalls,
		Agents:        s.Agents,
		IndexNodes:    s.Index.Nodes,
		IndexDepth:    s.Index.Depth,
	}
}

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStart uint64  `csv:"window_start"`
	WindowEnd   uint64  `csv:"window_end"`
	SimTimeSec  float64 `csv:"sim_time"`
	Agents      int     `csv:"agents"`

	// Step phase wall time in milliseconds
	StepMean float64 `csv:"step_ms_mean"`
	StepStd  float64 `csv:"step_ms_std"`
	StepP50  float64 `csv:"step_ms_p50"`
	StepP90  float64 `csv:"step_ms_p90"`
	StepMax  float64 `csv:"step_ms_max"`

	// Flock shape
	SpeedMean         float64 `csv:"speed_mean"`
	SpeedStd          float64 `csv:"speed_std"`
	NeighborsMean     float64 `csv:"neighbors_mean"`
	AvoidingWallsMean float64 `csv:"avoiding_walls_mean"`

	// Octree at window end
	IndexNodes int `csv:"index_nodes"`
	IndexDepth int `csv:"index_depth"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStart),
		slog.Uint64("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Float64("step_ms_mean", s.StepMean),
		slog.Float64("step_ms_p90", s.StepP90),
		slog.Float64("step_ms_max", s.StepMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("neighbors_mean", s.NeighborsMean),
		slog.Float64("avoiding_walls_mean", s.AvoidingWallsMean),
		slog.Int("index_nodes", s.IndexNodes),
		slog.Int("index_depth", s.IndexDepth),
	)
}

// Collector accumulates frame samples and emits one WindowStats per full window.
type Collector struct {
	window  int
	samples []FrameSample

	// reused between windows
	step, speed, neighbors, walls []float64
}

// NewCollector creates a collector aggregating every window frames.
// A window below 1 falls back to 60, one second at 60 fps.
func NewCollector(window int) *Collector {
	if window < 1 {
		window = 60
	}
	return &Collector{
		window:  window,
		samples: make([]FrameSample, 0, window),
	}
}

// Window returns the number of frames per aggregated row.
func (c *Collector) Window() int {
	return c.window
}

// Add records a frame. When the window is complete it returns its statistics
// and starts a new window.
func (c *Collector) Add(s FrameSample) (WindowStats, bool) {
	c.samples = append(c.samples, s)
	if len(c.samples) < c.window {
		return WindowStats{}, false
	}
	stats := c.aggregate()
	c.samples = c.samples[:0]
	return stats, true
}

// Flush aggregates a partial window, if any.
func (c *Collector) Flush() (WindowStats, bool) {
	if len(c.samples) == 0 {
		return WindowStats{}, false
	}
	stats := c.aggregate()
	c.samples = c.samples[:0]
	return stats, true
}

func (c *Collector) aggregate() WindowStats {
	c.step = c.step[:0]
	c.speed = c.speed[:0]
	c.neighbors = c.neighbors[:0]
	c.walls = c.walls[:0]
	for _, s := range c.samples {
		c.step = append(c.step, float64(s.StepDuration)/float64(time.Millisecond))
		c.speed = append(c.speed, s.MeanSpeed)
		c.neighbors = append(c.neighbors, s.MeanNeighbors)
		c.walls = append(c.walls, float64(s.AvoidingWalls))
	}

	first, last := c.samples[0], c.samples[len(c.samples)-1]
	stats := WindowStats{
		WindowStart:       first.Frame,
		WindowEnd:         last.Frame,
		SimTimeSec:        last.SimTime,
		Agents:            last.Agents,
		StepMean:          stat.Mean(c.step, nil),
		StepStd:           stdDev(c.step),
		StepMax:           floats.Max(c.step),
		SpeedMean:         stat.Mean(c.speed, nil),
		SpeedStd:          stdDev(c.speed),
		NeighborsMean:     stat.Mean(c.neighbors, nil),
		AvoidingWallsMean: stat.Mean(c.walls, nil),
		IndexNodes:        last.IndexNodes,
		IndexDepth:        last.IndexDepth,
	}

	sort.Float64s(c.step)
	stats.StepP50 = stat.Quantile(0.5, stat.Empirical, c.step, nil)
	stats.StepP90 = stat.Quantile(0.9, stat.Empirical, c.step, nil)
	return stats
}

// stdDev is the sample standard deviation, 0 below two values.
func stdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}
