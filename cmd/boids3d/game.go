package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tochemey/goakt/v3/actor"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/render"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/ui"
)

const (
	panelWidth  = 260
	pickRadius  = 12
	orbitPerPix = 0.005
)

// Game is the ebiten front end. It owns no simulation state: every frame it
// tells the FlockActor to advance and draws the latest snapshot it received.
type Game struct {
	System     actor.ActorSystem
	flock      *simulation.FlockClient
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	logger     *slog.Logger

	cfg      simulation.Config
	clock    *simulation.Clock
	start    time.Time
	paused   bool
	theme    render.Theme
	selected int

	renderer *render.Renderer
	bounds   geometry.Box

	// UI Controls
	panel            *ui.UIPanel
	widgetSeparation *ui.Slider
	widgetAlignment  *ui.Slider
	widgetCohesion   *ui.Slider
	widgetWall       *ui.Slider
	widgetFreeWill   *ui.Slider
	widgetLight      *ui.Checkbox
	widgetOctree     *ui.Checkbox

	dragging           bool
	dragX, dragY       int
	width, height      int
	updateAvg, drawAvg float64 // rolling averages in ms
}

func NewGame(ctx context.Context, cfg simulation.Config, system actor.ActorSystem, logger *slog.Logger) (*Game, error) {
	snapshotCh := make(chan *simulation.Snapshot, 10) // Buffer to avoid blocking

	flockPID, err := system.Spawn(ctx, "flock", simulation.NewFlockActor(cfg, snapshotCh, simulation.WithLogger(logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}

	g := &Game{
		System:     system,
		flock:      simulation.NewFlockClient(ctx, flockPID, logger),
		snapshotCh: snapshotCh,
		lastState:  &simulation.Snapshot{},
		logger:     logger,
		cfg:        cfg,
		clock:      simulation.NewClock(cfg.Clock.MaxDelta),
		start:      time.Now(),
		selected:   -1,
		renderer:   render.NewRenderer(render.NewCamera(cfg.World.Boundary*3), render.ThemeDark),
		bounds:     geometry.NewCube(geometry.Zero, cfg.World.Boundary),
	}

	f := cfg.Boid.Forces
	g.panel = ui.NewUIPanel(10, 10, panelWidth, 460, "Flock")
	g.panel.AddSection("Forces")
	g.widgetSeparation = g.panel.AddSlider("Separation", 0, 200, f.Separation)
	g.widgetAlignment = g.panel.AddSlider("Alignment", 0, 100, f.Alignment)
	g.widgetCohesion = g.panel.AddSlider("Cohesion", 0, 100, f.Cohesion)
	g.widgetWall = g.panel.AddSlider("Wall avoidance", 0, 50, f.WallAvoidance)
	g.widgetFreeWill = g.panel.AddSlider("Free will", 0, 100, f.FreeWill)
	g.panel.EndSection()

	g.panel.AddSection("View")
	g.widgetLight = g.panel.AddCheckbox("Light theme", false)
	g.widgetOctree = g.panel.AddCheckbox("Show octree", false)
	g.panel.AddButton("Pause / resume", func() { g.paused = !g.paused })
	g.panel.AddButton("Reset forces", g.resetForces)
	g.panel.EndSection()

	return g, nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	g.handleCamera()
	g.sendUpdates()

	// Skip to the newest state so a backlog never delays the view.
	g.lastState = simulation.LatestSnapshot(g.snapshotCh, g.lastState)

	dt := g.clock.Tick(time.Since(g.start).Seconds())
	if g.paused {
		return nil
	}
	// A lost tick is logged by the client; the next frame catches up.
	_ = g.flock.Tick(time.Duration(dt * float64(time.Second)))
	return nil
}

// sendUpdates forwards widget changes to the flock actor.
func (g *Game) sendUpdates() {
	fields := map[string]any{}

	forcesChanged := false
	for _, s := range []*ui.Slider{g.widgetSeparation, g.widgetAlignment, g.widgetCohesion, g.widgetWall, g.widgetFreeWill} {
		if s.Changed() {
			forcesChanged = true
		}
	}
	if forcesChanged {
		fields["separation"] = g.widgetSeparation.Value
		fields["alignment"] = g.widgetAlignment.Value
		fields["cohesion"] = g.widgetCohesion.Value
		fields["wallAvoidance"] = g.widgetWall.Value
		fields["freeWill"] = g.widgetFreeWill.Value
	}
	if g.widgetOctree.Changed() {
		fields["showOctree"] = g.widgetOctree.Value
	}
	if g.widgetLight.Changed() {
		g.theme = render.ThemeDark
		if g.widgetLight.Value {
			g.theme = render.ThemeLight
		}
		g.renderer.SetTheme(g.theme)
		g.panel.SetTheme(g.theme)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		mx, my := ebiten.CursorPosition()
		id, ok := g.renderer.Pick(g.lastState.Poses, float64(mx), float64(my), g.width, g.height, pickRadius)
		if !ok {
			id = -1
		}
		g.selected = id
		fields["selected"] = id
	}
	if len(fields) == 0 {
		return
	}
	if err := g.flock.Update(fields); err != nil {
		g.logger.Error("flock update failed", slog.Any("error", err))
	}
}

func (g *Game) resetForces() {
	def := behavior.DefaultParams().Forces
	g.widgetSeparation.Value = def.Separation
	g.widgetAlignment.Value = def.Alignment
	g.widgetCohesion.Value = def.Cohesion
	g.widgetWall.Value = def.WallAvoidance
	g.widgetFreeWill.Value = def.FreeWill

	if err := g.flock.SetForces(def); err != nil {
		g.logger.Error("force reset failed", slog.Any("error", err))
	}
}

// handleCamera orbits with a left drag outside the panel, zooms with the wheel
// and the arrow keys.
func (g *Game) handleCamera() {
	cam := g.renderer.Camera
	mx, my := ebiten.CursorPosition()
	overPanel := g.panel.Contains(float64(mx), float64(my))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !overPanel {
		g.dragging = true
		g.dragX, g.dragY = mx, my
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		cam.Orbit(float64(mx-g.dragX)*orbitPerPix, float64(my-g.dragY)*orbitPerPix)
		g.dragX, g.dragY = mx, my
	}

	if _, dy := ebiten.Wheel(); dy != 0 && !overPanel {
		cam.Zoom(1 - dy*0.1)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		cam.Orbit(-0.02, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		cam.Orbit(0.02, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		cam.Zoom(0.98)
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		cam.Zoom(1.02)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(g.renderer.Palette.Background)
	g.renderer.DrawBox(screen, g.bounds, g.renderer.Palette.Boundary)
	if g.lastState.Octree != nil {
		g.renderer.DrawBoxes(screen, g.lastState.Octree)
	}
	g.renderer.DrawFlock(screen, g.lastState.Poses, g.selected)

	g.panel.Draw(screen)
	g.drawStats(screen)
}

func (g *Game) drawStats(screen *ebiten.Image) {
	s := g.lastState.Stats
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nFrame: %d\nBoids: %d\nStep:   %.2fms\nUpdate: %.2fms\nDraw:   %.2fms\nNodes: %d depth %d",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		s.Frame,
		s.Agents,
		float64(s.StepDuration.Microseconds())/1000.0,
		g.updateAvg,
		g.drawAvg,
		s.Index.Nodes, s.Index.Depth)
	if g.paused {
		msg += "\n\nPAUSED"
	}
	if sel := g.lastState.Selected; sel != nil {
		msg += fmt.Sprintf("\n\nSelected #%d\nspeed %.2f\nneighbors %d", sel.ID, sel.Speed, sel.Neighbors)
	}
	ebitenutil.DebugPrintAt(screen, msg, g.width-170, 10)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
