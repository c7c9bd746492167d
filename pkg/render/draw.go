package render

import (
	"image/color"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids3d/pkg/simulation"
)

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.White)
}

// boidLength is the world space length of a boid glyph.
const boidLength = 1.2

// Renderer draws poses and debug boxes through a Camera.
type Renderer struct {
	Camera  *Camera
	Palette Palette

	projected []projectedPose
	vertices  []ebiten.Vertex
	indices   []uint16
}

type projectedPose struct {
	pose      simulation.Pose
	tip, tail Projection
}

func NewRenderer(cam *Camera, theme Theme) *Renderer {
	return &Renderer{Camera: cam, Palette: PaletteFor(theme)}
}

// SetTheme recolors the scene; it has no effect on the simulation.
func (r *Renderer) SetTheme(t Theme) {
	r.Palette = PaletteFor(t)
}

// project keeps the visible poses sorted far to near.
func (r *Renderer) project(poses []simulation.Pose, width, height int) []projectedPose {
	r.projected = r.projected[:0]
	for _, p := range poses {
		tip, ok1 := r.Camera.Project(p.Position.Add(p.Facing.Mul(boidLength)), width, height)
		tail, ok2 := r.Camera.Project(p.Position.Sub(p.Facing.Mul(boidLength/2)), width, height)
		if !ok1 || !ok2 {
			continue
		}
		r.projected = append(r.projected, projectedPose{pose: p, tip: tip, tail: tail})
	}
	slices.SortFunc(r.projected, func(a, b projectedPose) int {
		switch {
		case a.tail.Depth > b.tail.Depth:
			return -1
		case a.tail.Depth < b.tail.Depth:
			return 1
		}
		return 0
	})
	return r.projected
}

// DrawFlock draws every pose as a triangle pointing along its facing.
// selected is the ID to highlight, -1 for none.
func (r *Renderer) DrawFlock(screen *ebiten.Image, poses []simulation.Pose, selected int) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	for _, pp := range r.project(poses, w, h) {
		clr := r.Palette.BoidColor(pp.pose.AvoidingWalls, pp.pose.ID == selected)
		// Base half width shrinks with depth like the rest of the glyph.
		half := 0.35 * boidLength * float64(h) / pp.tail.Depth
		dx, dy := pp.tip.X-pp.tail.X, pp.tip.Y-pp.tail.Y
		l := math.Hypot(dx, dy)
		if l < 1 {
			// Heading straight at the camera, draw a dot.
			vector.FillCircle(screen, float32(pp.tail.X), float32(pp.tail.Y), float32(math.Max(half/2, 1)), clr, true)
			continue
		}
		nx, ny := -dy/l*half/4, dx/l*half/4
		r.appendTriangle(clr,
			pp.tip.X, pp.tip.Y,
			pp.tail.X+nx, pp.tail.Y+ny,
			pp.tail.X-nx, pp.tail.Y-ny,
		)
		if len(r.vertices) > math.MaxUint16-3 {
			r.flush(screen)
		}
	}
	r.flush(screen)
}

func (r *Renderer) appendTriangle(clr color.RGBA, x0, y0, x1, y1, x2, y2 float64) {
	cr, cg, cb, ca := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	base := uint16(len(r.vertices))
	for _, p := range [3][2]float64{{x0, y0}, {x1, y1}, {x2, y2}} {
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX: float32(p[0]), DstY: float32(p[1]),
			SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	r.indices = append(r.indices, base, base+1, base+2)
}

func (r *Renderer) flush(screen *ebiten.Image) {
	if len(r.indices) == 0 {
		return
	}
	screen.DrawTriangles(r.vertices, r.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

// boxEdges lists the 12 edges of a box as pairs of corner indices,
// corner bit 0 is X, bit 1 is Y, bit 2 is Z (same as geometry.Box.Octant).
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func corner(b geometry.Box, i int) geometry.Vector3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// DrawBox draws the wireframe of b. Edges crossing the near plane are skipped.
func (r *Renderer) DrawBox(screen *ebiten.Image, b geometry.Box, clr color.Color) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	var pts [8]Projection
	var visible [8]bool
	for i := range pts {
		pts[i], visible[i] = r.Camera.Project(corner(b, i), w, h)
	}
	for _, e := range boxEdges {
		if !visible[e[0]] || !visible[e[1]] {
			continue
		}
		a, c := pts[e[0]], pts[e[1]]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(c.X), float32(c.Y), 1, clr, true)
	}
}

// DrawBoxes draws the octree partition.
func (r *Renderer) DrawBoxes(screen *ebiten.Image, boxes []geometry.Box) {
	for _, b := range boxes {
		r.DrawBox(screen, b, r.Palette.Octree)
	}
}

// Pick returns the ID of the boid drawn closest to the cursor, within radius pixels.
func (r *Renderer) Pick(poses []simulation.Pose, mx, my float64, width, height int, radius float64) (int, bool) {
	best, bestD := -1, radius*radius
	for _, p := range poses {
		proj, ok := r.Camera.Project(p.Position, width, height)
		if !ok {
			continue
		}
		dx, dy := proj.X-mx, proj.Y-my
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = p.ID, d
		}
	}
	return best, best >= 0
}
