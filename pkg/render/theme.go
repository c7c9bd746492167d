package render

import "image/color"

type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
)

func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Palette holds every color the viewer draws with.
type Palette struct {
	Background color.RGBA
	Boid       color.RGBA
	// Avoiding colors boids pushed back by a soft wall during the last frame.
	Avoiding color.RGBA
	Selected color.RGBA
	Octree   color.RGBA
	Boundary color.RGBA
}

var palettes = map[Theme]Palette{
	ThemeDark: {
		Background: color.RGBA{R: 10, G: 10, B: 30, A: 255},
		Boid:       color.RGBA{R: 100, G: 200, B: 255, A: 255},
		Avoiding:   color.RGBA{R: 255, G: 60, B: 60, A: 255},
		Selected:   color.RGBA{R: 255, G: 220, B: 0, A: 255},
		Octree:     color.RGBA{R: 50, G: 255, B: 50, A: 60},
		Boundary:   color.RGBA{R: 200, G: 200, B: 200, A: 120},
	},
	ThemeLight: {
		Background: color.RGBA{R: 235, G: 235, B: 240, A: 255},
		Boid:       color.RGBA{R: 20, G: 40, B: 90, A: 255},
		Avoiding:   color.RGBA{R: 220, G: 20, B: 20, A: 255},
		Selected:   color.RGBA{R: 200, G: 120, B: 0, A: 255},
		Octree:     color.RGBA{R: 0, G: 140, B: 0, A: 70},
		Boundary:   color.RGBA{R: 60, G: 60, B: 60, A: 140},
	},
}

// PaletteFor returns the palette of theme t, dark for unknown values.
func PaletteFor(t Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeDark]
}

// BoidColor picks the color of one boid. Selection wins over wall avoidance.
func (p Palette) BoidColor(avoidingWalls, selected bool) color.RGBA {
	switch {
	case selected:
		return p.Selected
	case avoidingWalls:
		return p.Avoiding
	default:
		return p.Boid
	}
}
