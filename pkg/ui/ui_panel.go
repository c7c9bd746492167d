package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/render"
)

// UIWidget is implemented by every control the panel can hold.
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	height() float64
	setY(y float64)
	label() string
}

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
)

// UIPanel stacks widgets under section headers in a scrollable column.
type UIPanel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	Widgets       []UIWidget
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA
	SectionBG   color.RGBA

	sections []PanelSection
}

// PanelSection groups the widgets in [StartIndex, EndIndex).
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
}

func NewUIPanel(x, y, width, height float64, title string) *UIPanel {
	p := &UIPanel{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Title:  title,
	}
	p.SetTheme(render.ThemeDark)
	return p
}

// SetTheme switches the panel colors to match the scene.
func (p *UIPanel) SetTheme(t render.Theme) {
	if t == render.ThemeLight {
		p.BGColor = color.RGBA{R: 250, G: 250, B: 250, A: 220}
		p.BorderColor = color.RGBA{R: 120, G: 120, B: 130, A: 255}
		p.SectionBG = color.RGBA{R: 150, G: 150, B: 165, A: 255}
		return
	}
	p.BGColor = color.RGBA{R: 40, G: 40, B: 45, A: 230}
	p.BorderColor = color.RGBA{R: 100, G: 100, B: 110, A: 255}
	p.SectionBG = color.RGBA{R: 60, G: 60, B: 70, A: 255}
}

func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(s)
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(c)
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 22, label, onClick)
	p.add(b)
	return b
}

func (p *UIPanel) add(w UIWidget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	p.Widgets = append(p.Widgets, w)
	p.EndSection()
	p.layout()
}

// layout places every widget according to the sections and the scroll offset.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, w := range p.Widgets[s.StartIndex:s.EndIndex] {
			w.setY(y + labelHeight)
			y += w.height()
		}
	}
}

// ContentHeight is the height of everything in the panel, scrolled or not.
func (p *UIPanel) ContentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.Widgets {
		h += w.height()
	}
	return h
}

// Contains reports whether the point is over the panel, so callers can
// ignore clicks meant for the widgets.
func (p *UIPanel) Contains(x, y float64) bool {
	return inside(x, y, p.X, p.Y, p.Width, p.Height)
}

// Scroll moves the content by dy pixels, kept within the content height.
func (p *UIPanel) Scroll(dy float64) {
	maxScroll := max(p.ContentHeight()-p.Height+40, 0)
	p.ScrollOffset = max(0, min(maxScroll, p.ScrollOffset+dy))
	p.layout()
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		mx, my := ebiten.CursorPosition()
		if p.Contains(float64(mx), float64(my)) {
			p.Scroll(-dy * 20)
		}
	}
	for _, w := range p.Widgets {
		w.Update()
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if p.visible(y) {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				p.SectionBG, true)
			ebitenutil.DebugPrintAt(screen, s.Title, int(p.X+10), int(y+3))
		}
		y += sectionHeight
		for _, w := range p.Widgets[s.StartIndex:s.EndIndex] {
			if p.visible(y) {
				if l := w.label(); l != "" {
					ebitenutil.DebugPrintAt(screen, l, int(p.X+10), int(y))
				}
				w.Draw(screen)
			}
			y += w.height()
		}
	}
}

func (p *UIPanel) visible(y float64) bool {
	return y >= p.Y+titleHeight-sectionHeight && y <= p.Y+p.Height-20
}

func inside(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
