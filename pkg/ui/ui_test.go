package ui

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/render"
)

func TestSlider_Handle(t *testing.T) {
	tests := []struct {
		name    string
		mx      float64
		pressed bool
		want    float64
		changed bool
	}{
		{"released", 60, false, 50, false},
		{"left edge", 10, true, 0, true},
		{"middle", 60, true, 50, false},
		{"right edge", 110, true, 100, true},
		{"outside", 200, true, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlider(10, 20, 100, "Cohesion", 0, 100, 50)
			s.handle(tt.mx, 25, tt.pressed)
			if s.Value != tt.want {
				t.Errorf("Value = %v; want %v", s.Value, tt.want)
			}
			if s.Changed() != tt.changed {
				t.Errorf("Changed() = %v; want %v", !tt.changed, tt.changed)
			}
			if s.Changed() {
				t.Error("Changed() must reset after being read")
			}
		})
	}
}

func TestNewSlider_ClampsInitialValue(t *testing.T) {
	s := NewSlider(0, 0, 100, "Free will", 0, 10, 50)
	if s.Value != 10 || s.Ratio() != 1 {
		t.Errorf("Value = %v Ratio = %v; want 10 and 1", s.Value, s.Ratio())
	}
	flat := NewSlider(0, 0, 100, "flat", 3, 3, 3)
	if flat.Ratio() != 0 {
		t.Errorf("Ratio() of an empty range = %v; want 0", flat.Ratio())
	}
}

func TestCheckbox_TogglesOncePerPress(t *testing.T) {
	c := NewCheckbox(0, 0, "Show octree", false)
	for i := 0; i < 5; i++ {
		c.handle(8, 8, true)
	}
	if !c.Value || !c.Changed() {
		t.Fatalf("holding the button should toggle exactly once, Value = %v", c.Value)
	}
	c.handle(8, 8, false)
	c.handle(8, 8, true)
	if c.Value {
		t.Error("a second press should toggle back")
	}
	c.handle(100, 100, false)
	c.handle(100, 100, true)
	if c.Value {
		t.Error("a press outside the box must not toggle")
	}
}

func TestButton_ClicksOncePerPress(t *testing.T) {
	clicks := 0
	b := NewButton(0, 0, 80, 20, "Pause", func() { clicks++ })
	b.handle(10, 10, true)
	b.handle(10, 10, true)
	b.handle(10, 10, false)
	b.handle(10, 10, true)
	b.handle(500, 10, true)
	if clicks != 2 {
		t.Errorf("clicks = %d; want 2", clicks)
	}
}

func TestUIPanel_Layout(t *testing.T) {
	p := NewUIPanel(10, 10, 200, 150, "Flock")
	p.AddSection("Forces")
	s1 := p.AddSlider("Separation", 0, 200, 80)
	s2 := p.AddSlider("Alignment", 0, 200, 35)
	p.EndSection()
	p.AddSection("View")
	c := p.AddCheckbox("Light theme", false)
	p.EndSection()

	if !(s1.Y < s2.Y && s2.Y < c.Y) {
		t.Errorf("widgets not stacked: %v, %v, %v", s1.Y, s2.Y, c.Y)
	}
	if s2.Y-s1.Y != s1.height() {
		t.Errorf("gap between sliders = %v; want %v", s2.Y-s1.Y, s1.height())
	}
	want := titleHeight + 2*sectionHeight + s1.height() + s2.height() + c.height()
	if got := p.ContentHeight(); got != want {
		t.Errorf("ContentHeight() = %v; want %v", got, want)
	}

	before := s1.Y
	p.Scroll(30)
	if s1.Y != before-30 {
		t.Errorf("scrolling by 30 moved the slider to %v from %v", s1.Y, before)
	}
	p.Scroll(-1000)
	if p.ScrollOffset != 0 {
		t.Errorf("ScrollOffset = %v; want clamped to 0", p.ScrollOffset)
	}
	p.Scroll(1e6)
	if p.ScrollOffset != p.ContentHeight()-p.Height+40 {
		t.Errorf("ScrollOffset = %v; want clamped to the content", p.ScrollOffset)
	}
}

func TestUIPanel_ContainsAndTheme(t *testing.T) {
	p := NewUIPanel(10, 10, 200, 150, "Flock")
	if !p.Contains(20, 20) || p.Contains(300, 20) {
		t.Error("Contains() disagrees with the panel bounds")
	}
	dark := p.BGColor
	p.SetTheme(render.ThemeLight)
	if p.BGColor == dark {
		t.Error("SetTheme(light) kept the dark background")
	}
}

func TestUIPanel_WidgetWithoutSection(t *testing.T) {
	p := NewUIPanel(0, 0, 200, 400, "Flock")
	b := p.AddButton("Reset", nil)
	if len(p.sections) != 1 || b.Y == 0 {
		t.Errorf("a widget added before any section should still be laid out, got Y=%v", b.Y)
	}
}
