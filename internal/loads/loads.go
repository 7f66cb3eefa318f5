// Package loads holds the six adjustable load power settings.
package loads

import "math"

type Topology int

const (
	Y Topology = iota
	Delta
)

func (t Topology) String() string {
	if t == Delta {
		return "delta"
	}
	return "y"
}

const (
	Step     = 10.0
	MaxY     = 2000.0
	MaxDelta = 3000.0

	// grabMargin is how far above or below the track a press still grabs it.
	grabMargin = 20.0
)

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Right() float64   { return r.X + r.W }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Slider is one load power setting in watts.
type Slider struct {
	ID       string
	Label    string
	Topology Topology
	Min, Max float64
	Step     float64
	Value    float64
	Bounds   Rect

	dragging bool
}

func NewSlider(id, label string, topo Topology, max float64) *Slider {
	return &Slider{ID: id, Label: label, Topology: topo, Min: 0, Max: max, Step: Step}
}

// Set clamps v into range and snaps it to the nearest step.
func (s *Slider) Set(v float64) {
	if math.IsNaN(v) {
		v = s.Min
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step > 0 {
		v = math.Round(v/s.Step) * s.Step
	}
	s.Value = math.Max(s.Min, math.Min(s.Max, v))
}

// Ratio is the fill fraction of the track, 0..1.
func (s *Slider) Ratio() float64 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Press starts a drag if the pointer is over the track or within the grab
// margin above or below it.
func (s *Slider) Press(x, y float64) bool {
	b := s.Bounds
	if x < b.X || x > b.Right() {
		return false
	}
	if !b.Contains(x, y) && math.Abs(y-b.CenterY()) >= grabMargin {
		return false
	}
	s.dragging = true
	s.Drag(x)
	return true
}

func (s *Slider) Move(x float64) {
	if s.dragging {
		s.Drag(x)
	}
}

func (s *Slider) Release()       { s.dragging = false }
func (s *Slider) Dragging() bool { return s.dragging }

// Drag maps a pointer x position on the track to a value.
func (s *Slider) Drag(x float64) {
	b := s.Bounds
	if b.W <= 0 {
		return
	}
	x = math.Max(b.X, math.Min(b.Right(), x))
	ratio := (x - b.X) / b.W
	s.Set(s.Min + ratio*(s.Max-s.Min))
}
