// Package viewport maps window dimensions to a uniform scale and derives all
// pixel geometry of the layout from it.
package viewport

import (
	"math"

	"github.com/san-kum/threephase/internal/loads"
)

const (
	BaseWidth        = 1200
	BaseHeight       = 800
	BasePixelsPerAmp = 10.0
)

// Viewport is an immutable scale snapshot. A new value replaces the old one
// on resize; nothing mutates a Viewport in place.
type Viewport struct {
	Width, Height int
	Scale         float64
	PixelsPerAmp  float64
}

func Default() Viewport {
	return Recompute(BaseWidth, BaseHeight)
}

func Recompute(w, h int) Viewport {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	scale := math.Min(float64(w)/BaseWidth, float64(h)/BaseHeight)
	return Viewport{
		Width:        w,
		Height:       h,
		Scale:        scale,
		PixelsPerAmp: BasePixelsPerAmp * scale,
	}
}

// Px scales a base-layout length.
func (v Viewport) Px(base float64) float64 {
	return float64(int(base * v.Scale))
}

type Point struct {
	X, Y float64
}

type Layout struct {
	DeltaSliders [3]loads.Rect
	YSliders     [3]loads.Rect
	ResetButton  loads.Rect
	StopButton   loads.Rect

	// Circuit image target area.
	ImageArea loads.Rect

	DiagramCenter Point
	AxisLength    float64

	WaveOrigin  Point
	WaveWidth   float64
	WaveHeight  float64
	SampleStep  int
	TitleFont   int
	LabelFont   int
	ColumnTitle [2]Point
}

func (v Viewport) Layout() Layout {
	h := float64(v.Height)
	half := float64(v.Width / 2)

	var l Layout

	areaX := half + v.Px(20)
	areaW := half - v.Px(40)
	colW := float64(int((areaW - v.Px(40)) / 2))
	sliderH := v.Px(10)
	startY := v.Px(100)
	gap := v.Px(80)

	col1 := areaX
	col2 := areaX + colW + v.Px(40)
	for i := 0; i < 3; i++ {
		y := startY + float64(i)*gap
		l.DeltaSliders[i] = loads.Rect{X: col1, Y: y, W: colW, H: sliderH}
		l.YSliders[i] = loads.Rect{X: col2, Y: y, W: colW, H: sliderH}
	}
	l.ColumnTitle = [2]Point{{col1, v.Px(60)}, {col2, v.Px(60)}}

	btnW, btnH := v.Px(120), v.Px(40)
	l.ResetButton = loads.Rect{X: col2, Y: startY + 3*gap, W: btnW, H: btnH}
	l.StopButton = loads.Rect{X: half - float64(int(btnW/2)), Y: h - v.Px(60), W: btnW, H: btnH}

	l.ImageArea = loads.Rect{
		X: 0, Y: v.Px(20),
		W: half - v.Px(50),
		H: float64(v.Height/2) - v.Px(80),
	}

	l.DiagramCenter = Point{X: float64(v.Width / 4), Y: float64(int(h * 0.75))}
	l.AxisLength = v.Px(100)

	l.WaveOrigin = Point{X: half + v.Px(80), Y: float64(int(h * 0.75))}
	l.WaveWidth = half - v.Px(120)
	if l.WaveWidth < 0 {
		l.WaveWidth = 0
	}
	l.WaveHeight = v.Px(150)
	l.SampleStep = int(math.Max(2, v.Px(2)))

	l.TitleFont = int(math.Max(12, v.Px(18)))
	l.LabelFont = int(math.Max(10, v.Px(20)))
	return l
}

// Place writes the slider rectangles of the layout into the model.
func (l Layout) Place(m *loads.Model) {
	for i := 0; i < 3; i++ {
		m.Delta[i].Bounds = l.DeltaSliders[i]
		m.Y[i].Bounds = l.YSliders[i]
	}
}
