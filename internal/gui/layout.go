package gui

import (
	"math"

	"github.com/san-kum/threephase/internal/loads"
	"github.com/san-kum/threephase/internal/render"
)

const (
	arrowHead     = 15.0
	arrowMinLen   = 5.0
	refDash       = 5.0
	guideDash     = 4.0
	phasorWidth   = 3.0
	neutralWidth  = 4.0
	knobRadius    = 8.0
	labelMargin   = 5.0
	tickLabelGap  = 45.0
	neutralLabelX = 10.0
)

// StopLabel is the caption of the stop/start button.
func StopLabel(paused bool) string {
	if paused {
		return "Start"
	}
	return "Stop (t=0)"
}

// FitImage scales an image of iw x ih to fit area, keeping its aspect ratio.
// The result is centred horizontally in the left half of the window and
// vertically in the top half, offset by top.
func FitImage(iw, ih int, area loads.Rect, halfW, halfH, top float64) (loads.Rect, bool) {
	if iw <= 0 || ih <= 0 || area.W <= 0 || area.H <= 0 {
		return loads.Rect{}, false
	}
	ratio := math.Min(area.W/float64(iw), area.H/float64(ih))
	w := math.Floor(float64(iw) * ratio)
	h := math.Floor(float64(ih) * ratio)
	return loads.Rect{
		X: math.Floor((halfW - w) / 2),
		Y: math.Floor((halfH-h)/2) + top,
		W: w,
		H: h,
	}, true
}

// ccw orders a triangle counter-clockwise in screen space, which is what
// raylib expects for filled triangles.
func ccw(a, b, c render.Point) (render.Point, render.Point, render.Point) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > 0 {
		return a, c, b
	}
	return a, b, c
}

// knobX is the knob centre for a slider value.
func knobX(s *loads.Slider) float64 {
	return s.Bounds.X + math.Floor(s.Bounds.W*s.Ratio())
}

// px scales a base pixel size, never below one pixel.
func px(scale, base float64) float32 {
	return float32(math.Max(1, math.Floor(base*scale)))
}
