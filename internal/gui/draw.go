package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/threephase/internal/loads"
	"github.com/san-kum/threephase/internal/render"
)

const statusTTL = 3 * time.Second

func color(c render.RGB) rl.Color { return rl.NewColor(c.R, c.G, c.B, 255) }

func vec(p render.Point) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func rect(r loads.Rect) rl.Rectangle {
	return rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H))
}

func text(s string, x, y float64, size int, c render.RGB) {
	rl.DrawText(s, int32(x), int32(y), int32(size), color(c))
}

func (a *App) Draw() {
	f := a.Frame
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(color(render.Background))

	w, h := float32(f.Viewport.Width), float32(f.Viewport.Height)
	div := color(render.Divider)
	rl.DrawLineEx(rl.NewVector2(w/2, 0), rl.NewVector2(w/2, h), 2, div)
	rl.DrawLineEx(rl.NewVector2(0, h/2), rl.NewVector2(w, h/2), 2, div)

	a.drawCircuit(f)
	a.drawControls(f)
	a.drawPhasors(f)
	a.drawWaves(f)

	if a.status != "" && time.Since(a.statusAt) < statusTTL {
		text(a.status, 10, float64(h)-20, 14, render.Muted)
	}
}

func (a *App) drawCircuit(f render.Frame) {
	s, l := f.Viewport.Scale, f.Layout
	text(fmt.Sprintf("Circuit diagram (Ueff = %.0f V)", a.Session.Voltage), 20*s, 20*s, l.TitleFont, render.Muted)
	if !a.hasImage {
		text("image missing", 100*s, 100*s, l.TitleFont, render.Warning)
		return
	}
	dst, ok := FitImage(int(a.image.Width), int(a.image.Height), l.ImageArea,
		float64(f.Viewport.Width/2), float64(f.Viewport.Height/2), 20*s)
	if !ok {
		return
	}
	src := rl.NewRectangle(0, 0, float32(a.image.Width), float32(a.image.Height))
	rl.DrawTexturePro(a.image, src, rect(dst), rl.NewVector2(0, 0), 0, rl.White)
}

func (a *App) drawControls(f render.Frame) {
	s, l := f.Viewport.Scale, f.Layout
	text("Adjust load", float64(f.Viewport.Width/2)+20*s, 20*s, l.TitleFont, render.Muted)
	head := render.RGB{R: 180, G: 180, B: 180}
	text("Line voltage (Delta)", l.ColumnTitle[0].X, l.ColumnTitle[0].Y, l.LabelFont, head)
	text("Phase voltage (Y)", l.ColumnTitle[1].X, l.ColumnTitle[1].Y, l.LabelFont, head)

	m := a.Session.Loads
	for k := 0; k < 3; k++ {
		drawSlider(m.Delta[k], render.DeltaColors[k], s, l.TitleFont)
		drawSlider(m.Y[k], render.TraceColors[k], s, l.TitleFont)
	}
	drawButton(l.ResetButton, "Reset (0 W)", s, l.TitleFont)
	drawButton(l.StopButton, StopLabel(a.Session.Clock.Paused()), s, l.TitleFont)
}

func drawSlider(sl *loads.Slider, c render.RGB, s float64, font int) {
	b := sl.Bounds
	rl.DrawRectangleRounded(rect(b), 0.5, 6, color(render.Track))
	fill := b
	fill.W = b.W * sl.Ratio()
	if fill.W > 0 {
		rl.DrawRectangleRounded(rect(fill), 0.5, 6, color(c))
	}
	rl.DrawCircle(int32(knobX(sl)), int32(b.CenterY()), px(s, knobRadius), color(render.Knob))

	label := fmt.Sprintf("%s: %.0f W", sl.Label, sl.Value)
	text(label, b.X, b.Y-float64(font)-labelMargin*s, font, c)
}

func drawButton(b loads.Rect, label string, s float64, font int) {
	m := rl.GetMousePosition()
	bg := render.Button
	if b.Contains(float64(m.X), float64(m.Y)) {
		bg = render.ButtonHot
	}
	r := rect(b)
	rl.DrawRectangleRounded(r, 0.25, 6, color(bg))
	rl.DrawRectangleLinesEx(r, px(s, 2), color(render.Muted))
	tw := float64(rl.MeasureText(label, int32(font)))
	text(label, b.X+(b.W-tw)/2, b.CenterY()-float64(font)/2, font, render.Text)
}

func (a *App) drawPhasors(f render.Frame) {
	s, l := f.Viewport.Scale, f.Layout
	text("Phasor diagram", 20*s, float64(f.Viewport.Height/2)+20*s, l.TitleFont, render.Muted)

	c, ax := l.DiagramCenter, l.AxisLength
	axis := color(render.Axis)
	rl.DrawLineV(vec(render.Point{X: c.X - ax, Y: c.Y}), vec(render.Point{X: c.X + ax, Y: c.Y}), axis)
	rl.DrawLineV(vec(render.Point{X: c.X, Y: c.Y - ax}), vec(render.Point{X: c.X, Y: c.Y + ax}), axis)

	white := render.TraceColors[render.N]
	for _, ref := range f.References {
		dashed(ref.Segment, refDash*s, px(s, 1), white)
		tw := float64(rl.MeasureText(ref.Label, int32(l.LabelFont)))
		text(ref.Label, ref.LabelPos.X-tw/2, ref.LabelPos.Y-float64(l.LabelFont)/2, l.LabelFont, white)
	}

	if f.Neutral.Visible {
		arrow(f.Neutral.Segment, px(s, neutralWidth), arrowHead*s, arrowMinLen*s, white)
		text(fmt.Sprintf("iN: %.1f A", f.Neutral.Amps), f.Neutral.To.X+neutralLabelX, f.Neutral.To.Y, l.TitleFont, white)
	}
	for k, p := range f.Phasors {
		dashed(f.Guides[k], guideDash*s, px(s, 1), render.TraceColors[k])
		arrow(p.Segment, px(s, phasorWidth), arrowHead*s, arrowMinLen*s, render.TraceColors[k])
	}
}

func (a *App) drawWaves(f render.Frame) {
	s, l := f.Viewport.Scale, f.Layout
	o := l.WaveOrigin
	text("Instantaneous values", o.X, float64(f.Viewport.Height/2)+20*s, l.TitleFont, render.Muted)

	axis := color(render.Axis)
	rl.DrawLineV(vec(o), vec(render.Point{X: o.X + l.WaveWidth, Y: o.Y}), axis)
	rl.DrawLineV(vec(render.Point{X: o.X, Y: o.Y - l.WaveHeight}), vec(render.Point{X: o.X, Y: o.Y + l.WaveHeight}), axis)

	for _, t := range f.Ticks {
		rl.DrawLineV(vec(render.Point{X: o.X, Y: t.Y}), vec(render.Point{X: o.X + l.WaveWidth, Y: t.Y}), color(render.Grid))
		text(fmt.Sprintf("%dA", t.Amps), max(10, o.X-tickLabelGap*s), t.Y-8*s, l.LabelFont, render.Text)
	}

	polyline(f.Traces[render.N], max(3, float32(3*s)), render.TraceColors[render.N])
	for i := render.L1; i <= render.L3; i++ {
		polyline(f.Traces[i], max(2, float32(2*s)), render.TraceColors[i])
	}

	for i, p := range f.Currents.All() {
		label := fmt.Sprintf("i%s %.2f A", render.TraceNames[i], p.Magnitude)
		text(label, o.X+float64(i)*110*s, o.Y+l.WaveHeight+8*s, l.LabelFont, render.TraceColors[i])
	}
}

func arrow(seg render.Segment, width float32, head, minLen float64, c render.RGB) {
	col := color(c)
	rl.DrawLineEx(vec(seg.From), vec(seg.To), width, col)
	left, right, ok := render.ArrowHead(seg, head, minLen)
	if !ok {
		return
	}
	p1, p2, p3 := ccw(seg.To, left, right)
	rl.DrawTriangle(vec(p1), vec(p2), vec(p3), col)
}

func dashed(seg render.Segment, dash float64, width float32, c render.RGB) {
	col := color(c)
	for _, d := range render.Dashes(seg, dash, dash) {
		rl.DrawLineEx(vec(d.From), vec(d.To), width, col)
	}
}

func polyline(pts []render.Point, width float32, c render.RGB) {
	col := color(c)
	for i := 1; i < len(pts); i++ {
		rl.DrawLineEx(vec(pts[i-1]), vec(pts[i]), width, col)
	}
}
