package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/threephase/internal/render"
)

var ErrEmptyFrame = errors.New("export: empty frame")

const (
	arrowHead    = 15.0
	arrowMinLen  = 5.0
	dashLen      = 5.0
	dashGap      = 5.0
	neutralWidth = 4.0
	phasorWidth  = 3.0
)

// FrameToSVG writes the phasor diagram and waveform panel of f as SVG.
func FrameToSVG(w io.Writer, f render.Frame) error {
	if f.Viewport.Width <= 0 || f.Viewport.Height <= 0 || len(f.Traces[0]) < 2 {
		return ErrEmptyFrame
	}
	s := f.Viewport.Scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, f.Viewport.Width, f.Viewport.Height, f.Viewport.Width, f.Viewport.Height, render.Background.Hex())

	l := f.Layout
	c := l.DiagramCenter
	axis := render.Axis.Hex()
	line(&sb, render.Segment{From: render.Point{X: c.X - l.AxisLength, Y: c.Y}, To: render.Point{X: c.X + l.AxisLength, Y: c.Y}}, axis, 1)
	line(&sb, render.Segment{From: render.Point{X: c.X, Y: c.Y - l.AxisLength}, To: render.Point{X: c.X, Y: c.Y + l.AxisLength}}, axis, 1)

	white := render.TraceColors[render.N].Hex()
	for _, ref := range f.References {
		for _, d := range render.Dashes(ref.Segment, dashLen*s, dashGap*s) {
			line(&sb, d, white, max(1, s))
		}
		text(&sb, ref.LabelPos, ref.Label, white, 14*s, "middle")
	}

	for k, a := range f.Phasors {
		col := render.TraceColors[k].Hex()
		for _, d := range render.Dashes(f.Guides[k], dashLen*s, dashGap*s) {
			line(&sb, d, col, max(1, s))
		}
		arrow(&sb, a.Segment, col, phasorWidth*s, arrowHead*s)
	}
	if f.Neutral.Visible {
		arrow(&sb, f.Neutral.Segment, white, neutralWidth*s, arrowHead*s)
		text(&sb, render.Point{X: f.Neutral.To.X + 10*s, Y: f.Neutral.To.Y},
			fmt.Sprintf("iN: %.1f A", f.Neutral.Amps), white, float64(l.LabelFont), "start")
	}

	o := l.WaveOrigin
	line(&sb, render.Segment{From: o, To: render.Point{X: o.X + l.WaveWidth, Y: o.Y}}, axis, 1)
	line(&sb, render.Segment{From: render.Point{X: o.X, Y: o.Y - l.WaveHeight}, To: render.Point{X: o.X, Y: o.Y + l.WaveHeight}}, axis, 1)
	grid := render.Grid.Hex()
	for _, t := range f.Ticks {
		line(&sb, render.Segment{From: render.Point{X: o.X, Y: t.Y}, To: render.Point{X: o.X + l.WaveWidth, Y: t.Y}}, grid, 1)
		text(&sb, render.Point{X: max(10, o.X-45*s), Y: t.Y}, fmt.Sprintf("%dA", t.Amps), white, 14*s, "start")
	}

	// neutral first so the line traces stay on top
	polyline(&sb, f.Traces[render.N], white, max(3, 3*s))
	for i := render.L1; i <= render.L3; i++ {
		polyline(&sb, f.Traces[i], render.TraceColors[i].Hex(), max(2, 2*s))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func line(sb *strings.Builder, s render.Segment, color string, width float64) {
	fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, s.From.X, s.From.Y, s.To.X, s.To.Y, color, width)
}

func arrow(sb *strings.Builder, s render.Segment, color string, width, head float64) {
	line(sb, s, color, width)
	left, right, ok := render.ArrowHead(s, head, arrowMinLen)
	if !ok {
		return
	}
	fmt.Fprintf(sb, `<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>
`, s.To.X, s.To.Y, left.X, left.Y, right.X, right.Y, color)
}

func polyline(sb *strings.Builder, pts []render.Point, color string, width float64) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, color, width)
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	sb.WriteString("\"/>\n")
}

func text(sb *strings.Builder, p render.Point, s, color string, size float64, anchor string) {
	fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="%.0f" font-family="sans-serif" text-anchor="%s" dominant-baseline="middle">%s</text>
`, p.X, p.Y, color, size, anchor, s)
}
