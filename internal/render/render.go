package render

import (
	"math"

	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/viewport"
)

type Point = viewport.Point

const (
	// Horizontal phase advance per waveform pixel, in radians.
	WaveOffsetPerPixel = 0.05

	refLabelGap = 20.0
	neutralMin  = 2.0
)

// Ticks are the ampere marks on the waveform axis.
var Ticks = []int{-15, -10, -5, 0, 5, 10, 15}

// Trace indices.
const (
	L1 = iota
	L2
	L3
	N
)

var TraceNames = [4]string{"L1", "L2", "L3", "N"}

type Segment struct {
	From, To Point
}

type Arrow struct {
	Segment
	Amps    float64
	Visible bool
}

type Reference struct {
	Segment
	Label    string
	LabelPos Point
}

type Tick struct {
	Amps int
	Y    float64
}

type Frame struct {
	Viewport viewport.Viewport
	Layout   viewport.Layout
	Phase    float64
	Currents phasor.LineCurrentSet

	References [3]Reference
	Phasors    [3]Arrow
	Neutral    Arrow
	Guides     [3]Segment

	Traces [4][]Point
	Ticks  []Tick
}

// Render projects set at the given clock phase into vp's pixel space.
func Render(set phasor.LineCurrentSet, phase float64, vp viewport.Viewport) Frame {
	l := vp.Layout()
	f := Frame{
		Viewport: vp,
		Layout:   l,
		Phase:    phase,
		Currents: set,
	}

	c := l.DiagramCenter
	for k := 0; k < 3; k++ {
		theta := phase - float64(k)*2*math.Pi/3
		end := project(c, l.AxisLength, theta)
		f.References[k] = Reference{
			Segment:  Segment{From: c, To: end},
			Label:    "e" + string(rune('1'+k)),
			LabelPos: project(end, refLabelGap*vp.Scale, theta),
		}
	}

	for k, p := range set.Lines {
		end := project(c, p.Magnitude*vp.PixelsPerAmp, phase+p.Angle)
		f.Phasors[k] = Arrow{Segment: Segment{From: c, To: end}, Amps: p.Magnitude, Visible: true}
		f.Guides[k] = Segment{From: end, To: Point{X: l.WaveOrigin.X, Y: end.Y}}
	}

	n := set.Neutral
	nPx := n.Magnitude * vp.PixelsPerAmp
	f.Neutral = Arrow{
		Segment: Segment{From: c, To: project(c, nPx, phase+n.Angle)},
		Amps:    n.Magnitude,
		Visible: nPx > neutralMin*vp.Scale,
	}

	f.Traces = Waveforms(set, phase, vp.PixelsPerAmp, l)

	for _, amp := range Ticks {
		y := l.WaveOrigin.Y - float64(amp)*vp.PixelsPerAmp
		if y >= l.WaveOrigin.Y-l.WaveHeight && y <= l.WaveOrigin.Y+l.WaveHeight {
			f.Ticks = append(f.Ticks, Tick{Amps: amp, Y: y})
		}
	}
	return f
}

// Waveforms samples the instantaneous value of every current across the
// waveform width. Index 3 is the neutral.
func Waveforms(set phasor.LineCurrentSet, phase, pxPerAmp float64, l viewport.Layout) [4][]Point {
	var traces [4][]Point
	step := l.SampleStep
	if step < 1 {
		step = 1
	}
	n := 0
	if l.WaveWidth > 0 {
		n = (int(l.WaveWidth) + step - 1) / step
	}
	all := set.All()
	for i := range traces {
		traces[i] = make([]Point, 0, n)
	}
	for x := 0; x < int(l.WaveWidth); x += step {
		theta := phase + float64(x)*WaveOffsetPerPixel
		for i, p := range all {
			y := p.Instant(theta) * pxPerAmp
			traces[i] = append(traces[i], Point{X: l.WaveOrigin.X + float64(x), Y: l.WaveOrigin.Y - y})
		}
	}
	return traces
}

// Amps converts a pixel length back to amperes at the frame's scale.
func (f Frame) Amps(px float64) float64 {
	if f.Viewport.PixelsPerAmp == 0 {
		return 0
	}
	return px / f.Viewport.PixelsPerAmp
}

// project walks length along theta from origin; screen y grows downwards.
func project(origin Point, length, theta float64) Point {
	return Point{
		X: origin.X + length*math.Cos(theta),
		Y: origin.Y - length*math.Sin(theta),
	}
}
