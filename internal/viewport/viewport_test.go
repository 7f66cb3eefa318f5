package viewport

import (
	"math"
	"testing"

	"github.com/san-kum/threephase/internal/loads"
)

func TestRecompute(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		scale float64
	}{
		{"base", 1200, 800, 1.0},
		{"double", 2400, 1600, 2.0},
		{"wide", 2400, 800, 1.0},
		{"tall", 600, 1600, 0.5},
		{"zero", 0, 0, 1.0 / 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Recompute(tt.w, tt.h)
			if math.Abs(v.Scale-tt.scale) > 1e-12 {
				t.Errorf("scale = %g, want %g", v.Scale, tt.scale)
			}
			if math.Abs(v.PixelsPerAmp-BasePixelsPerAmp*tt.scale) > 1e-12 {
				t.Errorf("pixels per amp = %g", v.PixelsPerAmp)
			}
			if v.Scale <= 0 || v.PixelsPerAmp <= 0 {
				t.Error("scale factors must be positive")
			}
		})
	}
}

func TestLayoutBase(t *testing.T) {
	l := Default().Layout()

	if l.DiagramCenter != (Point{300, 600}) {
		t.Errorf("diagram center = %+v", l.DiagramCenter)
	}
	if l.AxisLength != 100 {
		t.Errorf("axis length = %g", l.AxisLength)
	}
	if l.WaveOrigin != (Point{680, 600}) {
		t.Errorf("wave origin = %+v", l.WaveOrigin)
	}
	if l.WaveWidth != 480 || l.WaveHeight != 150 || l.SampleStep != 2 {
		t.Errorf("wave geometry = %g x %g step %d", l.WaveWidth, l.WaveHeight, l.SampleStep)
	}
	want := loads.Rect{X: 620, Y: 100, W: 260, H: 10}
	if l.DeltaSliders[0] != want {
		t.Errorf("first delta slider = %+v, want %+v", l.DeltaSliders[0], want)
	}
	if l.YSliders[2].X != 920 || l.YSliders[2].Y != 260 {
		t.Errorf("last y slider = %+v", l.YSliders[2])
	}
	if l.StopButton != (loads.Rect{X: 540, Y: 740, W: 120, H: 40}) {
		t.Errorf("stop button = %+v", l.StopButton)
	}
}

func TestLayoutScalesTogether(t *testing.T) {
	small := Recompute(1200, 800).Layout()
	big := Recompute(2400, 1600).Layout()

	if big.AxisLength != 2*small.AxisLength {
		t.Errorf("axis length %g vs %g", big.AxisLength, small.AxisLength)
	}
	if big.WaveHeight != 2*small.WaveHeight {
		t.Errorf("wave height %g vs %g", big.WaveHeight, small.WaveHeight)
	}
	if big.DeltaSliders[0].W != 2*small.DeltaSliders[0].W {
		t.Errorf("slider width %g vs %g", big.DeltaSliders[0].W, small.DeltaSliders[0].W)
	}
	if big.SampleStep != 4 {
		t.Errorf("sample step = %d, want 4", big.SampleStep)
	}
}

func TestPlace(t *testing.T) {
	m := loads.NewModel()
	l := Default().Layout()
	l.Place(m)
	if m.Delta[1].Bounds != l.DeltaSliders[1] || m.Y[0].Bounds != l.YSliders[0] {
		t.Error("Place did not copy slider bounds")
	}
}
