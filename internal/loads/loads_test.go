package loads

import (
	"math"
	"testing"
)

func TestSliderSet(t *testing.T) {
	tests := []struct {
		name string
		max  float64
		in   float64
		want float64
	}{
		{"exact step", MaxY, 120, 120},
		{"round down", MaxY, 124, 120},
		{"round up", MaxY, 125, 130},
		{"negative", MaxY, -50, 0},
		{"above max", MaxY, 2500, 2000},
		{"delta max", MaxDelta, 2999, 3000},
		{"nan", MaxY, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlider("s", "s", Y, tt.max)
			s.Set(tt.in)
			if s.Value != tt.want {
				t.Errorf("Set(%g) = %g, want %g", tt.in, s.Value, tt.want)
			}
		})
	}
}

func TestSliderDrag(t *testing.T) {
	s := NewSlider("p1", "P1", Y, MaxY)
	s.Bounds = Rect{X: 100, Y: 50, W: 200, H: 10}

	tests := []struct {
		x    float64
		want float64
	}{
		{100, 0},
		{200, 1000},
		{300, 2000},
		{50, 0},
		{400, 2000},
		{101, 10},
	}

	for _, tt := range tests {
		s.Drag(tt.x)
		if s.Value != tt.want {
			t.Errorf("Drag(%g) = %g, want %g", tt.x, s.Value, tt.want)
		}
	}
}

func TestSliderPressMoveRelease(t *testing.T) {
	s := NewSlider("p12", "P12", Delta, MaxDelta)
	s.Bounds = Rect{X: 0, Y: 100, W: 300, H: 10}

	if s.Press(150, 200) {
		t.Fatal("press far below the track should not grab")
	}
	if s.Press(400, 105) {
		t.Fatal("press right of the track should not grab")
	}
	if !s.Press(150, 120) {
		t.Fatal("press within grab margin should grab")
	}
	if s.Value != 1500 {
		t.Errorf("press value = %g, want 1500", s.Value)
	}

	s.Move(300)
	if s.Value != 3000 {
		t.Errorf("move value = %g, want 3000", s.Value)
	}

	s.Release()
	s.Move(0)
	if s.Value != 3000 {
		t.Errorf("move after release changed value to %g", s.Value)
	}
}

func TestModelDefaults(t *testing.T) {
	m := NewModel()
	if len(m.Sliders()) != 6 {
		t.Fatalf("expected 6 sliders, got %d", len(m.Sliders()))
	}
	for _, s := range m.Delta {
		if s.Max != MaxDelta || s.Topology != Delta {
			t.Errorf("%s: bad delta slider %+v", s.ID, s)
		}
	}
	for _, s := range m.Y {
		if s.Max != MaxY || s.Topology != Y {
			t.Errorf("%s: bad y slider %+v", s.ID, s)
		}
	}
}

func TestModelApplyReset(t *testing.T) {
	m := NewModel()
	m.Apply([3]float64{1004, -5, 9000}, [3]float64{15, 3000, 42})

	if got := m.YPowers(); got != [3]float64{1000, 0, 2000} {
		t.Errorf("YPowers = %v", got)
	}
	if got := m.DeltaPowers(); got != [3]float64{20, 3000, 40} {
		t.Errorf("DeltaPowers = %v", got)
	}
	if m.TotalPower() != 6060 {
		t.Errorf("TotalPower = %g", m.TotalPower())
	}

	m.Reset()
	if m.TotalPower() != 0 {
		t.Errorf("after reset TotalPower = %g", m.TotalPower())
	}
}

func TestModelNudge(t *testing.T) {
	m := NewModel()
	m.Nudge(3, 5)
	if m.Y[0].Value != 50 {
		t.Errorf("nudge up = %g, want 50", m.Y[0].Value)
	}
	m.Nudge(3, -10)
	if m.Y[0].Value != 0 {
		t.Errorf("nudge below zero = %g, want 0", m.Y[0].Value)
	}
	m.Nudge(99, 1)
	if m.Get("p12") == nil || m.Get("nope") != nil {
		t.Error("Get lookup mismatch")
	}
}
