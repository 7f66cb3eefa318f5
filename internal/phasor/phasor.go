package phasor

import (
	"math"
	"math/cmplx"
)

// VoltageRMS is the phase-to-neutral reference voltage.
const VoltageRMS = 230.0

var Sqrt3 = math.Sqrt(3)

// Unit voltage references. Phase voltages are 120° apart starting at 0;
// line voltages lead their first phase by 30°.
var (
	PhaseAngles = [3]float64{0, -2 * math.Pi / 3, -4 * math.Pi / 3}
	LineAngles  = [3]float64{math.Pi / 6, -math.Pi / 2, -7 * math.Pi / 6}
)

type Phasor struct {
	Magnitude float64 `json:"magnitude"`
	Angle     float64 `json:"angle"`
}

func FromComplex(c complex128) Phasor {
	return Phasor{Magnitude: cmplx.Abs(c), Angle: cmplx.Phase(c)}
}

func (p Phasor) Complex() complex128 {
	return cmplx.Rect(p.Magnitude, p.Angle)
}

// Rotate returns p advanced by theta radians.
func (p Phasor) Rotate(theta float64) Phasor {
	return Phasor{Magnitude: p.Magnitude, Angle: p.Angle + theta}
}

// Instant is the instantaneous value magnitude·sin(theta + angle).
func (p Phasor) Instant(theta float64) float64 {
	return p.Magnitude * math.Sin(theta+p.Angle)
}

func (p Phasor) Degrees() float64 {
	return p.Angle * 180 / math.Pi
}

type LineCurrentSet struct {
	Lines   [3]Phasor `json:"line_currents"`
	Neutral Phasor    `json:"neutral_current"`
}

// All returns L1, L2, L3 and N in drawing order.
func (s LineCurrentSet) All() [4]Phasor {
	return [4]Phasor{s.Lines[0], s.Lines[1], s.Lines[2], s.Neutral}
}

// Compute solves the line terminals for the given load powers in watts.
// Each Delta branch k runs from line k to line k+1, so it adds to line k and
// subtracts from line k+1. Negative or NaN powers count as zero, and a
// non-positive vrms yields an all-zero set.
func Compute(y, delta [3]float64, vrms float64) LineCurrentSet {
	var set LineCurrentSet
	if !(vrms > 0) {
		return set
	}
	vLine := vrms * Sqrt3

	var iy, id [3]complex128
	for k := 0; k < 3; k++ {
		iy[k] = cmplx.Rect(clamp(y[k])/vrms, PhaseAngles[k])
		id[k] = cmplx.Rect(clamp(delta[k])/vLine, LineAngles[k])
	}

	var neutral complex128
	for k := 0; k < 3; k++ {
		prev := (k + 2) % 3
		il := iy[k] + id[k] - id[prev]
		set.Lines[k] = FromComplex(il)
		neutral += il
	}
	set.Neutral = FromComplex(neutral)
	return set
}

func clamp(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return p
}
