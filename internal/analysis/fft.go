package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/threephase/internal/phasor"
)

// MinSamples is the smallest period length Inspect accepts.
const MinSamples = 8

var ErrTooFewSamples = errors.New("analysis: too few samples")

// Sample returns n evenly spaced values of p over one period.
func Sample(p phasor.Phasor, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = p.Instant(2 * math.Pi * float64(i) / float64(n))
	}
	return out
}

// Spectrum returns the single-sided amplitude of each bin up to n/2.
func Spectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	bins := fft.FFTReal(data)
	amp := make([]float64, n/2+1)
	for k := range amp {
		a := cmplx.Abs(bins[k]) / float64(n)
		if k != 0 && 2*k != n {
			a *= 2
		}
		amp[k] = a
	}
	return amp
}

// Fundamental recovers the sine phasor from bin 1 of one sampled period.
func Fundamental(data []float64) phasor.Phasor {
	n := len(data)
	if n < 2 {
		return phasor.Phasor{}
	}
	x1 := fft.FFTReal(data)[1]
	mag := 2 * cmplx.Abs(x1) / float64(n)
	if mag < 1e-12 {
		return phasor.Phasor{}
	}
	// bin 1 of sin(θ+φ) sits at φ - π/2
	return phasor.Phasor{Magnitude: mag, Angle: wrap(cmplx.Phase(x1) + math.Pi/2)}
}

func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

// THD is the ratio of harmonic content above bin 1 to the fundamental.
func THD(data []float64) float64 {
	amp := Spectrum(data)
	if len(amp) < 2 || amp[1] < 1e-12 {
		return 0
	}
	var h float64
	for _, a := range amp[2:] {
		h += a * a
	}
	return math.Sqrt(h) / amp[1]
}

func wrap(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
