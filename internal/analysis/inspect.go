package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/render"
)

type Report struct {
	Name      string
	Expected  phasor.Phasor
	Measured  phasor.Phasor
	RMS       float64
	THD       float64
	PeakError float64
}

// Inspection holds per-trace reports and the largest sample-wise deviation
// between the neutral trace and the sum of the line traces.
type Inspection struct {
	Samples     int
	Traces      [4]Report
	KCLResidual float64
}

func Inspect(set phasor.LineCurrentSet, n int) (Inspection, error) {
	if n < MinSamples {
		return Inspection{}, fmt.Errorf("%w: %d < %d", ErrTooFewSamples, n, MinSamples)
	}
	out := Inspection{Samples: n}
	var sampled [4][]float64
	for i, p := range set.All() {
		data := Sample(p, n)
		sampled[i] = data
		m := Fundamental(data)
		out.Traces[i] = Report{
			Name:      render.TraceNames[i],
			Expected:  p,
			Measured:  m,
			RMS:       RMS(data),
			THD:       THD(data),
			PeakError: math.Abs(m.Magnitude - p.Magnitude),
		}
	}
	for j := 0; j < n; j++ {
		sum := sampled[0][j] + sampled[1][j] + sampled[2][j]
		out.KCLResidual = math.Max(out.KCLResidual, math.Abs(sum-sampled[3][j]))
	}
	return out, nil
}

// OK reports whether every fundamental matches its phasor within tol amperes.
func (in Inspection) OK(tol float64) bool {
	for _, r := range in.Traces {
		if r.PeakError > tol {
			return false
		}
	}
	return in.KCLResidual <= tol
}
