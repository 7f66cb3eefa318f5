package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/render"
)

// TracesToCSV writes the on-screen waveform samples of f, converted back to
// amperes, one row per sample column.
func TracesToCSV(w io.Writer, f render.Frame) error {
	tr := f.Traces
	if len(tr[0]) == 0 {
		return ErrEmptyFrame
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "theta", "i_L1", "i_L2", "i_L3", "i_N"}); err != nil {
		return err
	}
	o := f.Layout.WaveOrigin
	for j := range tr[0] {
		x := tr[0][j].X - o.X
		row := []string{
			strconv.FormatFloat(x, 'f', 0, 64),
			format(f.Phase + x*render.WaveOffsetPerPixel),
		}
		for i := range tr {
			row = append(row, format(f.Amps(o.Y-tr[i][j].Y)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PeriodToCSV samples one full period of every current at n points.
func PeriodToCSV(w io.Writer, set phasor.LineCurrentSet, n int) error {
	if n <= 0 {
		return ErrEmptyFrame
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"theta", "i_L1", "i_L2", "i_L3", "i_N"}); err != nil {
		return err
	}
	all := set.All()
	for j := 0; j < n; j++ {
		theta := 2 * math.Pi * float64(j) / float64(n)
		row := []string{format(theta)}
		for _, p := range all {
			row = append(row, format(p.Instant(theta)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type Snapshot struct {
	Voltage  float64               `json:"voltage_rms"`
	PY       [3]float64            `json:"p_y"`
	PDelta   [3]float64            `json:"p_delta"`
	Phase    float64               `json:"phase"`
	Currents phasor.LineCurrentSet `json:"currents"`
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
