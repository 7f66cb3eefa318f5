package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/render"
	"github.com/san-kum/threephase/internal/viewport"
)

func frame(y, delta [3]float64) render.Frame {
	set := phasor.Compute(y, delta, phasor.VoltageRMS)
	return render.Render(set, 0.4, viewport.Default())
}

func TestFrameToSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := FrameToSVG(&buf, frame([3]float64{2000, 0, 0}, [3]float64{})); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("missing svg envelope")
	}
	if !strings.Contains(out, `width="1200" height="800"`) {
		t.Error("missing canvas size")
	}
	for _, c := range render.TraceColors {
		if !strings.Contains(out, c.Hex()) {
			t.Errorf("missing trace color %s", c.Hex())
		}
	}
	if !strings.Contains(out, ">10A<") {
		t.Error("missing tick label")
	}
	if !strings.Contains(out, "iN: 8.7 A") {
		t.Error("missing neutral label")
	}
	if n := strings.Count(out, "<path"); n != 4 {
		t.Errorf("expected 4 traces, got %d", n)
	}
}

func TestFrameToSVGHidesNeutral(t *testing.T) {
	var buf bytes.Buffer
	if err := FrameToSVG(&buf, frame([3]float64{}, [3]float64{3000, 3000, 3000})); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "iN:") {
		t.Error("neutral label drawn for balanced delta load")
	}
	if n := strings.Count(buf.String(), "<path"); n != 4 {
		t.Errorf("expected 4 traces, got %d", n)
	}
}

func TestFrameToSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := FrameToSVG(&buf, render.Frame{}); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestTracesToCSV(t *testing.T) {
	f := frame([3]float64{1000, 500, 0}, [3]float64{0, 0, 900})
	var buf bytes.Buffer
	if err := TracesToCSV(&buf, f); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(f.Traces[0])+1 {
		t.Fatalf("expected %d rows, got %d", len(f.Traces[0])+1, len(rows))
	}
	if rows[0][2] != "i_L1" || rows[0][5] != "i_N" {
		t.Errorf("header = %v", rows[0])
	}

	all := f.Currents.All()
	for _, row := range rows[1:] {
		theta, _ := strconv.ParseFloat(row[1], 64)
		for i, p := range all {
			v, _ := strconv.ParseFloat(row[i+2], 64)
			if math.Abs(v-p.Instant(theta)) > 1e-4 {
				t.Fatalf("row %v trace %d: %f, want %f", row, i, v, p.Instant(theta))
			}
		}
	}
}

func TestPeriodToCSV(t *testing.T) {
	set := phasor.Compute([3]float64{1000, 1000, 1000}, [3]float64{}, phasor.VoltageRMS)
	var buf bytes.Buffer
	if err := PeriodToCSV(&buf, set, 36); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 37 {
		t.Fatalf("expected 37 rows, got %d", len(rows))
	}
	for _, row := range rows[1:] {
		n, _ := strconv.ParseFloat(row[4], 64)
		if math.Abs(n) > 1e-5 {
			t.Errorf("balanced neutral sample = %f", n)
		}
	}

	if err := PeriodToCSV(&buf, set, 0); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	snap := Snapshot{
		Voltage:  phasor.VoltageRMS,
		PY:       [3]float64{1000, 0, 0},
		Currents: phasor.Compute([3]float64{1000, 0, 0}, [3]float64{}, phasor.VoltageRMS),
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, snap); err != nil {
		t.Fatal(err)
	}
	var got Snapshot
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.PY != snap.PY || math.Abs(got.Currents.Lines[0].Magnitude-1000/230.0) > 1e-9 {
		t.Errorf("snapshot = %+v", got)
	}
}
