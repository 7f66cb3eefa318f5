package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/threephase/internal/export"
	"github.com/san-kum/threephase/internal/phasor"
)

func snapshot(y, delta [3]float64) export.Snapshot {
	return export.Snapshot{
		Voltage:  phasor.VoltageRMS,
		PY:       y,
		PDelta:   delta,
		Currents: phasor.Compute(y, delta, phasor.VoltageRMS),
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	snap := snapshot([3]float64{1000, 0, 0}, [3]float64{0, 500, 0})
	id, err := st.Save("single load", snap, 72)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	rec, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.Label != "single_load" {
		t.Errorf("expected label 'single_load', got %q", rec.Label)
	}
	if rec.Snapshot.PY != snap.PY || rec.Samples != 72 {
		t.Errorf("record = %+v", rec)
	}

	wave, err := st.LoadWaveform(id)
	if err != nil {
		t.Fatalf("load waveform failed: %v", err)
	}
	if len(wave.Theta) != 72 {
		t.Fatalf("expected 72 samples, got %d", len(wave.Theta))
	}
	for j, theta := range wave.Theta {
		sum := wave.Traces[0][j] + wave.Traces[1][j] + wave.Traces[2][j]
		if math.Abs(sum-wave.Traces[3][j]) > 1e-5 {
			t.Fatalf("sample %d: lines sum %f, neutral %f", j, sum, wave.Traces[3][j])
		}
		want := snap.Currents.Lines[0].Instant(theta)
		if math.Abs(wave.Traces[0][j]-want) > 1e-5 {
			t.Fatalf("sample %d: L1 %f, want %f", j, wave.Traces[0][j], want)
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	recs, err := st.List()
	if err != nil || len(recs) != 0 {
		t.Fatalf("empty store: %v, %v", recs, err)
	}

	for _, label := range []string{"a", "b", ""} {
		if _, err := st.Save(label, snapshot([3]float64{100}, [3]float64{}), 16); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	recs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Label != "a" || recs[2].Label != "snapshot" {
		t.Errorf("unexpected order or labels: %s, %s", recs[0].Label, recs[2].Label)
	}
}

func TestStoreErrors(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save("x", snapshot([3]float64{}, [3]float64{}), 0); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if _, err := st.Load("missing"); err == nil {
		t.Error("expected error for missing record")
	}
	if _, err := st.LoadWaveform("missing"); err == nil {
		t.Error("expected error for missing waveform")
	}
}

func TestStoreSaveFailureLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	snap := snapshot([3]float64{1000}, [3]float64{})
	snap.Voltage = math.NaN()
	id, err := st.Save("broken", snap, 16)
	if err == nil {
		t.Fatal("expected an encode error for a NaN voltage")
	}
	if id != "" {
		t.Errorf("failed save returned id %q", id)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("left %d entries behind", len(entries))
	}
	recs, err := st.List()
	if err != nil || len(recs) != 0 {
		t.Errorf("List = %v, %v", recs, err)
	}
}
