package automation_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threephase/internal/automation"
	"github.com/san-kum/threephase/internal/config"
	"github.com/san-kum/threephase/internal/export"
	"github.com/san-kum/threephase/internal/optim"
	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/storage"
)

type recordingSaver struct {
	labels []string
	fail   error
}

func (r *recordingSaver) Save(label string, snap export.Snapshot, n int) (string, error) {
	if r.fail != nil {
		return "", r.fail
	}
	r.labels = append(r.labels, label)
	return label + "_id", nil
}

const evening = `
name: evening
steps:
  - name: base
    preset: balanced
  - name: cooker on
    preset: balanced
    y: [2000]
    save_as: cooker
  - delta: [0, 3000]
    phase: 1.5
`

var _ = Describe("Scenario", func() {
	It("fills defaults", func() {
		sc, err := automation.ParseScenario([]byte(evening))
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Voltage).To(Equal(phasor.VoltageRMS))
		Expect(sc.Samples).To(Equal(360))
		Expect(sc.Steps).To(HaveLen(3))
	})

	It("rejects a scenario without steps", func() {
		_, err := automation.ParseScenario([]byte("name: empty\n"))
		Expect(err).To(MatchError(automation.ErrNoSteps))
	})

	It("runs steps in order and saves the marked ones", func() {
		sc, err := automation.ParseScenario([]byte(evening))
		Expect(err).NotTo(HaveOccurred())
		saver := &recordingSaver{}

		res, err := automation.RunScenario(context.Background(), sc, saver, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(HaveLen(3))
		Expect(res[2].Name).To(Equal("step-3"))
		Expect(saver.labels).To(Equal([]string{"cooker"}))
		Expect(res[1].ID).To(Equal("cooker_id"))

		Expect(res[0].Snapshot.Currents.Neutral.Magnitude).To(BeNumerically("<", 1e-9))
		Expect(res[1].Snapshot.PY).To(Equal([3]float64{2000, 1500, 1500}))

		want := 3000 / (phasor.VoltageRMS * phasor.Sqrt3)
		Expect(res[2].Snapshot.Currents.Lines[1].Magnitude).To(BeNumerically("~", want, 1e-9))
		Expect(res[2].Snapshot.Phase).To(Equal(1.5))
	})

	It("reports unknown presets with the step number", func() {
		sc := &automation.Scenario{Voltage: 230, Steps: []automation.ScenarioStep{{}, {Preset: "nope"}}}
		res, err := automation.RunScenario(context.Background(), sc, nil, nil)
		Expect(errors.Is(err, config.ErrUnknownPreset)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("step 2"))
		Expect(res).To(HaveLen(1))
	})

	It("needs a saver for save_as", func() {
		sc := &automation.Scenario{Voltage: 230, Steps: []automation.ScenarioStep{{SaveAs: "x"}}}
		_, err := automation.RunScenario(context.Background(), sc, nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("propagates save failures", func() {
		sc := &automation.Scenario{Voltage: 230, Steps: []automation.ScenarioStep{{SaveAs: "x"}}}
		_, err := automation.RunScenario(context.Background(), sc, &recordingSaver{fail: errors.New("disk full")}, nil)
		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})

	It("stores into a real archive", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "s.yaml")
		Expect(os.WriteFile(path, []byte(evening), 0644)).To(Succeed())
		sc, err := automation.LoadScenario(path)
		Expect(err).NotTo(HaveOccurred())

		st := storage.New(filepath.Join(dir, "data"))
		Expect(st.Init()).To(Succeed())
		_, err = automation.RunScenario(context.Background(), sc, st, nil)
		Expect(err).NotTo(HaveOccurred())

		recs, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].Label).To(Equal("cooker"))
	})

	It("stops when the context is cancelled", func() {
		sc, _ := automation.ParseScenario([]byte(evening))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := automation.RunScenario(ctx, sc, nil, nil)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Sweep", func() {
	base := optim.FromPowers([3]float64{1000, 1000, 0}, [3]float64{})

	It("returns evenly spaced points", func() {
		pts, err := automation.RunSweep(context.Background(),
			automation.Sweep{Load: "p3", Min: 0, Max: 2000, Steps: 21}, base, phasor.VoltageRMS)
		Expect(err).NotTo(HaveOccurred())
		Expect(pts).To(HaveLen(21))
		Expect(pts[0].Value).To(Equal(0.0))
		Expect(pts[20].Value).To(BeNumerically("~", 2000, 1e-9))
	})

	It("crosses zero neutral where the loads balance", func() {
		pts, err := automation.RunSweep(context.Background(),
			automation.Sweep{Load: "p3", Min: 0, Max: 2000, Steps: 21}, base, phasor.VoltageRMS)
		Expect(err).NotTo(HaveOccurred())
		Expect(pts[10].Value).To(BeNumerically("~", 1000, 1e-9))
		Expect(pts[10].Currents.Neutral.Magnitude).To(BeNumerically("<", 1e-9))
		Expect(pts[0].Currents.Neutral.Magnitude).To(BeNumerically("~", 1000/phasor.VoltageRMS, 1e-9))
	})

	It("does not touch the base loads", func() {
		_, err := automation.RunSweep(context.Background(),
			automation.Sweep{Load: "p1", Min: 0, Max: 100, Steps: 3}, base, phasor.VoltageRMS)
		Expect(err).NotTo(HaveOccurred())
		Expect(base["p1"]).To(Equal(1000.0))
	})

	DescribeTable("rejects bad sweeps",
		func(sw automation.Sweep) {
			_, err := automation.RunSweep(context.Background(), sw, base, phasor.VoltageRMS)
			Expect(err).To(HaveOccurred())
		},
		Entry("unknown load", automation.Sweep{Load: "p4", Max: 10, Steps: 2}),
		Entry("one step", automation.Sweep{Load: "p1", Max: 10, Steps: 1}),
		Entry("empty range", automation.Sweep{Load: "p1", Min: 10, Max: 10, Steps: 5}),
	)
})
