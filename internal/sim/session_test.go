package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threephase/internal/phasor"
	"github.com/san-kum/threephase/internal/sim"
	"github.com/san-kum/threephase/internal/viewport"
)

var _ = Describe("Session", func() {
	var s *sim.Session

	BeforeEach(func() {
		s = sim.NewSession(viewport.BaseWidth, viewport.BaseHeight)
	})

	It("starts idle with zero currents", func() {
		f := s.Frame(nil, 0)
		for _, p := range f.Currents.All() {
			Expect(p.Magnitude).To(BeZero())
		}
		Expect(f.Phase).To(BeZero())
	})

	It("drags a slider and recomputes the currents in the same frame", func() {
		r := s.Layout().YSliders[0]
		f := s.Frame([]sim.Event{
			{Kind: sim.EventPress, X: r.X, Y: r.CenterY()},
			{Kind: sim.EventMove, X: r.X + r.W/2},
			{Kind: sim.EventRelease},
		}, 0)

		Expect(s.Loads.Y[0].Value).To(Equal(1000.0))
		Expect(f.Currents.Lines[0].Magnitude).To(BeNumerically("~", 1000/phasor.VoltageRMS, 1e-9))
	})

	It("produces the same currents as the engine", func() {
		s.Loads.Apply([3]float64{100, 700, 1300}, [3]float64{2500, 0, 40})
		f := s.Frame(nil, 0.016)
		Expect(f.Currents).To(Equal(phasor.Compute(s.Loads.YPowers(), s.Loads.DeltaPowers(), phasor.VoltageRMS)))
		Expect(s.Currents()).To(Equal(f.Currents))
	})

	It("resets all loads from the reset button", func() {
		s.Loads.Apply([3]float64{500, 500, 500}, [3]float64{500, 500, 500})
		b := s.Layout().ResetButton
		s.Frame([]sim.Event{{Kind: sim.EventPress, X: b.X + 1, Y: b.Y + 1}}, 0)
		Expect(s.Loads.TotalPower()).To(BeZero())
	})

	It("stops and restarts the clock from the stop button", func() {
		s.Frame(nil, 100)
		Expect(s.Clock.Phase()).To(BeNumerically(">", 0))

		b := s.Layout().StopButton
		press := []sim.Event{{Kind: sim.EventPress, X: b.X + 1, Y: b.Y + 1}}

		f := s.Frame(press, 100)
		Expect(s.Clock.Paused()).To(BeTrue())
		Expect(f.Phase).To(BeZero())

		s.Frame(nil, 100)
		Expect(s.Clock.Phase()).To(BeZero())

		s.Frame(press, 0)
		Expect(s.Clock.Paused()).To(BeFalse())
	})

	It("commits a pending resize before rendering", func() {
		s.Resize(2400, 1600)
		Expect(s.Viewport().Scale).To(Equal(1.0))

		f := s.Frame(nil, 0)
		Expect(f.Viewport.Scale).To(Equal(2.0))
		Expect(f.Layout.AxisLength).To(Equal(200.0))
		Expect(s.Loads.Y[0].Bounds).To(Equal(f.Layout.YSliders[0]))
	})

	It("applies resize events ahead of pointer input in the same frame", func() {
		big := viewport.Recompute(2400, 1600).Layout()
		r := big.DeltaSliders[1]
		s.Frame([]sim.Event{
			{Kind: sim.EventPress, X: r.Right(), Y: r.CenterY()},
			{Kind: sim.EventResize, W: 2400, H: 1600},
			{Kind: sim.EventRelease},
		}, 0)
		Expect(s.Loads.Delta[1].Value).To(Equal(3000.0))
	})

	It("nudges sliders from keyboard events", func() {
		s.Frame([]sim.Event{{Kind: sim.EventNudge, Slider: 0, Steps: 3}}, 0)
		Expect(s.Loads.Delta[0].Value).To(Equal(30.0))
	})

	It("applies whole load sets inside the frame", func() {
		ev := sim.Event{Kind: sim.EventApplyLoads, PY: [3]float64{1500, 1500, 1500}, PDelta: [3]float64{0, 3005, -10}}
		f := s.Frame([]sim.Event{ev}, 0)
		Expect(s.Loads.YPowers()).To(Equal([3]float64{1500, 1500, 1500}))
		Expect(s.Loads.DeltaPowers()).To(Equal([3]float64{0, 3000, 0}))
		Expect(f.Currents.Neutral.Magnitude).To(BeNumerically("<", 1e-9))
		Expect(f.Currents.Lines[1].Magnitude).To(BeNumerically(">", 0))
	})
})
