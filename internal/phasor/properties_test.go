package phasor_test

import (
	"math/cmplx"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/threephase/internal/phasor"
)

func randomPowers(r *rand.Rand, max float64) [3]float64 {
	return [3]float64{r.Float64() * max, r.Float64() * max, r.Float64() * max}
}

var _ = Describe("Compute", func() {
	var r *rand.Rand

	BeforeEach(func() {
		r = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	It("keeps the neutral equal to the sum of the line currents", func() {
		for i := 0; i < 500; i++ {
			y, d := randomPowers(r, 2000), randomPowers(r, 3000)
			set := phasor.Compute(y, d, phasor.VoltageRMS)

			var sum complex128
			for _, l := range set.Lines {
				sum += l.Complex()
			}
			Expect(cmplx.Abs(sum-set.Neutral.Complex())).To(BeNumerically("<", 1e-9),
				"y=%v delta=%v", y, d)
		}
	})

	It("ignores Delta loads in the neutral", func() {
		for i := 0; i < 100; i++ {
			y, d := randomPowers(r, 2000), randomPowers(r, 3000)
			with := phasor.Compute(y, d, phasor.VoltageRMS)
			without := phasor.Compute(y, [3]float64{}, phasor.VoltageRMS)
			Expect(with.Neutral.Magnitude).To(BeNumerically("~", without.Neutral.Magnitude, 1e-9))
		}
	})

	It("never reports a negative magnitude", func() {
		for i := 0; i < 200; i++ {
			y := [3]float64{r.Float64()*4000 - 2000, r.Float64()*4000 - 2000, r.Float64()*4000 - 2000}
			d := [3]float64{r.Float64()*6000 - 3000, r.Float64()*6000 - 3000, r.Float64()*6000 - 3000}
			for _, p := range phasor.Compute(y, d, phasor.VoltageRMS).All() {
				Expect(p.Magnitude).To(BeNumerically(">=", 0))
			}
		}
	})

	It("treats negative powers as zero", func() {
		neg := [3]float64{-10, -20, -30}
		Expect(phasor.Compute(neg, neg, phasor.VoltageRMS)).
			To(Equal(phasor.Compute([3]float64{}, [3]float64{}, phasor.VoltageRMS)))
	})

	It("is deterministic", func() {
		y, d := randomPowers(r, 2000), randomPowers(r, 3000)
		Expect(phasor.Compute(y, d, phasor.VoltageRMS)).To(Equal(phasor.Compute(y, d, phasor.VoltageRMS)))
	})

	It("scales linearly with power", func() {
		y, d := randomPowers(r, 1000), randomPowers(r, 1500)
		single := phasor.Compute(y, d, phasor.VoltageRMS)
		double := phasor.Compute(
			[3]float64{2 * y[0], 2 * y[1], 2 * y[2]},
			[3]float64{2 * d[0], 2 * d[1], 2 * d[2]},
			phasor.VoltageRMS)
		for k := range single.Lines {
			Expect(double.Lines[k].Magnitude).To(BeNumerically("~", 2*single.Lines[k].Magnitude, 1e-9))
		}
	})
})
