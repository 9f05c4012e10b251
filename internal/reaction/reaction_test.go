package reaction_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

func logUniform(src rng.Source, lo, hi float64) float64 {
	return lo * math.Pow(hi/lo, src.Float64())
}

var _ = Describe("Kind", func() {
	It("round-trips through text", func() {
		for k := reaction.KindAtomicExcitation; k <= reaction.KindElectroionizationSubshell; k++ {
			text, err := k.MarshalText()
			Expect(err).NotTo(HaveOccurred())
			var back reaction.Kind
			Expect(back.UnmarshalText(text)).To(Succeed())
			Expect(back).To(Equal(k))
		}
		_, err := reaction.ParseKind("Photoelectric")
		Expect(err).To(HaveOccurred())
	})

	It("separates elastic from inelastic reactions", func() {
		Expect(reaction.KindDecoupledElastic.IsElastic()).To(BeTrue())
		Expect(reaction.KindMomentPreservingElastic.IsElastic()).To(BeTrue())
		Expect(reaction.KindBremsstrahlung.IsElastic()).To(BeFalse())
		Expect(reaction.KindAtomicExcitation.IsElastic()).To(BeFalse())
	})
})

var _ = Describe("Reaction", func() {
	var (
		g   *xs.EnergyGrid
		src *rand.Rand
	)

	BeforeEach(func() {
		g = energyGrid()
		src = rng.New(11)
	})

	Describe("threshold behavior", func() {
		It("has no cross section below threshold", func() {
			reactions := []reaction.Reaction{}
			r1, err := reaction.NewAtomicExcitation(particle.Electron, table(g, 1, 5e7, 1e6), excitation())
			Expect(err).NotTo(HaveOccurred())
			r2, err := reaction.NewBremsstrahlung(particle.Positron, table(g, 1, 10, 20), photonSpectrum())
			Expect(err).NotTo(HaveOccurred())
			r3, err := reaction.NewElectroionizationSubshell(particle.Electron, table(g, 1, 1e4, 1e5), knockOn(particle.K))
			Expect(err).NotTo(HaveOccurred())
			reactions = append(reactions, r1, r2, r3)

			for _, r := range reactions {
				Expect(r.ThresholdEnergy()).To(Equal(1e-3))
				Expect(r.MaxEnergy()).To(Equal(1e5))
				for i := 0; i < 500; i++ {
					e := logUniform(src, 1e-5, 1e-3)
					if e < r.ThresholdEnergy() {
						Expect(r.CrossSection(e)).To(BeZero(), "%v at %g", r.Kind(), e)
						Expect(r.NumberOfEmittedElectrons(e)).To(BeZero())
					}
				}
				Expect(r.CrossSection(r.ThresholdEnergy())).To(BeNumerically(">=", 0))
				Expect(r.CrossSection(2e5)).To(BeZero())
			}
		})
	})

	Describe("React", func() {
		It("counts the collision and keeps elastic energies", func() {
			r, err := reaction.NewCutoffElastic(particle.Electron, table(g, 0, 2e8, 1e7, 1e2), cutoffElastic(1, false))
			Expect(err).NotTo(HaveOccurred())

			p := particle.NewState(particle.Electron, 1e-2, 0)
			Expect(r.React(p, &particle.Bank{}, src)).To(Equal(particle.UnknownSubshell))
			Expect(r.React(p, &particle.Bank{}, src)).To(Equal(particle.UnknownSubshell))
			Expect(p.CollisionNumber).To(Equal(2))
			Expect(p.Energy).To(Equal(1e-2))
		})

		It("rejects a particle of the wrong type", func() {
			r, err := reaction.NewAtomicExcitation(particle.Electron, table(g, 0, 1, 1, 1), excitation())
			Expect(err).NotTo(HaveOccurred())
			p := particle.NewState(particle.Positron, 1, 0)
			Expect(func() { r.React(p, &particle.Bank{}, src) }).To(PanicWith(MatchError(contract.ErrPrecondition)))
		})

		It("refuses distributions that cannot scatter the particle", func() {
			_, err := reaction.NewElectroionizationSubshell(particle.AdjointElectron, table(g, 0, 1, 1, 1), knockOn(particle.K))
			Expect(err).To(MatchError(contract.ErrPrecondition))
			_, err = reaction.NewAtomicExcitation(particle.Electron, table(g, 0, 1, 1, 1), nil)
			Expect(err).To(MatchError(contract.ErrPrecondition))
			_, err = reaction.NewAtomicExcitation(particle.Electron, nil, excitation())
			Expect(err).To(MatchError(contract.ErrPrecondition))
		})
	})

	Describe("emitted particles", func() {
		It("counts only the surviving primary for elastic reactions", func() {
			for _, t := range []particle.Type{particle.Electron, particle.Positron, particle.AdjointElectron} {
				r, err := reaction.NewMomentPreservingElastic(t, table(g, 0, 1, 1, 1), momentPreserving())
				Expect(err).NotTo(HaveOccurred())
				Expect(r.NumberOfEmittedPhotons(1)).To(BeZero())
				if t == particle.Positron {
					Expect(r.NumberOfEmittedElectrons(1)).To(BeZero())
					Expect(r.NumberOfEmittedPositrons(1)).To(Equal(1))
				} else {
					Expect(r.NumberOfEmittedElectrons(1)).To(Equal(1))
					Expect(r.NumberOfEmittedPositrons(1)).To(BeZero())
				}
			}
		})

		It("adds the knock-on electron for ionization", func() {
			electron, err := reaction.NewElectroionizationSubshell(particle.Electron, table(g, 0, 1, 1, 1), knockOn(particle.L1))
			Expect(err).NotTo(HaveOccurred())
			positron, err := reaction.NewElectroionizationSubshell(particle.Positron, table(g, 0, 1, 1, 1), knockOn(particle.L1))
			Expect(err).NotTo(HaveOccurred())

			Expect(electron.NumberOfEmittedElectrons(1)).To(Equal(2))
			Expect(positron.NumberOfEmittedElectrons(1)).To(Equal(1))
			Expect(positron.NumberOfEmittedPositrons(1)).To(Equal(1))

			p := particle.NewState(particle.Electron, 1, 0)
			var bank particle.Bank
			Expect(electron.React(p, &bank, src)).To(Equal(particle.L1))
			Expect(electron.Subshell()).To(Equal(particle.L1))
			Expect(bank.Len()).To(Equal(1))
			Expect(bank.Top().Type).To(Equal(particle.Electron))
		})

		It("emits one photon for forward bremsstrahlung and none for adjoint", func() {
			forward, err := reaction.NewBremsstrahlung(particle.Electron, table(g, 0, 1, 1, 1), photonSpectrum())
			Expect(err).NotTo(HaveOccurred())
			adjoint, err := reaction.NewAdjointBremsstrahlung(table(g, 0, 1, 1, 1), adjointGain(0.5))
			Expect(err).NotTo(HaveOccurred())

			Expect(forward.NumberOfEmittedPhotons(1)).To(Equal(1))
			Expect(adjoint.NumberOfEmittedPhotons(1)).To(BeZero())
			Expect(adjoint.Particle()).To(Equal(particle.AdjointElectron))

			p := particle.NewState(particle.Electron, 1, 0)
			var bank particle.Bank
			forward.React(p, &bank, src)
			Expect(bank.Len()).To(Equal(1))
			photon := bank.Pop()
			Expect(photon.Type).To(Equal(particle.Photon))
			Expect(p.Energy + photon.Energy).To(BeNumerically("~", 1, 1e-12))

			a := particle.NewState(particle.AdjointElectron, 0.45, 0)
			adjoint.React(a, &bank, src)
			Expect(a.Energy).To(BeNumerically(">", 0.45))
			Expect(bank.Len()).To(Equal(1))
			Expect(bank.Top().IsProbe()).To(BeTrue())
			Expect(bank.Top().Energy).To(Equal(0.5))
		})
	})

	Describe("DecoupledElastic", func() {
		var (
			total, cutoff *xs.Table
			r             *reaction.DecoupledElastic
		)

		BeforeEach(func() {
			total = table(g, 0, 2.74896e8, 3e7, 2e3)
			cutoff = table(g, 0, 2.5e8, 2e7, 2.5e3)
			var err error
			r, err = reaction.NewDecoupledElastic(particle.Electron, total, cutoff, cutoffElastic(0.999999, false), screenedRutherford(0.999999))
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports the total elastic cross section", func() {
			Expect(r.CrossSection(1e-5)).To(Equal(2.74896e8))
			Expect(r.Kind()).To(Equal(reaction.KindDecoupledElastic))
		})

		It("keeps the sampling ratio inside [0, 1]", func() {
			for i := 0; i < 2000; i++ {
				e := logUniform(src, 1e-5, 9e4)
				ratio := r.SamplingRatio(e)
				Expect(ratio).To(BeNumerically(">=", 0))
				Expect(ratio).To(BeNumerically("<=", 1))
				Expect(ratio).To(Equal(math.Min(1, cutoff.CrossSection(e)/total.CrossSection(e))))
			}
			Expect(r.SamplingRatio(1e5)).To(Equal(1.0), "cutoff above total clamps to one")
		})

		It("routes to the tabulated distribution when the ratio is one", func() {
			whole, err := reaction.NewDecoupledElastic(particle.Electron, total, total, cutoffElastic(1, true), screenedRutherford(1))
			Expect(err).NotTo(HaveOccurred())
			for _, e := range []float64{1e-5, 1e-3, 1} {
				Expect(whole.SamplingRatio(e)).To(Equal(1.0))
				Expect(whole.CutoffCrossSection(e)).To(Equal(total.CrossSection(e)))
			}
			Expect(whole.CrossSection(1e-5)).To(Equal(2.74896e8))
		})

		It("splits the differential cross section at the cutoff", func() {
			e := 1e-3
			below := r.DifferentialCrossSection(e, 0.5)
			Expect(below).To(BeNumerically("~", r.Tabular().EvaluatePDF(e, 0.5)*cutoff.CrossSection(e), 1e-6*below))
			above := r.DifferentialCrossSection(e, 0.9999995)
			want := r.Rutherford().EvaluatePDF(e, 0.9999995) * (total.CrossSection(e) - cutoff.CrossSection(e))
			Expect(above).To(BeNumerically("~", want, 1e-9*want))
			Expect(r.DifferentialCrossSection(2e5, 0.5)).To(BeZero())
		})

		It("never changes the energy or reports a subshell", func() {
			for i := 0; i < 200; i++ {
				p := particle.NewState(particle.Electron, logUniform(src, 1e-5, 1e5), 0)
				e := p.Energy
				Expect(r.React(p, &particle.Bank{}, src)).To(Equal(particle.UnknownSubshell))
				Expect(p.Energy).To(Equal(e))
				Expect(p.CollisionNumber).To(Equal(1))
			}
		})

		It("picks the tabulated branch for draws below the sampling ratio", func() {
			e := 1e-3
			ratio := r.SamplingRatio(e)
			Expect(ratio).To(BeNumerically("~", 2.0/3, 1e-12))

			p := particle.NewState(particle.Electron, e, 0)
			seq := rng.NewSequence(ratio-1e-9, 0.5)
			r.React(p, &particle.Bank{}, seq)
			Expect(seq.Drawn()).To(BeNumerically(">", 1))
			Expect(p.Direction.Z).To(BeNumerically("<=", r.Tabular().CutoffAngleCosine()))
		})

		It("picks the screened Rutherford branch for draws at or above the sampling ratio", func() {
			e := 1e-3
			ratio := r.SamplingRatio(e)
			for _, first := range []float64{ratio, 0.99} {
				p := particle.NewState(particle.Electron, e, 0)
				r.React(p, &particle.Bank{}, rng.NewSequence(first, 0.5))
				Expect(p.Direction.Z).To(BeNumerically(">", scatter.MuPeak), "first draw %g", first)
			}
		})

		It("samples the tabulated branch in proportion to the sampling ratio", func() {
			const n = 20000
			src := rng.New(17)
			for _, e := range []float64{1e-4, 1e-3, 1} {
				below := 0
				for i := 0; i < n; i++ {
					p := particle.NewState(particle.Electron, e, 0)
					r.React(p, &particle.Bank{}, src)
					if p.Direction.Z <= scatter.MuPeak {
						below++
					}
				}
				Expect(float64(below)/n).To(BeNumerically("~", r.SamplingRatio(e), 0.015), "energy %g", e)
			}
		})

		It("requires shared grids", func() {
			other := table(energyGrid(), 0, 1, 1, 1)
			_, err := reaction.NewDecoupledElastic(particle.Electron, total, other, cutoffElastic(0.9, false), screenedRutherford(0.9))
			Expect(err).To(MatchError(contract.ErrPrecondition))
		})
	})

	Describe("HybridElastic", func() {
		It("reconstructs its cross section from the cutoff and discrete parts", func() {
			cutoffTable := table(g, 0, 2.5e8, 2e7, 2.5e3)
			mpTable := table(g, 0, 1.2e7, 3e6, 40)
			tabular := cutoffElastic(0.9, false)
			r, err := reaction.NewHybridElastic(particle.Positron, cutoffTable, mpTable, tabular, hybridElastic(0.9))
			Expect(err).NotTo(HaveOccurred())

			for _, e := range []float64{1e-5, 1e-3, 1e5} {
				ratio := tabular.CutoffRatio(e)
				Expect(ratio).To(BeNumerically(">", 0))
				Expect(ratio).To(BeNumerically("<", 1))
				want := cutoffTable.CrossSection(e)*ratio + mpTable.CrossSection(e)
				Expect(r.CrossSection(e)).To(BeNumerically("~", want, 1e-11*want))
				Expect(r.ReducedCutoffCrossSection(e) + r.MomentPreservingCrossSection(e)).To(BeNumerically("~", r.CrossSection(e), 1e-11*want))
				Expect(r.MixingProbability(e)).To(BeNumerically("~", r.ReducedCutoffCrossSection(e)/want, 1e-12))
			}

			p := particle.NewState(particle.Positron, 1e-3, 0)
			Expect(r.React(p, &particle.Bank{}, src)).To(Equal(particle.UnknownSubshell))
			Expect(p.Energy).To(Equal(1e-3))
			Expect(p.CollisionNumber).To(Equal(1))
		})

		It("is active from the lower of its two thresholds", func() {
			cutoffTable := table(g, 1, 2e7, 2.5e3)
			mpTable := table(g, 0, 1.2e7, 3e6, 40)
			r, err := reaction.NewHybridElastic(particle.Positron, cutoffTable, mpTable, cutoffElastic(0.9, false), hybridElastic(0.9))
			Expect(err).NotTo(HaveOccurred())

			Expect(cutoffTable.ThresholdEnergy()).To(Equal(1e-3))
			Expect(r.ThresholdEnergy()).To(Equal(1e-5))
			Expect(r.ReducedCutoffCrossSection(1e-4)).To(BeZero())
			Expect(r.CrossSection(1e-4)).To(Equal(mpTable.CrossSection(1e-4)))
			Expect(r.NumberOfEmittedPositrons(1e-4)).To(Equal(1))
			Expect(r.NumberOfEmittedPositrons(1e-6)).To(BeZero())
		})
	})

	Describe("MomentPreservingElastic", func() {
		It("has no differential cross section", func() {
			r, err := reaction.NewMomentPreservingElastic(particle.Electron, table(g, 0, 1, 1, 1), momentPreserving())
			Expect(err).NotTo(HaveOccurred())
			var rr reaction.Reaction = r
			_, ok := rr.(reaction.Differential)
			Expect(ok).To(BeFalse())
			Expect(r.Distribution().IsContinuous()).To(BeFalse())
			Expect(func() { r.Distribution().EvaluatePDF(1, 0.95) }).To(PanicWith(MatchError(contract.ErrUnsupported)))
		})
	})

	Describe("CoupledElastic", func() {
		It("needs the full angular range", func() {
			_, err := reaction.NewCoupledElastic(particle.Electron, table(g, 0, 1, 1, 1), cutoffElastic(0.9, false))
			Expect(err).To(MatchError(contract.ErrPrecondition))

			r, err := reaction.NewCoupledElastic(particle.Electron, table(g, 0, 4, 2, 1), cutoffElastic(1, true))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Kind()).To(Equal(reaction.KindCoupledElastic))
			Expect(r.CrossSection(1e-3)).To(Equal(2.0))
			Expect(r.DifferentialCrossSection(1e-3, 0.3)).To(BeNumerically("~", 2*r.Distribution().EvaluatePDF(1e-3, 0.3), 1e-12))
		})
	})
})
