package atom_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/radsim/internal/atom"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/scatter"
)

var gold *dataset.Electroatom

var _ = BeforeSuite(func() {
	var err error
	gold, err = dataset.Synthetic(79)
	Expect(err).NotTo(HaveOccurred())
})

func kinds(a *atom.Atom) []reaction.Kind {
	var out []reaction.Kind
	for _, r := range a.Reactions() {
		out = append(out, r.Kind())
	}
	return out
}

func only(p *properties.Properties, elastic, brems, ionization, excitation bool) {
	p.Electron.Elastic = elastic
	p.Electron.Bremsstrahlung = brems
	p.Electron.Electroionization = ionization
	p.Electron.AtomicExcitation = excitation
}

var _ = Describe("Electroatom", func() {
	var props *properties.Properties

	BeforeEach(func() {
		props = properties.Default()
	})

	It("builds every enabled process", func() {
		a, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Symbol()).To(Equal("Au"))
		Expect(a.Z()).To(Equal(79))
		Expect(a.Particle()).To(Equal(particle.Electron))

		k := kinds(a)
		Expect(k).To(ContainElements(reaction.KindCoupledElastic, reaction.KindBremsstrahlung, reaction.KindAtomicExcitation))
		ionization := 0
		for _, kind := range k {
			if kind == reaction.KindElectroionizationSubshell {
				ionization++
			}
		}
		Expect(ionization).To(Equal(len(gold.Subshells)))
	})

	It("sums reaction cross sections", func() {
		a, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())
		for _, e := range []float64{1e-4, 0.01, 1, 10} {
			var sum float64
			for _, r := range a.Reactions() {
				sum += r.CrossSection(e)
			}
			Expect(a.TotalCrossSection(e)).To(BeNumerically("~", sum, 1e-9*sum))
			Expect(a.TotalCrossSection(e)).To(BeNumerically(">", 0))
		}
		Expect(a.TotalCrossSection(1e6)).To(BeZero())
	})

	DescribeTable("elastic modes",
		func(mode properties.ElasticMode, cutoff float64, want []reaction.Kind) {
			props.Electron.ElasticMode = mode
			props.Electron.CutoffAngleCosine = cutoff
			only(props, true, false, false, false)
			a, err := atom.NewElectroatom(gold, props, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(kinds(a)).To(Equal(want))
			Expect(a.TotalCrossSection(1)).To(BeNumerically(">", 0))
		},
		Entry("coupled", properties.Coupled, 1.0, []reaction.Kind{reaction.KindCoupledElastic}),
		Entry("decoupled", properties.Decoupled, 1.0, []reaction.Kind{reaction.KindDecoupledElastic}),
		Entry("cutoff", properties.Cutoff, 0.9, []reaction.Kind{reaction.KindCutoffElastic}),
		Entry("rutherford", properties.Rutherford, 1.0, []reaction.Kind{reaction.KindScreenedRutherfordElastic}),
		Entry("hybrid", properties.Hybrid, 0.9, []reaction.Kind{reaction.KindHybridElastic}),
		Entry("moment preserving", properties.MomentPreserving, 0.9,
			[]reaction.Kind{reaction.KindCutoffElastic, reaction.KindMomentPreservingElastic}),
	)

	It("keeps the hybrid cross section close to the full elastic cross section", func() {
		only(props, true, false, false, false)
		coupled, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())

		props.Electron.ElasticMode = properties.Hybrid
		props.Electron.CutoffAngleCosine = 0.9
		hybrid, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())

		for _, e := range []float64{1e-3, 1, 10} {
			full := coupled.TotalCrossSection(e)
			Expect(hybrid.TotalCrossSection(e)).To(BeNumerically("~", full, 0.1*full))
		}
	})

	It("rejects moment preserving data generated for another cutoff", func() {
		props.Electron.ElasticMode = properties.Hybrid
		props.Electron.CutoffAngleCosine = 0.8
		_, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).To(MatchError(contract.ErrPrecondition))
	})

	It("rejects an atom with nothing enabled", func() {
		only(props, false, false, false, false)
		_, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).To(MatchError(contract.ErrPrecondition))
	})

	It("rejects invalid properties", func() {
		props.HashBins = 0
		_, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).To(MatchError(properties.ErrInvalid))
	})

	DescribeTable("bremsstrahlung angular models",
		func(model scatter.PhotonAngular) {
			props.Electron.BremsstrahlungAngular = model
			only(props, false, true, false, false)
			a, err := atom.NewElectroatom(gold, props, nil)
			Expect(err).NotTo(HaveOccurred())

			src := rng.New(3)
			for i := 0; i < 50; i++ {
				p := particle.NewState(particle.Electron, 1, int64(i))
				var bank particle.Bank
				c, ok := a.Collide(p, &bank, src)
				Expect(ok).To(BeTrue())
				Expect(c.Reaction).To(Equal(reaction.KindBremsstrahlung))
				Expect(bank.Len()).To(Equal(1))
				photon := bank.Pop()
				Expect(photon.Type).To(Equal(particle.Photon))
				Expect(photon.Energy + p.Energy).To(BeNumerically("~", 1, 1e-12))
			}
		},
		Entry("dipole", scatter.Dipole),
		Entry("tabular", scatter.Tabular),
		Entry("2BS", scatter.TwoBS),
	)

	It("builds with linear interpolation", func() {
		p := properties.GetPreset("lin")
		a, err := atom.NewElectroatom(gold, p, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.TotalCrossSection(1)).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Collide", func() {
	var (
		props *properties.Properties
		a     *atom.Atom
	)

	BeforeEach(func() {
		props = properties.Default()
		var err error
		a, err = atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("picks reactions in proportion to their cross sections", func() {
		const n = 20000
		const energy = 1.0
		src := rng.New(11)
		elastic := 0
		for i := 0; i < n; i++ {
			p := particle.NewState(particle.Electron, energy, int64(i))
			var bank particle.Bank
			c, ok := a.Collide(p, &bank, src)
			Expect(ok).To(BeTrue())
			Expect(p.Energy).To(BeNumerically("<=", energy))
			Expect(p.CollisionNumber).To(Equal(1))
			if c.Reaction.IsElastic() {
				elastic++
			}
		}

		r, ok := a.Reaction(reaction.KindCoupledElastic)
		Expect(ok).To(BeTrue())
		want := r.CrossSection(energy) / a.TotalCrossSection(energy)
		Expect(float64(elastic) / n).To(BeNumerically("~", want, 0.02))
	})

	It("relaxes the ionized subshell", func() {
		only(props, false, false, true, false)
		ion, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())

		src := rng.New(5)
		relaxed := 0
		for i := 0; i < 500; i++ {
			p := particle.NewState(particle.Electron, 1, int64(i))
			var bank particle.Bank
			c, ok := ion.Collide(p, &bank, src)
			Expect(ok).To(BeTrue())
			Expect(c.Subshell.IsReal()).To(BeTrue())
			Expect(bank.Len()).To(BeNumerically(">=", 1))
			Expect(bank.Top().Type).To(Equal(particle.Electron))
			relaxed += c.Transitions
		}
		Expect(relaxed).To(BeNumerically(">", 0))
	})

	It("skips relaxation when it is disabled", func() {
		only(props, false, false, true, false)
		props.Electron.AtomicRelaxation = false
		ion, err := atom.NewElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())

		src := rng.New(6)
		for i := 0; i < 100; i++ {
			p := particle.NewState(particle.Electron, 1, int64(i))
			var bank particle.Bank
			c, _ := ion.Collide(p, &bank, src)
			Expect(c.Transitions).To(BeZero())
			Expect(bank.Len()).To(Equal(1))
		}
	})

	It("reports no collision below every threshold", func() {
		p := particle.NewState(particle.Electron, 1e-7, 0)
		var bank particle.Bank
		_, ok := a.Collide(p, &bank, rng.New(1))
		Expect(ok).To(BeFalse())
		Expect(p.CollisionNumber).To(BeZero())
	})

	It("panics for the wrong particle type", func() {
		p := particle.NewState(particle.Positron, 1, 0)
		var bank particle.Bank
		Expect(func() { a.Collide(p, &bank, rng.New(1)) }).To(PanicWith(MatchError(contract.ErrPrecondition)))
	})
})

var _ = Describe("Positronatom", func() {
	It("emits one knock-on electron per ionization", func() {
		props := properties.GetPreset("positron")
		a, err := atom.NewPositronatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Particle()).To(Equal(particle.Positron))

		for _, r := range a.Reactions() {
			if r.Kind() == reaction.KindElectroionizationSubshell {
				Expect(r.NumberOfEmittedElectrons(1)).To(Equal(1))
				Expect(r.NumberOfEmittedPositrons(1)).To(Equal(1))
			}
		}
	})
})

var _ = Describe("AdjointElectroatom", func() {
	var props *properties.Properties

	BeforeEach(func() {
		props = properties.GetPreset("adjoint")
	})

	It("builds the adjoint processes", func() {
		a, err := atom.NewAdjointElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(kinds(a)).To(Equal([]reaction.Kind{
			reaction.KindCoupledElastic,
			reaction.KindBremsstrahlung,
			reaction.KindAtomicExcitation,
		}))
		Expect(a.Relaxation().Model(particle.K).RelaxSubshell(nil, 0, 0, nil, nil)).To(BeZero())
	})

	It("never lowers the energy", func() {
		a, err := atom.New(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Particle()).To(Equal(particle.AdjointElectron))

		src := rng.New(9)
		for i := 0; i < 2000; i++ {
			p := particle.NewState(particle.AdjointElectron, 1e-2, int64(i))
			var bank particle.Bank
			_, ok := a.Collide(p, &bank, src)
			Expect(ok).To(BeTrue())
			Expect(p.Energy).To(BeNumerically(">=", 1e-2))
		}
	})

	It("takes the Seltzer setting from the adjoint section", func() {
		props.Adjoint.ElasticMode = properties.Rutherford
		props.Adjoint.Bremsstrahlung = false
		props.Adjoint.AtomicExcitation = false

		scatterOnce := func(p *properties.Properties) float64 {
			a, err := atom.NewAdjointElectroatom(gold, p, nil)
			Expect(err).NotTo(HaveOccurred())
			s := particle.NewState(particle.AdjointElectron, 1, 0)
			var bank particle.Bank
			c, ok := a.Collide(s, &bank, rng.New(11))
			Expect(ok).To(BeTrue())
			Expect(c.Reaction).To(Equal(reaction.KindScreenedRutherfordElastic))
			return s.Direction.Z
		}

		withSeltzer := scatterOnce(props)

		props.Electron.SeltzerModification = false
		Expect(scatterOnce(props)).To(Equal(withSeltzer))

		props.Adjoint.SeltzerModification = false
		Expect(scatterOnce(props)).NotTo(Equal(withSeltzer))
	})

	It("creates probes at reachable line energies", func() {
		props.Adjoint.Elastic = false
		props.Adjoint.AtomicExcitation = false
		a, err := atom.NewAdjointElectroatom(gold, props, nil)
		Expect(err).NotTo(HaveOccurred())

		src := rng.New(10)
		for i := 0; i < 100; i++ {
			p := particle.NewState(particle.AdjointElectron, 1e-2, int64(i))
			var bank particle.Bank
			c, ok := a.Collide(p, &bank, src)
			Expect(ok).To(BeTrue())
			Expect(c.Reaction).To(Equal(reaction.KindBremsstrahlung))
			Expect(p.Energy).To(BeNumerically(">", 1e-2))

			// 0.5 MeV lies beyond the largest gain tabulated at 10 keV.
			Expect(bank.Len()).To(Equal(2))
			for !bank.IsEmpty() {
				probe := bank.Pop()
				Expect(probe.IsProbe()).To(BeTrue())
				Expect(probe.Energy).To(BeElementOf(0.05, 0.1))
				Expect(probe.Weight).To(BeNumerically(">", 0))
			}
		}
	})
})
