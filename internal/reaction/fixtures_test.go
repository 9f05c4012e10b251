package reaction_test

import (
	. "github.com/onsi/gomega"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/tabular"
	"github.com/san-kum/radsim/internal/xs"
)

var energies = []float64{1e-5, 1e-3, 1e5}

func energyGrid() *xs.EnergyGrid {
	g, err := xs.NewEnergyGrid(append([]float64(nil), energies...), 100)
	Expect(err).NotTo(HaveOccurred())
	return g
}

func table(g *xs.EnergyGrid, threshold int, values ...float64) *xs.Table {
	t, err := xs.NewTable(g, values, threshold, interp.LogLog)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func forwardPeaked(eta float64) tabular.Distribution {
	const n = 81
	mu := make([]float64, n)
	pdf := make([]float64, n)
	for i := range mu {
		mu[i] = -1 + 2*float64(i)/(n-1)
		pdf[i] = 1 / ((1 + eta - mu[i]) * (1 + eta - mu[i]))
	}
	mu[n-1] = 1
	d, err := tabular.NewContinuous(mu, pdf, interp.LinLin)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func angularEngine() *bivariate.Engine {
	e, err := bivariate.New(energies,
		[]tabular.Distribution{forwardPeaked(1), forwardPeaked(0.1), forwardPeaked(1e-3)},
		bivariate.WithInterp(interp.LinLinLog))
	Expect(err).NotTo(HaveOccurred())
	return e
}

func cutoffElastic(cutoff float64, tail bool) *scatter.CutoffElastic {
	dist, err := bivariate.NewElastic(angularEngine(), cutoff)
	Expect(err).NotTo(HaveOccurred())
	var rutherford *scatter.ScreenedRutherfordElastic
	if tail {
		rutherford = screenedRutherford(cutoff)
	}
	d, err := scatter.NewCutoffElastic(dist, rutherford)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func screenedRutherford(cutoff float64) *scatter.ScreenedRutherfordElastic {
	d, err := scatter.NewScreenedRutherfordElastic(6, cutoff, true)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func discreteAngles() *bivariate.Engine {
	table := func(points ...float64) tabular.Distribution {
		d, err := tabular.NewDiscrete(points, []float64{0.4, 0.6})
		Expect(err).NotTo(HaveOccurred())
		return d
	}
	e, err := bivariate.New(energies,
		[]tabular.Distribution{table(0.92, 0.97), table(0.95, 0.99), table(0.999, 0.9999)},
		bivariate.WithInterp(interp.LinLinLog))
	Expect(err).NotTo(HaveOccurred())
	return e
}

func momentPreserving() *scatter.MomentPreservingElastic {
	d, err := scatter.NewMomentPreservingElastic(discreteAngles())
	Expect(err).NotTo(HaveOccurred())
	return d
}

func hybridElastic(cutoff float64) *scatter.HybridElastic {
	h := func(eta, mix float64, points ...float64) tabular.Distribution {
		n := 41
		mu := make([]float64, n)
		pdf := make([]float64, n)
		for i := range mu {
			mu[i] = -1 + (cutoff+1)*float64(i)/float64(n-1)
			pdf[i] = 1 / ((1 + eta - mu[i]) * (1 + eta - mu[i]))
		}
		mu[n-1] = cutoff
		c, err := tabular.NewContinuous(mu, pdf, interp.LinLin)
		Expect(err).NotTo(HaveOccurred())
		disc, err := tabular.NewDiscrete(points, []float64{0.5, 0.5})
		Expect(err).NotTo(HaveOccurred())
		d, err := tabular.NewHybrid(c, disc, cutoff, mix)
		Expect(err).NotTo(HaveOccurred())
		return d
	}
	e, err := bivariate.New(energies, []tabular.Distribution{
		h(1, 0.9, 0.95, 0.99),
		h(0.1, 0.5, 0.96, 0.995),
		h(1e-3, 0.1, 0.999, 0.9999),
	}, bivariate.WithInterp(interp.LinLinLog))
	Expect(err).NotTo(HaveOccurred())
	d, err := scatter.NewHybridElastic(e, cutoff)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func uniform(lo, hi float64) tabular.Distribution {
	d, err := tabular.NewContinuous([]float64{lo, hi}, []float64{1, 1}, interp.LinLin)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func photonSpectrum() *scatter.Bremsstrahlung {
	e, err := bivariate.New(energies,
		[]tabular.Distribution{uniform(1e-7, 1e-5), uniform(1e-7, 1e-3), uniform(1e-7, 1e5)},
		bivariate.WithInterp(interp.LinLinLog))
	Expect(err).NotTo(HaveOccurred())
	d, err := scatter.NewBremsstrahlung(e)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func knockOn(shell particle.Subshell) *scatter.ElectroionizationSubshell {
	e, err := bivariate.New(energies,
		[]tabular.Distribution{uniform(0, 1e-6), uniform(0, 1e-4), uniform(0, 1e4)},
		bivariate.WithInterp(interp.LinLinLog))
	Expect(err).NotTo(HaveOccurred())
	d, err := scatter.NewElectroionizationSubshell(e, shell, 1e-7)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func adjointGain(lines ...float64) *scatter.BremsstrahlungAdjoint {
	e, err := bivariate.New(energies,
		[]tabular.Distribution{uniform(1e-6, 1e-3), uniform(1e-6, 1e-1), uniform(1e-6, 1)},
		bivariate.WithInterp(interp.LinLinLog))
	Expect(err).NotTo(HaveOccurred())
	d, err := scatter.NewBremsstrahlungAdjoint(e, lines)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func excitation() *scatter.AtomicExcitation {
	loss, err := interp.NewFunction(energies, []float64{1e-6, 1e-5, 2e-5}, interp.LogLog)
	Expect(err).NotTo(HaveOccurred())
	return scatter.NewAtomicExcitation(loss)
}
