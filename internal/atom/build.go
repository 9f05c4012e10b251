package atom

import (
	"log/slog"
	"math"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/tabular"
	"github.com/san-kum/radsim/internal/xs"
)

// builder turns data set tables into engines and cross sections with one
// set of interpolation choices.
type builder struct {
	data    *dataset.Electroatom
	grid    *xs.EnergyGrid
	policy  interp.OneD
	interp  interp.TwoD
	layout  bivariate.GridPolicy
	tol     float64
	seltzer bool
	logger  *slog.Logger
}

// crossSectionPolicy follows the dependent processing of the 2-D policy.
func crossSectionPolicy(p interp.TwoD) interp.OneD {
	if p.Z == interp.Log && p.X == interp.Log {
		return interp.LogLog
	}
	return interp.LinLin
}

// angular swaps log processing of the secondary variable for log-cos so
// angle cosines near 1 stay resolvable.
func angular(p interp.TwoD) interp.TwoD {
	if p.Y == interp.Log {
		p.Y = interp.LogCos
	}
	return p
}

// discrete maps unit-base grid policies to the nearest policy that accepts
// tables with discrete parts.
func discrete(g bivariate.GridPolicy) bivariate.GridPolicy {
	switch g {
	case bivariate.UnitBase:
		return bivariate.Direct
	case bivariate.UnitBaseCorrelated:
		return bivariate.Correlated
	}
	return g
}

func (b *builder) table(c dataset.CrossSection) (*xs.Table, error) {
	return xs.NewTable(b.grid, c.Values, c.Threshold, b.policy)
}

func (b *builder) options(p interp.TwoD, g bivariate.GridPolicy) []bivariate.Option {
	return []bivariate.Option{
		bivariate.WithInterp(p),
		bivariate.WithGrid(g),
		bivariate.WithFuzzyBoundTolerance(b.tol),
		bivariate.WithRelativeErrorTolerance(b.tol),
		// The absolute floor is never looser than the relative tolerance.
		bivariate.WithErrorTolerance(min(b.tol, bivariate.DefaultErrorTolerance)),
	}
}

func (b *builder) engine(tables []dataset.Table, policy interp.OneD, p interp.TwoD, g bivariate.GridPolicy) (*bivariate.Engine, error) {
	if len(tables) == 0 {
		return nil, contract.Errorf("atom: %s has no secondary tables", b.data.Symbol)
	}
	primary := make([]float64, len(tables))
	secondaries := make([]tabular.Distribution, len(tables))
	for i, t := range tables {
		d, err := tabular.NewContinuous(t.X, t.PDF, policy)
		if err != nil {
			return nil, err
		}
		primary[i], secondaries[i] = t.Energy, d
	}
	return bivariate.New(primary, secondaries, b.options(p, g)...)
}

func (b *builder) angularEngine() (*bivariate.Engine, error) {
	return b.engine(b.data.Elastic.Angular, interp.LinLin, angular(b.interp), b.layout)
}

func (b *builder) momentPreservingEngine() (*bivariate.Engine, error) {
	angles := b.data.Elastic.MomentPreserving.Angles
	primary := make([]float64, len(angles))
	secondaries := make([]tabular.Distribution, len(angles))
	for i, t := range angles {
		d, err := tabular.NewDiscrete(t.Points, t.Weights)
		if err != nil {
			return nil, err
		}
		primary[i], secondaries[i] = t.Energy, d
	}
	return bivariate.New(primary, secondaries, b.options(angular(b.interp), discrete(b.layout))...)
}

// hybridEngine mixes each tabulated angular distribution below cutoff with
// the moment preserving angles above it. The mixing probability is the
// share of the reduced cutoff cross section in the hybrid total.
func (b *builder) hybridEngine(cutoff float64, total, mp *xs.Table) (*bivariate.Engine, error) {
	angularTables := b.data.Elastic.Angular
	angles := b.data.Elastic.MomentPreserving.Angles
	if len(angles) != len(angularTables) {
		return nil, contract.Errorf("atom: %d angular tables but %d moment preserving tables", len(angularTables), len(angles))
	}

	primary := make([]float64, len(angles))
	secondaries := make([]tabular.Distribution, len(angles))
	for i, t := range angularTables {
		if angles[i].Energy != t.Energy {
			return nil, contract.Errorf("atom: moment preserving table %d at %g MeV, angular table at %g MeV", i, angles[i].Energy, t.Energy)
		}
		cont, err := tabular.NewContinuous(t.X, t.PDF, interp.LinLin)
		if err != nil {
			return nil, err
		}
		disc, err := tabular.NewDiscrete(angles[i].Points, angles[i].Weights)
		if err != nil {
			return nil, err
		}

		reduced := total.CrossSection(t.Energy) * cont.EvaluateCDF(cutoff)
		sum := reduced + mp.CrossSection(t.Energy)
		mix := 1.0
		if sum > 0 {
			mix = math.Min(reduced/sum, 1)
		}
		h, err := tabular.NewHybrid(cont, disc, cutoff, mix)
		if err != nil {
			return nil, err
		}
		primary[i], secondaries[i] = t.Energy, h
	}
	return bivariate.New(primary, secondaries, b.options(angular(b.interp), discrete(b.layout))...)
}
