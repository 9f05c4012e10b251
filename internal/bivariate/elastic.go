package bivariate

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/rng"
)

const (
	// ElasticLowerBound is the smallest angle cosine.
	ElasticLowerBound = -1.0
	// ElasticMaxUpperBound is the largest angle cosine.
	ElasticMaxUpperBound = 1.0
)

// Elastic is an engine over angle cosines restricted to [-1, cutoff].
// Densities are renormalized to the restricted range and samples never
// exceed the cutoff.
type Elastic struct {
	engine *Engine
	cutoff float64
}

// NewElastic restricts engine to angle cosines not above cutoff. Every
// secondary table must lie in [-1, 1].
func NewElastic(engine *Engine, cutoff float64) (*Elastic, error) {
	if engine == nil {
		return nil, contract.Errorf("bivariate: nil engine")
	}
	if !(cutoff > ElasticLowerBound && cutoff <= ElasticMaxUpperBound) {
		return nil, contract.Errorf("bivariate: cutoff angle cosine %g outside (-1, 1]", cutoff)
	}
	for i := range engine.primary {
		d := engine.tables[i]
		if d.LowerBound() < ElasticLowerBound || d.UpperBound() > ElasticMaxUpperBound {
			return nil, contract.Errorf("bivariate: angular table %d spans [%g, %g], outside [-1, 1]",
				i, d.LowerBound(), d.UpperBound())
		}
	}
	return &Elastic{engine: engine, cutoff: cutoff}, nil
}

// Engine returns the unrestricted distribution.
func (d *Elastic) Engine() *Engine { return d.engine }

func (d *Elastic) LowerBound() float64    { return ElasticLowerBound }
func (d *Elastic) UpperBound() float64    { return d.cutoff }
func (d *Elastic) MaxUpperBound() float64 { return ElasticMaxUpperBound }

// CutoffRatio returns the fraction of the full distribution at energy that
// lies at or below the cutoff.
func (d *Elastic) CutoffRatio(energy float64) float64 {
	if _, ok := d.engine.locate(energy); !ok {
		return 0
	}
	if d.cutoff >= d.engine.UpperBoundOfConditionalIndepVar(energy) {
		return 1
	}
	return d.engine.EvaluateCDF(energy, d.cutoff)
}

// Evaluate returns the unnormalized tabulated value, zero above the cutoff.
func (d *Elastic) Evaluate(energy, mu float64) float64 {
	if mu > d.cutoff {
		return 0
	}
	return d.engine.Evaluate(energy, mu)
}

func (d *Elastic) EvaluatePDF(energy, mu float64) float64 {
	if mu > d.cutoff {
		return 0
	}
	ratio := d.CutoffRatio(energy)
	if ratio <= 0 {
		return 0
	}
	return d.engine.EvaluatePDF(energy, mu) / ratio
}

func (d *Elastic) EvaluateCDF(energy, mu float64) float64 {
	if mu >= d.cutoff {
		if _, ok := d.engine.locate(energy); !ok {
			return 0
		}
		return 1
	}
	ratio := d.CutoffRatio(energy)
	if ratio <= 0 {
		return 0
	}
	return math.Min(d.engine.EvaluateCDF(energy, mu)/ratio, 1)
}

func (d *Elastic) clamp(mu float64) float64 {
	return math.Min(math.Max(mu, ElasticLowerBound), d.cutoff)
}

func (d *Elastic) Sample(energy float64, src rng.Source) float64 {
	return d.clamp(d.engine.SampleSecondaryConditionalInSubrange(energy, src, d.cutoff))
}

func (d *Elastic) SampleAndRecordTrials(energy float64, src rng.Source) (float64, int) {
	return d.Sample(energy, src), 1
}

func (d *Elastic) SampleWithRandomNumber(energy, r float64) float64 {
	return d.clamp(d.engine.SampleSecondaryConditionalWithRandomNumberInSubrange(energy, r, d.cutoff))
}

// SampleInSubrange samples angle cosines not above min(max, cutoff).
func (d *Elastic) SampleInSubrange(energy float64, src rng.Source, max float64) float64 {
	return d.clamp(d.engine.SampleSecondaryConditionalInSubrange(energy, src, math.Min(max, d.cutoff)))
}

func (d *Elastic) SampleWithRandomNumberInSubrange(energy, r, max float64) float64 {
	return d.clamp(d.engine.SampleSecondaryConditionalWithRandomNumberInSubrange(energy, r, math.Min(max, d.cutoff)))
}
