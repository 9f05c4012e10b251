// Package bivariate implements distributions of a secondary variable
// conditioned on a tabulated primary variable.
//
// An [Engine] holds one tabular distribution per primary grid point and
// answers evaluation and sampling queries between grid points according to
// its interpolation and grid policies. [Elastic] restricts an engine over
// angle cosines to values below a cutoff.
//
// Primary values outside the grid evaluate to zero unless the engine was
// built with [Extended]. Sampling outside a non-extended grid panics with a
// *contract.Violation wrapping contract.ErrOutOfRange.
package bivariate

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/grid"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/tabular"
)

// Engine is an immutable bivariate tabular distribution.
type Engine struct {
	primary []float64
	tables  []tabular.Distribution
	opts    options
}

// New builds an engine from a strictly increasing primary grid and one
// secondary distribution per grid point.
func New(primary []float64, secondaries []tabular.Distribution, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := grid.Validate(primary); err != nil {
		return nil, contract.Errorf("bivariate: primary grid: %v", err)
	}
	if len(primary) != len(secondaries) {
		return nil, contract.Errorf("bivariate: %d primary values but %d secondary distributions", len(primary), len(secondaries))
	}
	if !validTolerance(o.fuzzy) || !validTolerance(o.relTol) || !validTolerance(o.errTol) {
		return nil, contract.Errorf("bivariate: tolerances must lie in [0, 1)")
	}
	if o.relTol == 0 && o.errTol == 0 {
		return nil, contract.Errorf("bivariate: relative and absolute tolerance cannot both be zero")
	}
	if o.maxIter < 1 {
		return nil, contract.Errorf("bivariate: max iterations %d < 1", o.maxIter)
	}
	if o.grid < Direct || o.grid > UnitBaseCorrelated {
		return nil, contract.Errorf("bivariate: unknown grid policy %v", o.grid)
	}
	for _, x := range []float64{primary[0], primary[len(primary)-1]} {
		if !o.interp.X.Valid(x) {
			return nil, contract.Errorf("bivariate: primary value %g invalid for %v processing", x, o.interp.X)
		}
	}
	for i, d := range secondaries {
		if d == nil {
			return nil, contract.Errorf("bivariate: secondary distribution %d is nil", i)
		}
		if !o.interp.Y.Valid(d.LowerBound()) || !o.interp.Y.Valid(d.UpperBound()) {
			return nil, contract.Errorf("bivariate: secondary %d range [%g, %g] invalid for %v processing",
				i, d.LowerBound(), d.UpperBound(), o.interp.Y)
		}
		if o.grid.IsUnitBase() && !d.IsContinuous() {
			return nil, contract.Errorf("bivariate: %v needs continuous secondary distributions (%d is not)", o.grid, i)
		}
	}

	return &Engine{
		primary: append([]float64(nil), primary...),
		tables:  append([]tabular.Distribution(nil), secondaries...),
		opts:    o,
	}, nil
}

// Interp returns the interpolation policy.
func (e *Engine) Interp() interp.TwoD { return e.opts.interp }

// Grid returns the grid policy.
func (e *Engine) Grid() GridPolicy { return e.opts.grid }

// PrimaryGrid returns the primary grid. The slice must not be modified.
func (e *Engine) PrimaryGrid() []float64 { return e.primary }

// Secondary returns the distribution at primary grid point i.
func (e *Engine) Secondary(i int) tabular.Distribution { return e.tables[i] }

func (e *Engine) LowerBoundOfPrimaryIndepVar() float64 { return e.primary[0] }

func (e *Engine) UpperBoundOfPrimaryIndepVar() float64 { return e.primary[len(e.primary)-1] }

// LimitsExtended reports whether primary values outside the grid use the
// boundary tables.
func (e *Engine) LimitsExtended() bool { return e.opts.extended }

// bracket is a pair of tables around a primary value. lo == hi when the
// value sits on a grid point or beyond an extended edge.
type bracket struct {
	lo, hi int
	beta   float64
}

func (b bracket) single() bool { return b.lo == b.hi }

func (e *Engine) locate(x float64) (bracket, bool) {
	n := len(e.primary)
	first, last := e.primary[0], e.primary[n-1]
	switch {
	case x < first:
		if e.opts.extended || first-x <= e.opts.fuzzy*math.Abs(first) {
			return bracket{}, true
		}
		return bracket{}, false
	case x > last:
		if e.opts.extended || x-last <= e.opts.fuzzy*math.Abs(last) {
			return bracket{lo: n - 1, hi: n - 1}, true
		}
		return bracket{}, false
	case math.IsNaN(x):
		return bracket{}, false
	}

	i := grid.LowerBin(e.primary, x)
	if x == e.primary[i] {
		return bracket{lo: i, hi: i}, true
	}
	if x == e.primary[i+1] {
		return bracket{lo: i + 1, hi: i + 1}, true
	}
	beta := e.opts.interp.X.Fraction(e.primary[i], e.primary[i+1], x)
	return bracket{lo: i, hi: i + 1, beta: beta}, true
}

func (e *Engine) mustLocate(x float64) bracket {
	b, ok := e.locate(x)
	contract.InRange(ok, "primary value %g outside [%g, %g]", x, e.primary[0], e.primary[len(e.primary)-1])
	return b
}

type evalFunc func(tabular.Distribution, float64) float64

// Evaluate returns the interpolated unnormalized value at (x, y).
func (e *Engine) Evaluate(x, y float64) float64 {
	return e.evaluate(x, y, tabular.Distribution.Evaluate, false)
}

// EvaluatePDF returns the conditional density of y given x.
func (e *Engine) EvaluatePDF(x, y float64) float64 {
	return e.evaluate(x, y, tabular.Distribution.EvaluatePDF, true)
}

func (e *Engine) evaluate(x, y float64, f evalFunc, density bool) float64 {
	b, ok := e.locate(x)
	if !ok {
		return 0
	}
	if b.single() {
		return f(e.tables[b.lo], y)
	}

	switch e.opts.grid {
	case UnitBase:
		return e.unitBaseEvaluate(b, y, f)
	case Correlated, UnitBaseCorrelated:
		c := e.correlator(b)
		if density {
			return c.pdf(y)
		}
		return c.evaluate(y)
	default:
		d0, d1 := e.tables[b.lo], e.tables[b.hi]
		return e.opts.interp.Z.Blend(b.beta, f(d0, y), f(d1, y))
	}
}

// EvaluateCDF returns the conditional probability of a secondary value not
// above y given x.
func (e *Engine) EvaluateCDF(x, y float64) float64 {
	b, ok := e.locate(x)
	if !ok {
		return 0
	}
	if b.single() {
		return e.tables[b.lo].EvaluateCDF(y)
	}

	switch e.opts.grid {
	case UnitBase:
		return e.unitBaseCDF(b, y)
	case Correlated, UnitBaseCorrelated:
		c := e.correlator(b)
		return c.cdf(y)
	default:
		d0, d1 := e.tables[b.lo], e.tables[b.hi]
		return e.opts.interp.CDFPolicy().Z.Blend(b.beta, d0.EvaluateCDF(y), d1.EvaluateCDF(y))
	}
}

// LowerBoundOfConditionalIndepVar returns the lower edge of the secondary
// variable at x, interpolated between bracketing tables.
func (e *Engine) LowerBoundOfConditionalIndepVar(x float64) float64 {
	return e.bound(x, tabular.Distribution.LowerBound)
}

// UpperBoundOfConditionalIndepVar returns the upper edge of the secondary
// variable at x.
func (e *Engine) UpperBoundOfConditionalIndepVar(x float64) float64 {
	return e.bound(x, tabular.Distribution.UpperBound)
}

func (e *Engine) bound(x float64, f func(tabular.Distribution) float64) float64 {
	b, ok := e.locate(x)
	if !ok {
		return 0
	}
	if b.single() {
		return f(e.tables[b.lo])
	}
	return blendProcessed(e.opts.interp.Y, b.beta, f(e.tables[b.lo]), f(e.tables[b.hi]))
}

func blendProcessed(k interp.Kind, beta, y0, y1 float64) float64 {
	return k.Recover((1-beta)*k.Process(y0) + beta*k.Process(y1))
}

// SampleSecondaryConditional samples y given x.
func (e *Engine) SampleSecondaryConditional(x float64, src rng.Source) float64 {
	y, _, _ := e.sample(x, src, math.Inf(1))
	return y
}

// SampleSecondaryConditionalAndRecordTrials also reports the number of
// trials. Inversion sampling takes one trial; correlated policies always
// report one because the shared random number cannot be rejected on its own.
func (e *Engine) SampleSecondaryConditionalAndRecordTrials(x float64, src rng.Source) (float64, int) {
	y, _, _ := e.sample(x, src, math.Inf(1))
	return y, 1
}

// SampleSecondaryConditionalAndRecordBinIndices also reports the primary
// table sampled and the bin within it. Correlated policies report the lower
// table.
func (e *Engine) SampleSecondaryConditionalAndRecordBinIndices(x float64, src rng.Source) (y float64, primaryBin, secondaryBin int) {
	return e.sample(x, src, math.Inf(1))
}

// SampleSecondaryConditionalInSubrange samples y given x restricted to
// values not above max.
func (e *Engine) SampleSecondaryConditionalInSubrange(x float64, src rng.Source, max float64) float64 {
	y, _, _ := e.sample(x, src, max)
	return y
}

// SampleSecondaryConditionalWithRandomNumber samples y given x using r as
// the only random number. Stochastic grid policies fall back to their
// correlated counterpart so that the result is a function of r.
func (e *Engine) SampleSecondaryConditionalWithRandomNumber(x, r float64) float64 {
	return e.SampleSecondaryConditionalWithRandomNumberInSubrange(x, r, math.Inf(1))
}

// SampleSecondaryConditionalWithRandomNumberInSubrange combines the random
// number and subrange variants.
func (e *Engine) SampleSecondaryConditionalWithRandomNumberInSubrange(x, r, max float64) float64 {
	contract.Require(r >= 0 && r <= 1, "random number %g outside [0, 1]", r)
	b := e.mustLocate(x)
	if b.single() {
		y, _ := sampleTable(e.tables[b.lo], r, max)
		return y
	}
	c := e.correlatorFor(b, e.opts.grid.correlatedCounterpart())
	y, _ := c.sample(r, max)
	return y
}

func (e *Engine) sample(x float64, src rng.Source, max float64) (float64, int, int) {
	b := e.mustLocate(x)
	if b.single() {
		y, bin := sampleTable(e.tables[b.lo], src.Float64(), max)
		return y, b.lo, bin
	}

	switch e.opts.grid {
	case Correlated, UnitBaseCorrelated:
		c := e.correlator(b)
		y, bin := c.sample(src.Float64(), max)
		return y, b.lo, bin
	case UnitBase:
		return e.unitBaseSample(b, src, max)
	default:
		k := b.lo
		if src.Float64() < b.beta {
			k = b.hi
		}
		y, bin := sampleTable(e.tables[k], src.Float64(), max)
		return y, k, bin
	}
}

// sampleTable samples d with r, truncated to values not above max.
func sampleTable(d tabular.Distribution, r, max float64) (float64, int) {
	if max >= d.UpperBound() {
		return d.SampleAndRecordBinIndex(fixed(r))
	}
	if max <= d.LowerBound() {
		return math.Min(d.LowerBound(), max), 0
	}
	y, bin := d.SampleAndRecordBinIndex(fixed(r * d.EvaluateCDF(max)))
	return math.Min(y, max), bin
}

// fixed is a source that always returns the same number. It lets the
// bin-recording sampler of a table run on a caller-supplied random number.
type fixed float64

func (f fixed) Float64() float64 { return float64(f) }
