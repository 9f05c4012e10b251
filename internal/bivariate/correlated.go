package bivariate

import (
	"math"

	"github.com/san-kum/radsim/internal/tabular"
)

// correlator combines two bracketing tables sampled with the same random
// number. In unit-base mode the combination happens on the eta scale.
type correlator struct {
	e     *Engine
	beta  float64
	d     [2]tabular.Distribution
	unit  bool
	frame frame
}

func (e *Engine) correlator(b bracket) correlator {
	return e.correlatorFor(b, e.opts.grid)
}

func (e *Engine) correlatorFor(b bracket, g GridPolicy) correlator {
	c := correlator{
		e:    e,
		beta: b.beta,
		d:    [2]tabular.Distribution{e.tables[b.lo], e.tables[b.hi]},
		unit: g.IsUnitBase(),
	}
	if c.unit {
		c.frame = e.frame(b)
	}
	return c
}

func (c *correlator) combine(y0, y1 float64) float64 {
	if !c.unit {
		return blendProcessed(c.e.opts.interp.Y, c.beta, y0, y1)
	}
	eta := (1-c.beta)*c.frame.etaIn(0, y0) + c.beta*c.frame.etaIn(1, y1)
	return c.frame.value(clampUnit(eta))
}

func (c *correlator) at(r float64) (y, y0, y1 float64) {
	y0 = c.d[0].SampleWithRandomNumber(r)
	y1 = c.d[1].SampleWithRandomNumber(r)
	return c.combine(y0, y1), y0, y1
}

func (c *correlator) lower() float64 {
	return c.combine(c.d[0].LowerBound(), c.d[1].LowerBound())
}

func (c *correlator) upper() float64 {
	return c.combine(c.d[0].UpperBound(), c.d[1].UpperBound())
}

// sample returns the combined value at r, restricted to values not above
// max, and the bin of the lower table.
func (c *correlator) sample(r, max float64) (float64, int) {
	if max >= c.upper() {
		y0, bin := c.d[0].SampleAndRecordBinIndex(fixed(r))
		y1 := c.d[1].SampleWithRandomNumber(r)
		return c.combine(y0, y1), bin
	}

	m0, m1 := max, max
	if c.unit {
		etaMax := clampUnit(c.frame.eta(max))
		m0, m1 = c.frame.valueIn(0, etaMax), c.frame.valueIn(1, etaMax)
	}
	y0, bin := sampleTable(c.d[0], r, m0)
	y1, _ := sampleTable(c.d[1], r, m1)
	return math.Min(c.combine(y0, y1), max), bin
}

// invert finds the random number whose combined value is y by bisection.
// It reports false when y lies outside the combined support.
func (c *correlator) invert(y float64) (float64, bool) {
	if !(y >= c.lower()) {
		return 0, false
	}
	if y > c.upper() {
		return 1, false
	}

	opts := c.e.opts
	yk := opts.interp.Y
	target := yk.Process(y)
	tol := opts.relTol*math.Abs(target) + opts.errTol

	lo, hi := 0.0, 1.0
	r := 0.5
	for i := 0; i < opts.maxIter; i++ {
		r = 0.5 * (lo + hi)
		if r == lo || r == hi {
			break
		}
		ym, _, _ := c.at(r)
		if math.Abs(yk.Process(ym)-target) <= tol {
			break
		}
		if ym < y {
			lo = r
		} else {
			hi = r
		}
	}
	return r, true
}

// cdf is the random number that maps to y, which is the probability of a
// value not above y.
func (c *correlator) cdf(y float64) float64 {
	r, _ := c.invert(y)
	return r
}

// pdf is dr/dy of the combined value.
func (c *correlator) pdf(y float64) float64 {
	r, ok := c.invert(y)
	if !ok {
		return 0
	}
	_, y0, y1 := c.at(r)
	p0 := c.d[0].EvaluatePDF(y0)
	p1 := c.d[1].EvaluatePDF(y1)
	if p0 <= 0 || p1 <= 0 {
		return 0
	}

	yk := c.e.opts.interp.Y
	if !c.unit {
		return yk.Deriv(y) / ((1-c.beta)*yk.Deriv(y0)/p0 + c.beta*yk.Deriv(y1)/p1)
	}
	g0 := p0 * c.frame.stretch(0, y0)
	g1 := p1 * c.frame.stretch(1, y1)
	return yk.Deriv(y) / c.frame.width / ((1-c.beta)/g0 + c.beta/g1)
}

// evaluate interpolates the unnormalized tabulated values at the matched
// secondary values.
func (c *correlator) evaluate(y float64) float64 {
	r, ok := c.invert(y)
	if !ok {
		return 0
	}
	_, y0, y1 := c.at(r)
	z := c.e.opts.interp.Z
	if !c.unit {
		return z.Blend(c.beta, c.d[0].Evaluate(y0), c.d[1].Evaluate(y1))
	}
	g0 := c.d[0].Evaluate(y0) * c.frame.stretch(0, y0)
	g1 := c.d[1].Evaluate(y1) * c.frame.stretch(1, y1)
	return z.Blend(c.beta, g0, g1) * c.frame.y.Deriv(y) / c.frame.width
}
