package tabular

import (
	"math"
	"sort"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/grid"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/rng"
)

// Continuous is a piecewise density defined on tabulated points. Densities
// given as (value, PDF) pairs are interpolated LinLin or LogLog and sampled by
// analytic inversion of the integrated CDF. Tables given as (value, CDF)
// pairs are treated as piecewise-linear CDFs.
type Continuous struct {
	x      []float64
	raw    []float64
	pdf    []float64
	cdf    []float64
	slope  []float64
	norm   float64
	policy interp.OneD
	step   bool
}

var _ Distribution = (*Continuous)(nil)

// NewContinuous builds a distribution from unnormalized density values.
// Only LinLin and LogLog policies are supported; LogLog needs strictly
// positive values and densities.
func NewContinuous(x, pdf []float64, policy interp.OneD) (*Continuous, error) {
	if err := checkLengths(x, pdf); err != nil {
		return nil, err
	}
	if err := checkPoints(x); err != nil {
		return nil, err
	}
	switch policy {
	case interp.LinLin:
	case interp.LogLog:
		for i := range x {
			if x[i] <= 0 || pdf[i] <= 0 {
				return nil, contract.Errorf("tabular: log-log table needs positive entries, got (%g, %g) at %d", x[i], pdf[i], i)
			}
		}
	default:
		return nil, contract.Errorf("tabular: unsupported policy %v", policy)
	}

	c := &Continuous{x: clone(x), raw: clone(pdf), policy: policy}
	c.integrate()
	if c.norm <= 0 {
		return nil, contract.Errorf("tabular: density integrates to %g", c.norm)
	}
	return c, nil
}

// NewContinuousFromCDF builds a distribution from cumulative values, which
// must be non-decreasing. The density is constant between points.
func NewContinuousFromCDF(x, cdf []float64) (*Continuous, error) {
	if err := checkLengths(x, cdf); err != nil {
		return nil, err
	}
	if err := checkPoints(x); err != nil {
		return nil, err
	}
	for i := 1; i < len(cdf); i++ {
		if cdf[i] < cdf[i-1] {
			return nil, contract.Errorf("tabular: cdf decreases at %d", i)
		}
	}
	n := len(x)
	norm := cdf[n-1] - cdf[0]
	if norm <= 0 {
		return nil, contract.Errorf("tabular: cdf spans no probability")
	}

	c := &Continuous{
		x:      clone(x),
		raw:    make([]float64, n),
		pdf:    make([]float64, n),
		cdf:    make([]float64, n),
		slope:  make([]float64, n-1),
		norm:   norm,
		policy: interp.LinLin,
		step:   true,
	}
	for i := 0; i < n; i++ {
		c.cdf[i] = (cdf[i] - cdf[0]) / norm
	}
	c.cdf[n-1] = 1
	for i := 0; i < n-1; i++ {
		c.pdf[i] = (c.cdf[i+1] - c.cdf[i]) / (x[i+1] - x[i])
		c.raw[i] = c.pdf[i] * norm
	}
	c.pdf[n-1] = c.pdf[n-2]
	c.raw[n-1] = c.raw[n-2]
	return c, nil
}

func (c *Continuous) integrate() {
	n := len(c.x)
	c.cdf = make([]float64, n)
	c.slope = make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		if c.policy == interp.LogLog {
			b := math.Log(c.raw[i+1]/c.raw[i]) / math.Log(c.x[i+1]/c.x[i])
			c.slope[i] = b
			c.cdf[i+1] = c.cdf[i] + logLogIntegral(c.x[i], c.raw[i], c.x[i+1], b)
			continue
		}
		dx := c.x[i+1] - c.x[i]
		c.slope[i] = (c.raw[i+1] - c.raw[i]) / dx
		c.cdf[i+1] = c.cdf[i] + 0.5*dx*(c.raw[i]+c.raw[i+1])
	}

	c.norm = c.cdf[n-1]
	if c.norm <= 0 {
		return
	}
	c.pdf = make([]float64, n)
	for i := range c.x {
		c.pdf[i] = c.raw[i] / c.norm
		c.cdf[i] /= c.norm
	}
	c.cdf[n-1] = 1
	if c.policy == interp.LinLin {
		for i := range c.slope {
			c.slope[i] /= c.norm
		}
	}
}

// logLogIntegral integrates p0*(t/x0)^b from x0 to x.
func logLogIntegral(x0, p0, x, b float64) float64 {
	if math.Abs(b+1) < 1e-12 {
		return p0 * x0 * math.Log(x/x0)
	}
	return p0 * x0 / (b + 1) * (math.Pow(x/x0, b+1) - 1)
}

// Evaluate returns the interpolated input density at x, zero outside the
// table.
func (c *Continuous) Evaluate(x float64) float64 {
	return c.density(x, c.raw)
}

// EvaluatePDF returns the normalized density at x.
func (c *Continuous) EvaluatePDF(x float64) float64 {
	return c.density(x, c.pdf)
}

func (c *Continuous) density(x float64, values []float64) float64 {
	n := len(c.x)
	if x < c.x[0] || x > c.x[n-1] {
		return 0
	}
	i := grid.LowerBin(c.x, x)
	if c.step || x == c.x[i] {
		return values[i]
	}
	if c.policy == interp.LogLog {
		return values[i] * math.Pow(x/c.x[i], c.slope[i])
	}
	return values[i] + (values[i+1]-values[i])*(x-c.x[i])/(c.x[i+1]-c.x[i])
}

// EvaluateCDF returns the probability of a value not above x.
func (c *Continuous) EvaluateCDF(x float64) float64 {
	n := len(c.x)
	if x <= c.x[0] {
		return 0
	}
	if x >= c.x[n-1] {
		return 1
	}
	i := grid.LowerBin(c.x, x)
	dx := x - c.x[i]
	switch {
	case c.step:
		return c.cdf[i] + c.pdf[i]*dx
	case c.policy == interp.LogLog:
		return c.cdf[i] + logLogIntegral(c.x[i], c.pdf[i], x, c.slope[i])
	default:
		return c.cdf[i] + dx*(c.pdf[i]+0.5*c.slope[i]*dx)
	}
}

func (c *Continuous) invert(r float64) (float64, int) {
	n := len(c.cdf)
	i := sort.Search(n, func(k int) bool { return c.cdf[k] > r }) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}

	dr := r - c.cdf[i]
	if dr <= 0 {
		return c.x[i], i
	}
	p := c.pdf[i]

	var x float64
	switch {
	case c.step:
		if p > 0 {
			x = c.x[i] + dr/p
		} else {
			x = c.x[i]
		}
	case c.policy == interp.LogLog:
		b := c.slope[i]
		if math.Abs(b+1) < 1e-12 {
			x = c.x[i] * math.Exp(dr/(p*c.x[i]))
		} else {
			x = c.x[i] * math.Pow(1+dr*(b+1)/(p*c.x[i]), 1/(b+1))
		}
	default:
		den := p + math.Sqrt(math.Max(0, p*p+2*c.slope[i]*dr))
		if den > 0 {
			x = c.x[i] + 2*dr/den
		} else {
			x = c.x[i]
		}
	}
	return math.Min(math.Max(x, c.x[i]), c.x[i+1]), i
}

func (c *Continuous) Sample(src rng.Source) float64 {
	x, _ := c.invert(src.Float64())
	return x
}

// SampleAndRecordTrials samples by inversion, which always takes one trial.
func (c *Continuous) SampleAndRecordTrials(src rng.Source) (float64, int) {
	return c.Sample(src), 1
}

// SampleAndRecordBinIndex also returns the table bin the sample fell in.
func (c *Continuous) SampleAndRecordBinIndex(src rng.Source) (float64, int) {
	return c.invert(src.Float64())
}

func (c *Continuous) SampleWithRandomNumber(r float64) float64 {
	checkRandom(r)
	x, _ := c.invert(r)
	return x
}

func (c *Continuous) SampleInSubrange(src rng.Source, max float64) float64 {
	return c.SampleWithRandomNumberInSubrange(src.Float64(), max)
}

// SampleWithRandomNumberInSubrange samples the distribution truncated to
// values not above max.
func (c *Continuous) SampleWithRandomNumberInSubrange(r, max float64) float64 {
	checkRandom(r)
	contract.Require(max >= c.LowerBound(), "subrange max %g below lower bound %g", max, c.LowerBound())
	if max >= c.UpperBound() {
		x, _ := c.invert(r)
		return x
	}
	x, _ := c.invert(r * c.EvaluateCDF(max))
	return math.Min(x, max)
}

func (c *Continuous) LowerBound() float64 { return c.x[0] }
func (c *Continuous) UpperBound() float64 { return c.x[len(c.x)-1] }
func (c *Continuous) IsContinuous() bool  { return true }

// Norm returns the integral of the input density.
func (c *Continuous) Norm() float64 { return c.norm }
