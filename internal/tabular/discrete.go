package tabular

import (
	"math"
	"sort"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/rng"
)

// Discrete is a weighted set of points.
type Discrete struct {
	points  []float64
	weights []float64
	cdf     []float64
	norm    float64
}

var _ Distribution = (*Discrete)(nil)

// NewDiscrete builds a point distribution from non-negative weights.
func NewDiscrete(points, weights []float64) (*Discrete, error) {
	if err := checkLengths(points, weights); err != nil {
		return nil, err
	}
	if len(points) > 1 {
		if err := checkPoints(points); err != nil {
			return nil, err
		}
	}

	d := &Discrete{
		points:  clone(points),
		weights: clone(weights),
		cdf:     make([]float64, len(points)),
	}
	sum := 0.0
	for i, w := range weights {
		sum += w
		d.cdf[i] = sum
	}
	if sum <= 0 {
		return nil, contract.Errorf("tabular: discrete weights sum to %g", sum)
	}
	d.norm = sum
	for i := range d.cdf {
		d.cdf[i] /= sum
	}
	d.cdf[len(d.cdf)-1] = 1
	return d, nil
}

// NewDiscreteFromCDF builds a point distribution from non-decreasing
// cumulative weights.
func NewDiscreteFromCDF(points, cdf []float64) (*Discrete, error) {
	if err := checkLengths(points, cdf); err != nil {
		return nil, err
	}
	weights := make([]float64, len(cdf))
	prev := 0.0
	for i, c := range cdf {
		if c < prev {
			return nil, contract.Errorf("tabular: cdf decreases at %d", i)
		}
		weights[i] = c - prev
		prev = c
	}
	return NewDiscrete(points, weights)
}

// NewIndexSampler returns a distribution over the indices 0..len(weights)-1.
func NewIndexSampler(weights []float64, weightsAreCDF bool) (*Discrete, error) {
	idx := make([]float64, len(weights))
	for i := range idx {
		idx[i] = float64(i)
	}
	if weightsAreCDF {
		return NewDiscreteFromCDF(idx, weights)
	}
	return NewDiscrete(idx, weights)
}

func (d *Discrete) find(x float64) (int, bool) {
	i := sort.SearchFloat64s(d.points, x)
	return i, i < len(d.points) && d.points[i] == x
}

// Evaluate returns the input weight of the point at x, zero elsewhere.
func (d *Discrete) Evaluate(x float64) float64 {
	if i, ok := d.find(x); ok {
		return d.weights[i]
	}
	return 0
}

// EvaluatePDF returns the probability mass at x.
func (d *Discrete) EvaluatePDF(x float64) float64 {
	return d.Evaluate(x) / d.norm
}

func (d *Discrete) EvaluateCDF(x float64) float64 {
	i := sort.Search(len(d.points), func(k int) bool { return d.points[k] > x })
	if i == 0 {
		return 0
	}
	return d.cdf[i-1]
}

// SampleIndexWithRandomNumber returns the index of the sampled point.
func (d *Discrete) SampleIndexWithRandomNumber(r float64) int {
	checkRandom(r)
	i := sort.Search(len(d.cdf), func(k int) bool { return d.cdf[k] > r })
	if i == len(d.cdf) {
		i--
	}
	return i
}

func (d *Discrete) SampleIndex(src rng.Source) int {
	return d.SampleIndexWithRandomNumber(src.Float64())
}

func (d *Discrete) Sample(src rng.Source) float64 {
	return d.points[d.SampleIndex(src)]
}

func (d *Discrete) SampleAndRecordTrials(src rng.Source) (float64, int) {
	return d.Sample(src), 1
}

func (d *Discrete) SampleAndRecordBinIndex(src rng.Source) (float64, int) {
	i := d.SampleIndex(src)
	return d.points[i], i
}

func (d *Discrete) SampleWithRandomNumber(r float64) float64 {
	return d.points[d.SampleIndexWithRandomNumber(r)]
}

func (d *Discrete) SampleInSubrange(src rng.Source, max float64) float64 {
	return d.SampleWithRandomNumberInSubrange(src.Float64(), max)
}

func (d *Discrete) SampleWithRandomNumberInSubrange(r, max float64) float64 {
	checkRandom(r)
	contract.Require(max >= d.LowerBound(), "subrange max %g below lower bound %g", max, d.LowerBound())
	x := d.points[d.SampleIndexWithRandomNumber(r*d.EvaluateCDF(max))]
	return math.Min(x, max)
}

func (d *Discrete) LowerBound() float64 { return d.points[0] }
func (d *Discrete) UpperBound() float64 { return d.points[len(d.points)-1] }
func (d *Discrete) IsContinuous() bool  { return false }

// Len returns the number of points.
func (d *Discrete) Len() int { return len(d.points) }
