// Package tabular implements one-dimensional tabulated distributions over a
// secondary variable (an angle cosine or an energy).
//
// Construction validates the tables and returns an error wrapping
// contract.ErrPrecondition. After construction a distribution is immutable
// and safe to share between goroutines.
package tabular

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/grid"
	"github.com/san-kum/radsim/internal/rng"
)

// Distribution is a tabulated distribution of a single variable.
type Distribution interface {
	// Evaluate returns the unnormalized tabulated value at x.
	Evaluate(x float64) float64
	EvaluatePDF(x float64) float64
	EvaluateCDF(x float64) float64

	Sample(src rng.Source) float64
	SampleAndRecordTrials(src rng.Source) (float64, int)
	SampleAndRecordBinIndex(src rng.Source) (float64, int)
	SampleWithRandomNumber(r float64) float64
	SampleInSubrange(src rng.Source, max float64) float64
	SampleWithRandomNumberInSubrange(r, max float64) float64

	LowerBound() float64
	UpperBound() float64

	// IsContinuous reports whether the distribution has a density everywhere
	// on its support. Distributions with point masses report false.
	IsContinuous() bool
}

func checkPoints(x []float64) error {
	if err := grid.Validate(x); err != nil {
		return contract.Errorf("tabular: %v", err)
	}
	return nil
}

func checkLengths(x, y []float64) error {
	if len(x) == 0 {
		return contract.Errorf("tabular: empty table")
	}
	if len(x) != len(y) {
		return contract.Errorf("tabular: %d values but %d dependent values", len(x), len(y))
	}
	for i, v := range y {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return contract.Errorf("tabular: dependent value %d is %g", i, v)
		}
	}
	return nil
}

func checkRandom(r float64) {
	contract.Require(r >= 0 && r <= 1, "random number %g outside [0, 1]", r)
}

func clone(s []float64) []float64 {
	return append([]float64(nil), s...)
}
