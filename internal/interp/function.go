package interp

import (
	"fmt"
	"sort"
)

// Function is a tabulated y(x) interpolated with a OneD policy. It is
// immutable after construction.
type Function struct {
	x, y   []float64
	policy OneD
}

// NewFunction validates the table: at least two strictly increasing x values,
// matching lengths, and values the policy can process.
func NewFunction(x, y []float64, policy OneD) (*Function, error) {
	if len(x) < 2 || len(x) != len(y) {
		return nil, fmt.Errorf("interp: function needs matching tables of at least 2 points, got %d and %d", len(x), len(y))
	}
	for i := range x {
		if i > 0 && x[i] <= x[i-1] {
			return nil, fmt.Errorf("interp: x not strictly increasing at %d", i)
		}
		if !policy.Indep.Valid(x[i]) || !policy.Dep.Valid(y[i]) {
			return nil, fmt.Errorf("interp: point (%g, %g) invalid for %v", x[i], y[i], policy)
		}
	}
	return &Function{
		x:      append([]float64(nil), x...),
		y:      append([]float64(nil), y...),
		policy: policy,
	}, nil
}

// Evaluate returns y(x), or zero outside the table.
func (f *Function) Evaluate(x float64) float64 {
	n := len(f.x)
	if !(x >= f.x[0] && x <= f.x[n-1]) {
		return 0
	}
	i := sort.Search(n, func(k int) bool { return f.x[k] > x }) - 1
	if i >= n-1 {
		return f.y[n-1]
	}
	if x == f.x[i] {
		return f.y[i]
	}
	return f.policy.Interpolate(f.x[i], f.x[i+1], x, f.y[i], f.y[i+1])
}

func (f *Function) LowerBound() float64 { return f.x[0] }
func (f *Function) UpperBound() float64 { return f.x[len(f.x)-1] }
