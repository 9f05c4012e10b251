package xs

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/interp"
)

// Table is a cross section (b) on an EnergyGrid starting at a threshold
// index. Values[i] belongs to grid energy threshold+i.
type Table struct {
	grid      *EnergyGrid
	values    []float64
	threshold int
	policy    interp.OneD
}

// NewTable checks that values cover the grid from threshold to the end and
// are non-negative. policy must be LinLin or LogLog.
func NewTable(g *EnergyGrid, values []float64, threshold int, policy interp.OneD) (*Table, error) {
	if g == nil {
		return nil, contract.Errorf("xs: nil energy grid")
	}
	if threshold < 0 || threshold >= g.Len() {
		return nil, contract.Errorf("xs: threshold index %d outside grid of %d points", threshold, g.Len())
	}
	if len(values) != g.Len()-threshold {
		return nil, contract.Errorf("xs: %d cross section values for %d grid points above threshold", len(values), g.Len()-threshold)
	}
	for i, v := range values {
		if !(v >= 0) || math.IsInf(v, 0) {
			return nil, contract.Errorf("xs: cross section %g at index %d", v, i)
		}
	}
	if policy != interp.LinLin && policy != interp.LogLog {
		return nil, contract.Errorf("xs: unsupported cross section interpolation %v", policy)
	}
	return &Table{grid: g, values: values, threshold: threshold, policy: policy}, nil
}

func (t *Table) Grid() *EnergyGrid { return t.grid }

// ThresholdIndex is the grid index of the first tabulated value.
func (t *Table) ThresholdIndex() int { return t.threshold }

// ThresholdEnergy is the lowest energy with a tabulated value.
func (t *Table) ThresholdEnergy() float64 { return t.grid.Energy(t.threshold) }

// MaxEnergy is the top of the grid.
func (t *Table) MaxEnergy() float64 { return t.grid.Max() }

// Values returns the tabulated values starting at the threshold.
func (t *Table) Values() []float64 { return t.values }

// CrossSection returns the interpolated value, zero below threshold and
// outside the grid.
func (t *Table) CrossSection(energy float64) float64 {
	if !(energy >= t.ThresholdEnergy()) || energy > t.grid.Max() {
		return 0
	}
	return t.CrossSectionInBin(energy, t.grid.Bin(energy))
}

// CrossSectionInBin is CrossSection with the grid bin already located, so a
// caller evaluating many tables on one grid searches once.
func (t *Table) CrossSectionInBin(energy float64, bin int) float64 {
	if bin < t.threshold {
		return 0
	}
	i := bin - t.threshold
	if i >= len(t.values)-1 {
		return t.values[len(t.values)-1]
	}
	e0, e1 := t.grid.Energy(bin), t.grid.Energy(bin+1)
	if energy == e0 {
		return t.values[i]
	}
	return t.policy.Interpolate(e0, e1, energy, t.values[i], t.values[i+1])
}

// Sum adds tables on the same grid. The result starts at the lowest
// threshold.
func Sum(policy interp.OneD, tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, contract.Errorf("xs: nothing to sum")
	}
	g := tables[0].grid
	threshold := tables[0].threshold
	for _, t := range tables[1:] {
		if t.grid != g {
			return nil, contract.Errorf("xs: cannot sum tables on different grids")
		}
		threshold = min(threshold, t.threshold)
	}
	values := make([]float64, g.Len()-threshold)
	for _, t := range tables {
		for i, v := range t.values {
			values[t.threshold-threshold+i] += v
		}
	}
	return NewTable(g, values, threshold, policy)
}
