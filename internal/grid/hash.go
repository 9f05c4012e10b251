package grid

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/interp"
)

// DefaultHashBins is the hash index resolution used when none is configured.
const DefaultHashBins = 1000

// HashSearcher finds grid bins in O(1) amortized time. A coarse uniform index
// in processed space (log by default) narrows every lookup to the few grid
// bins overlapping one hash bin before a short binary search.
type HashSearcher struct {
	grid     []float64
	kind     interp.Kind
	min      float64
	width    float64
	bins     int
	startBin []int
}

// HashOption customizes a HashSearcher.
type HashOption func(*HashSearcher)

// LinearHashing indexes the grid in linear rather than logarithmic space.
func LinearHashing() HashOption {
	return func(s *HashSearcher) { s.kind = interp.Lin }
}

// NewHashSearcher indexes g with the given number of hash bins. The grid is
// referenced, not copied, and must not be modified afterwards.
func NewHashSearcher(g []float64, bins int, opts ...HashOption) (*HashSearcher, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}
	if bins < 1 {
		return nil, contract.Errorf("hash searcher needs at least 1 bin, got %d", bins)
	}

	s := &HashSearcher{grid: g, kind: interp.Log, bins: bins}
	for _, opt := range opts {
		opt(s)
	}
	if s.kind == interp.Log && g[0] <= 0 {
		return nil, contract.Errorf("log hashing needs a positive grid, first point is %g", g[0])
	}

	s.min = s.kind.Process(g[0])
	s.width = (s.kind.Process(g[len(g)-1]) - s.min) / float64(bins)

	s.startBin = make([]int, bins+1)
	last := len(g) - 2
	for h := 0; h <= bins; h++ {
		edge := s.kind.Recover(s.min + float64(h)*s.width)
		edge = math.Min(math.Max(edge, g[0]), g[len(g)-1])
		s.startBin[h] = lowerBinIn(g, edge, 0, last)
	}

	return s, nil
}

// Grid returns the indexed grid.
func (s *HashSearcher) Grid() []float64 { return s.grid }

// Bins returns the number of hash bins.
func (s *HashSearcher) Bins() int { return s.bins }

// IsInRange reports whether x lies inside the grid limits.
func (s *HashSearcher) IsInRange(x float64) bool {
	return x >= s.grid[0] && x <= s.grid[len(s.grid)-1]
}

// IsOnBoundary reports whether x equals one of the grid limits.
func (s *HashSearcher) IsOnBoundary(x float64) bool {
	return x == s.grid[0] || x == s.grid[len(s.grid)-1]
}

// Bin returns i such that grid[i] <= x < grid[i+1]; the last grid point maps to
// the last bin. x must be in range.
func (s *HashSearcher) Bin(x float64) int {
	contract.InRange(s.IsInRange(x), "value %g outside grid [%g, %g]", x, s.grid[0], s.grid[len(s.grid)-1])

	h := int((s.kind.Process(x) - s.min) / s.width)
	if h >= s.bins {
		h = s.bins - 1
	}
	if h < 0 {
		h = 0
	}

	// widen by one bin on each side to absorb rounding at hash edges
	last := len(s.grid) - 2
	lo := s.startBin[h] - 1
	if lo < 0 {
		lo = 0
	}
	hi := s.startBin[h+1] + 1
	if hi > last {
		hi = last
	}
	return lowerBinIn(s.grid, x, lo, hi)
}
