// Package grid locates values on strictly increasing grids.
package grid

import (
	"sort"

	"github.com/san-kum/radsim/internal/contract"
)

// Validate checks that g has at least two strictly increasing points.
func Validate(g []float64) error {
	if len(g) < 2 {
		return contract.Errorf("grid needs at least 2 points, has %d", len(g))
	}
	for i := 1; i < len(g); i++ {
		if !(g[i] > g[i-1]) {
			return contract.Errorf("grid not strictly increasing at index %d (%g <= %g)", i, g[i], g[i-1])
		}
	}
	return nil
}

// LowerBin returns i such that g[i] <= x < g[i+1]. A value equal to the last
// grid point maps to the last bin. x must lie inside [g[0], g[len-1]].
func LowerBin(g []float64, x float64) int {
	n := len(g)
	contract.InRange(x >= g[0] && x <= g[n-1], "value %g outside grid [%g, %g]", x, g[0], g[n-1])
	return lowerBinIn(g, x, 0, n-2)
}

// lowerBinIn searches bins lo..hi inclusive.
func lowerBinIn(g []float64, x float64, lo, hi int) int {
	// first bin whose upper edge is above x
	i := lo + sort.Search(hi-lo+1, func(k int) bool {
		return g[lo+k+1] > x
	})
	if i > hi {
		return hi
	}
	return i
}
