// Package xs holds cross sections tabulated on a shared energy grid.
//
// An EnergyGrid is built once per atom and referenced by every Table on it;
// the energies are never copied.
package xs

import (
	"github.com/san-kum/radsim/internal/grid"
)

// EnergyGrid is an immutable energy grid (MeV) with an O(1) bin searcher.
type EnergyGrid struct {
	energies []float64
	searcher *grid.HashSearcher
}

// NewEnergyGrid indexes energies with the given number of hash bins. The
// slice is owned by the grid afterwards.
func NewEnergyGrid(energies []float64, hashBins int) (*EnergyGrid, error) {
	s, err := grid.NewHashSearcher(energies, hashBins)
	if err != nil {
		return nil, err
	}
	return &EnergyGrid{energies: energies, searcher: s}, nil
}

func (g *EnergyGrid) Energies() []float64 { return g.energies }

func (g *EnergyGrid) Len() int { return len(g.energies) }

func (g *EnergyGrid) Energy(i int) float64 { return g.energies[i] }

func (g *EnergyGrid) Min() float64 { return g.energies[0] }

func (g *EnergyGrid) Max() float64 { return g.energies[len(g.energies)-1] }

// IsInRange reports whether energy lies inside the grid.
func (g *EnergyGrid) IsInRange(energy float64) bool { return g.searcher.IsInRange(energy) }

// Bin returns the lower grid index bracketing energy, which must be in range.
func (g *EnergyGrid) Bin(energy float64) int { return g.searcher.Bin(energy) }

// Searcher exposes the underlying hash searcher.
func (g *EnergyGrid) Searcher() *grid.HashSearcher { return g.searcher }
