package reaction

import (
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

// ElectroionizationSubshell knocks an electron out of one subshell and
// reports that subshell so the vacancy can be relaxed.
type ElectroionizationSubshell struct {
	base
	dist *scatter.ElectroionizationSubshell
}

var _ Reaction = (*ElectroionizationSubshell)(nil)

func NewElectroionizationSubshell(t particle.Type, table *xs.Table, d *scatter.ElectroionizationSubshell) (*ElectroionizationSubshell, error) {
	b, err := newBase(KindElectroionizationSubshell, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &ElectroionizationSubshell{base: b, dist: d}, nil
}

func (r *ElectroionizationSubshell) Distribution() *scatter.ElectroionizationSubshell { return r.dist }

// Subshell is the ionized subshell.
func (r *ElectroionizationSubshell) Subshell() particle.Subshell { return r.dist.Subshell() }

// NumberOfEmittedElectrons counts the knock-on electron plus an incoming
// electron.
func (r *ElectroionizationSubshell) NumberOfEmittedElectrons(energy float64) int {
	if !r.active(energy) {
		return 0
	}
	if r.particle == particle.Electron {
		return 2
	}
	return 1
}
