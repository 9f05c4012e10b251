// Package reaction pairs a cross section with a scattering distribution for
// one incoming particle type.
//
// Reactions are immutable once built and may be shared between goroutines.
// React mutates only the particle, the bank and the random source it is
// given.
package reaction

import (
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

// Reaction is the common contract of every reaction.
type Reaction interface {
	Kind() Kind
	// Particle is the incoming particle type.
	Particle() particle.Type
	CrossSection(energy float64) float64
	ThresholdEnergy() float64
	MaxEnergy() float64
	NumberOfEmittedElectrons(energy float64) int
	NumberOfEmittedPhotons(energy float64) int
	NumberOfEmittedPositrons(energy float64) int
	// React samples the collision, updates p, pushes any secondaries to bank
	// and returns the subshell of interaction.
	React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell
}

// Differential is implemented by reactions with a continuous angular
// density.
type Differential interface {
	Reaction
	DifferentialCrossSection(energy, mu float64) float64
}

type scatterFunc func(*particle.State, *particle.Bank, rng.Source) particle.Subshell

// bind picks the scatter method of d matching the incoming particle type.
func bind(t particle.Type, d any) (scatterFunc, error) {
	switch t {
	case particle.Electron:
		if s, ok := d.(scatter.ElectronScatterer); ok {
			return s.ScatterElectron, nil
		}
	case particle.Positron:
		if s, ok := d.(scatter.PositronScatterer); ok {
			return s.ScatterPositron, nil
		}
	case particle.AdjointElectron:
		if s, ok := d.(scatter.AdjointElectronScatterer); ok {
			return s.ScatterAdjointElectron, nil
		}
	}
	return nil, contract.Errorf("reaction: %T cannot scatter %v", d, t)
}

// base holds the fields every reaction shares.
type base struct {
	kind      Kind
	particle  particle.Type
	table     *xs.Table
	threshold float64
	scatter   scatterFunc
}

func newBase(kind Kind, t particle.Type, table *xs.Table, d any) (base, error) {
	if table == nil {
		return base{}, contract.Errorf("reaction: %v needs a cross section", kind)
	}
	if d == nil {
		return base{}, contract.Errorf("reaction: %v needs a distribution", kind)
	}
	fn, err := bind(t, d)
	if err != nil {
		return base{}, err
	}
	return base{kind: kind, particle: t, table: table, threshold: table.ThresholdEnergy(), scatter: fn}, nil
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Particle() particle.Type { return b.particle }

func (b *base) CrossSection(energy float64) float64 { return b.table.CrossSection(energy) }

func (b *base) ThresholdEnergy() float64 { return b.threshold }

func (b *base) MaxEnergy() float64 { return b.table.MaxEnergy() }

func (b *base) active(energy float64) bool {
	return energy >= b.ThresholdEnergy() && energy <= b.MaxEnergy()
}

// primaryCounts reports the incoming particle as the single emitted
// particle of its species. Adjoint electrons count as electrons.
func (b *base) primaryCounts(energy float64) (electrons, photons, positrons int) {
	if !b.active(energy) {
		return 0, 0, 0
	}
	if b.particle == particle.Positron {
		return 0, 0, 1
	}
	return 1, 0, 0
}

func (b *base) NumberOfEmittedElectrons(energy float64) int {
	n, _, _ := b.primaryCounts(energy)
	return n
}

func (b *base) NumberOfEmittedPhotons(energy float64) int { return 0 }

func (b *base) NumberOfEmittedPositrons(energy float64) int {
	_, _, n := b.primaryCounts(energy)
	return n
}

func (b *base) checkParticle(p *particle.State) {
	contract.Require(p.Type == b.particle, "%v reaction for %v given %v", b.kind, b.particle, p.Type)
}

func (b *base) React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	b.checkParticle(p)
	shell := b.scatter(p, bank, src)
	p.IncrementCollisionNumber()
	return shell
}

// nilable turns a nil pointer into a nil interface value.
func nilable[T any](d *T) any {
	if d == nil {
		return nil
	}
	return d
}

// sameGrid checks that tables share one energy grid.
func sameGrid(tables ...*xs.Table) error {
	for _, t := range tables {
		if t == nil {
			return contract.Errorf("reaction: nil cross section")
		}
		if t.Grid() != tables[0].Grid() {
			return contract.Errorf("reaction: cross sections on different energy grids")
		}
	}
	return nil
}
