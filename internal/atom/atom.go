// Package atom assembles the reactions of one element for one incoming
// particle type and samples collisions against them.
package atom

import (
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/relax"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/xs"
)

// Atom is immutable after construction and safe to share between
// goroutines.
type Atom struct {
	z          int
	symbol     string
	particle   particle.Type
	grid       *xs.EnergyGrid
	reactions  []reaction.Reaction
	relaxation *relax.Atom
}

// Collision records what one call to Collide did.
type Collision struct {
	Reaction reaction.Kind
	Subshell particle.Subshell
	// Transitions is the number of relaxation transitions that followed.
	Transitions int
}

func (a *Atom) Z() int { return a.z }

func (a *Atom) Symbol() string { return a.symbol }

// Particle is the incoming particle type every reaction expects.
func (a *Atom) Particle() particle.Type { return a.particle }

func (a *Atom) Grid() *xs.EnergyGrid { return a.grid }

// Reactions returns the reactions in construction order. The slice must not
// be modified.
func (a *Atom) Reactions() []reaction.Reaction { return a.reactions }

// Reaction returns the first reaction of the given kind.
func (a *Atom) Reaction(kind reaction.Kind) (reaction.Reaction, bool) {
	for _, r := range a.reactions {
		if r.Kind() == kind {
			return r, true
		}
	}
	return nil, false
}

func (a *Atom) Relaxation() *relax.Atom { return a.relaxation }

// TotalCrossSection sums every reaction at energy, in barns.
func (a *Atom) TotalCrossSection(energy float64) float64 {
	var total float64
	for _, r := range a.reactions {
		total += r.CrossSection(energy)
	}
	return total
}

// Collide picks a reaction with probability proportional to its cross
// section, reacts, and relaxes the ionized subshell if there is one. It
// reports false when no reaction is open at the particle's energy.
func (a *Atom) Collide(p *particle.State, bank *particle.Bank, src rng.Source) (Collision, bool) {
	contract.Require(p.Type == a.particle, "%s %v atom cannot collide a %v", a.symbol, a.particle, p.Type)

	energy := p.Energy
	total := a.TotalCrossSection(energy)
	if !(total > 0) {
		return Collision{}, false
	}

	target := src.Float64() * total
	chosen := a.reactions[len(a.reactions)-1]
	var partial float64
	for _, r := range a.reactions {
		partial += r.CrossSection(energy)
		if target < partial {
			chosen = r
			break
		}
	}

	c := Collision{Reaction: chosen.Kind()}
	c.Subshell = chosen.React(p, bank, src)
	if c.Subshell.IsReal() {
		c.Transitions = a.relaxation.Relax(p, c.Subshell, bank, src)
	}
	return c, true
}
