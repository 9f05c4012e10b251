package reaction

import (
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

// Bremsstrahlung emits a photon from an electron or positron. The adjoint
// form raises an adjoint electron's energy and may emit probes, which are not
// counted as emitted particles.
type Bremsstrahlung struct {
	base
	forward *scatter.Bremsstrahlung
	adjoint *scatter.BremsstrahlungAdjoint
}

var _ Reaction = (*Bremsstrahlung)(nil)

func NewBremsstrahlung(t particle.Type, table *xs.Table, d *scatter.Bremsstrahlung) (*Bremsstrahlung, error) {
	b, err := newBase(KindBremsstrahlung, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &Bremsstrahlung{base: b, forward: d}, nil
}

func NewAdjointBremsstrahlung(table *xs.Table, d *scatter.BremsstrahlungAdjoint) (*Bremsstrahlung, error) {
	b, err := newBase(KindBremsstrahlung, particle.AdjointElectron, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &Bremsstrahlung{base: b, adjoint: d}, nil
}

// Distribution returns the forward distribution, nil for the adjoint form.
func (r *Bremsstrahlung) Distribution() *scatter.Bremsstrahlung { return r.forward }

// AdjointDistribution returns the adjoint distribution, nil for the forward
// form.
func (r *Bremsstrahlung) AdjointDistribution() *scatter.BremsstrahlungAdjoint { return r.adjoint }

func (r *Bremsstrahlung) NumberOfEmittedPhotons(energy float64) int {
	if r.forward == nil || !r.active(energy) {
		return 0
	}
	return 1
}
