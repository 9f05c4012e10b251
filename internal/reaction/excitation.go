package reaction

import (
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

// AtomicExcitation loses or, for adjoint electrons, gains a tabulated energy
// without deflection.
type AtomicExcitation struct {
	base
	dist *scatter.AtomicExcitation
}

var _ Reaction = (*AtomicExcitation)(nil)

func NewAtomicExcitation(t particle.Type, table *xs.Table, d *scatter.AtomicExcitation) (*AtomicExcitation, error) {
	b, err := newBase(KindAtomicExcitation, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &AtomicExcitation{base: b, dist: d}, nil
}

func (r *AtomicExcitation) Distribution() *scatter.AtomicExcitation { return r.dist }
