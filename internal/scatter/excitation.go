package scatter

import (
	"math"

	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

// AtomicExcitation removes a tabulated energy loss without deflecting the
// particle. The adjoint form adds the loss instead.
type AtomicExcitation struct {
	loss *interp.Function
}

var (
	_ Sampler                  = (*AtomicExcitation)(nil)
	_ ElectronScatterer        = (*AtomicExcitation)(nil)
	_ PositronScatterer        = (*AtomicExcitation)(nil)
	_ AdjointElectronScatterer = (*AtomicExcitation)(nil)
)

// NewAtomicExcitation uses loss(E) as the energy lost at incoming energy E.
func NewAtomicExcitation(loss *interp.Function) *AtomicExcitation {
	return &AtomicExcitation{loss: loss}
}

// EnergyLoss returns the energy lost at the given incoming energy. The loss
// never exceeds the energy itself.
func (d *AtomicExcitation) EnergyLoss(energy float64) float64 {
	return math.Min(d.loss.Evaluate(energy), energy)
}

func (d *AtomicExcitation) Sample(energy float64, _ rng.Source) Outgoing {
	return Outgoing{Energy: energy - d.EnergyLoss(energy), AngleCosine: 1}
}

func (d *AtomicExcitation) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	return d.Sample(energy, src), 1
}

func (d *AtomicExcitation) ScatterElectron(p *particle.State, _ *particle.Bank, src rng.Source) particle.Subshell {
	p.Energy = d.Sample(p.Energy, src).Energy
	return particle.UnknownSubshell
}

func (d *AtomicExcitation) ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}

func (d *AtomicExcitation) ScatterAdjointElectron(p *particle.State, _ *particle.Bank, _ rng.Source) particle.Subshell {
	p.Energy += d.loss.Evaluate(p.Energy)
	return particle.UnknownSubshell
}
