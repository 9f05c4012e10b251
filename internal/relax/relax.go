// Package relax fills atomic vacancies by emitting fluorescence photons and
// Auger electrons.
//
// A SubshellModel performs one transition for a vacancy in its subshell. An
// Atom chains the models over the vacancies each transition leaves behind.
package relax

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/tabular"
)

// Vacancies are the subshells left empty by a transition. Secondary is
// InvalidSubshell or UnknownSubshell after a radiative transition.
type Vacancies struct {
	Primary   particle.Subshell
	Secondary particle.Subshell
}

// SubshellModel relaxes a vacancy in one subshell.
type SubshellModel interface {
	Subshell() particle.Subshell
	RelaxSubshell(p *particle.State, minPhoton, minElectron float64, bank *particle.Bank, src rng.Source) Vacancies
}

// Transition is one row of a subshell's transition table.
type Transition struct {
	Primary   particle.Subshell
	Secondary particle.Subshell
	Energy    float64
}

// Radiative reports whether the transition emits a photon.
func (t Transition) Radiative() bool {
	return t.Secondary == particle.InvalidSubshell || t.Secondary == particle.UnknownSubshell
}

// Detailed samples one transition from a weighted table.
type Detailed struct {
	vacancy     particle.Subshell
	transitions []Transition
	sampler     *tabular.Discrete
}

var _ SubshellModel = (*Detailed)(nil)

// NewDetailed builds the model for a vacancy in the given subshell. weights
// are per-transition probabilities, or a CDF when weightsAreCDF is set.
func NewDetailed(vacancy particle.Subshell, transitions []Transition, weights []float64, weightsAreCDF bool) (*Detailed, error) {
	if !vacancy.IsReal() {
		return nil, contract.Errorf("relax: %v is not a subshell", vacancy)
	}
	if len(transitions) == 0 {
		return nil, contract.Errorf("relax: %v has no transitions", vacancy)
	}
	if len(weights) != len(transitions) {
		return nil, contract.Errorf("relax: %d weights for %d transitions", len(weights), len(transitions))
	}
	for i, t := range transitions {
		if !(t.Energy >= 0) || math.IsInf(t.Energy, 0) {
			return nil, contract.Errorf("relax: transition %d energy %g", i, t.Energy)
		}
		if !t.Primary.IsReal() {
			return nil, contract.Errorf("relax: transition %d primary vacancy %v", i, t.Primary)
		}
	}
	sampler, err := tabular.NewIndexSampler(weights, weightsAreCDF)
	if err != nil {
		return nil, err
	}
	return &Detailed{
		vacancy:     vacancy,
		transitions: append([]Transition(nil), transitions...),
		sampler:     sampler,
	}, nil
}

func (d *Detailed) Subshell() particle.Subshell { return d.vacancy }

// Transitions returns the transition table.
func (d *Detailed) Transitions() []Transition { return d.transitions }

// RelaxSubshell samples a transition and emits its photon or Auger electron
// if the energy reaches the matching minimum. Emitted particles move
// isotropically; emissions below the minimum are deposited locally.
func (d *Detailed) RelaxSubshell(p *particle.State, minPhoton, minElectron float64, bank *particle.Bank, src rng.Source) Vacancies {
	t := d.transitions[d.sampler.SampleIndex(src)]

	kind, threshold := particle.Electron, minElectron
	if t.Radiative() {
		kind, threshold = particle.Photon, minPhoton
	}
	if t.Energy >= threshold {
		emitIsotropic(p, kind, t.Energy, bank, src)
	}
	return Vacancies{Primary: t.Primary, Secondary: t.Secondary}
}

func emitIsotropic(p *particle.State, kind particle.Type, energy float64, bank *particle.Bank, src rng.Source) {
	mu := 2*src.Float64() - 1
	phi := 2 * math.Pi * src.Float64()
	contract.Ensure(mu >= -1 && mu <= 1, "emission angle cosine %g", mu)
	contract.Ensure(phi >= 0 && phi <= 2*math.Pi, "emission azimuth %g", phi)

	s := p.NewSecondary(kind, energy)
	s.SetDirectionFromAngles(mu, phi)
	bank.Push(s)
}

// Void is the model for subshells without transition data. It emits nothing
// and leaves no vacancies.
type Void struct {
	Shell particle.Subshell
}

var _ SubshellModel = Void{}

func (v Void) Subshell() particle.Subshell { return v.Shell }

func (Void) RelaxSubshell(*particle.State, float64, float64, *particle.Bank, rng.Source) Vacancies {
	return Vacancies{Primary: particle.InvalidSubshell, Secondary: particle.InvalidSubshell}
}
