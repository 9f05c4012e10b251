package relax

import (
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

// maxTransitions bounds one cascade.
const maxTransitions = 1 << 10

// Atom relaxes a vacancy through every transition it triggers until no
// vacancy with transition data remains.
type Atom struct {
	models      map[particle.Subshell]SubshellModel
	minPhoton   float64
	minElectron float64
}

// NewAtom indexes models by subshell. Emission minimums are in MeV.
func NewAtom(models []SubshellModel, minPhoton, minElectron float64) (*Atom, error) {
	if minPhoton < 0 || minElectron < 0 {
		return nil, contract.Errorf("relax: negative minimum energy (%g, %g)", minPhoton, minElectron)
	}
	a := &Atom{
		models:      make(map[particle.Subshell]SubshellModel, len(models)),
		minPhoton:   minPhoton,
		minElectron: minElectron,
	}
	for _, m := range models {
		if _, dup := a.models[m.Subshell()]; dup {
			return nil, contract.Errorf("relax: two models for %v", m.Subshell())
		}
		a.models[m.Subshell()] = m
	}
	return a, nil
}

// Model returns the subshell model, or Void when the shell has no data.
func (a *Atom) Model(shell particle.Subshell) SubshellModel {
	if m, ok := a.models[shell]; ok {
		return m
	}
	return Void{Shell: shell}
}

// Relax fills vacancy and every vacancy it leaves behind, pushing emitted
// particles to bank. It returns the number of transitions performed.
func (a *Atom) Relax(p *particle.State, vacancy particle.Subshell, bank *particle.Bank, src rng.Source) int {
	queue := []particle.Subshell{vacancy}
	n := 0
	for len(queue) > 0 && n < maxTransitions {
		shell := queue[0]
		queue = queue[1:]

		m, ok := a.models[shell]
		if !ok {
			continue
		}
		v := m.RelaxSubshell(p, a.minPhoton, a.minElectron, bank, src)
		n++
		for _, s := range []particle.Subshell{v.Primary, v.Secondary} {
			if s.IsReal() {
				queue = append(queue, s)
			}
		}
	}
	return n
}
