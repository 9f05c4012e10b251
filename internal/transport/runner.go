// Package transport runs analogue histories through an infinite medium of
// one element. A history follows the source particle and every banked
// secondary that has an atom for its type. Particles without an atom are
// scored as escaped.
package transport

import (
	"log/slog"

	"github.com/san-kum/radsim/internal/atom"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/logging"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/rng"
)

type Runner struct {
	source  *atom.Atom
	atoms   map[particle.Type]*atom.Atom
	metrics []Metric
	pool    *BankPool
	logger  *slog.Logger
}

// New runs histories of source's particle type. others transport the
// secondaries of their own types.
func New(source *atom.Atom, others ...*atom.Atom) (*Runner, error) {
	if source == nil {
		return nil, contract.Errorf("transport: nil source atom")
	}
	r := &Runner{
		source: source,
		atoms:  map[particle.Type]*atom.Atom{source.Particle(): source},
		pool:   NewBankPool(),
		logger: logging.Discard(),
	}
	for _, a := range others {
		if _, dup := r.atoms[a.Particle()]; dup {
			return nil, contract.Errorf("transport: two atoms for %v", a.Particle())
		}
		r.atoms[a.Particle()] = a
	}
	return r, nil
}

// NewFromProperties builds the atoms a run of props.Particle needs: the
// source atom and, for positrons, an electron atom for the knock-ons.
func NewFromProperties(data *dataset.Electroatom, props *properties.Properties, logger *slog.Logger) (*Runner, error) {
	source, err := atom.New(data, props, logger)
	if err != nil {
		return nil, err
	}
	var others []*atom.Atom
	if props.Particle == particle.Positron {
		electrons, err := atom.NewElectroatom(data, props, logger)
		if err != nil {
			return nil, err
		}
		others = append(others, electrons)
	}
	r, err := New(source, others...)
	if err != nil {
		return nil, err
	}
	r.SetLogger(logger)
	return r, nil
}

func (r *Runner) SetLogger(l *slog.Logger) { r.logger = logging.OrDiscard(l) }

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

// Source is the atom of the source particle.
func (r *Runner) Source() *atom.Atom { return r.source }

// RunHistory runs one history. bank must be empty and is empty again on
// return.
func (r *Runner) RunHistory(history int64, cfg Config, src rng.Source, bank *particle.Bank) HistoryTally {
	if cfg.MaxCollisions <= 0 {
		cfg.MaxCollisions = DefaultMaxCollisions
	}
	t := HistoryTally{History: history, FirstCosine: 1}
	r.follow(particle.NewState(r.source.Particle(), cfg.Energy, history), cfg, bank, src, &t)
	for !bank.IsEmpty() {
		r.follow(bank.Pop(), cfg, bank, src, &t)
	}
	return t
}

func (r *Runner) follow(p *particle.State, cfg Config, bank *particle.Bank, src rng.Source, t *HistoryTally) {
	if p.IsProbe() {
		t.scoreLine(p.Energy, p.Weight)
		return
	}
	a, ok := r.atoms[p.Type]
	if !ok {
		t.Escaped += p.Weight * p.Energy
		return
	}

	for n := 0; ; n++ {
		switch {
		case p.Energy < cfg.MinElectronEnergy:
			t.Deposited += p.Weight * p.Energy
			return
		case p.Type.IsAdjoint() && cfg.MaxEnergy > 0 && p.Energy > cfg.MaxEnergy:
			t.Escaped += p.Weight * p.Energy
			return
		case n >= cfg.MaxCollisions:
			t.Truncated++
			t.Deposited += p.Weight * p.Energy
			return
		}

		before := bank.Len()
		c, ok := a.Collide(p, bank, src)
		if !ok {
			t.Deposited += p.Weight * p.Energy
			return
		}
		t.Collisions++
		t.Transitions += c.Transitions
		if t.Reactions == nil {
			t.Reactions = make(map[reaction.Kind]int)
		}
		t.Reactions[c.Reaction]++
		if p.Generation == 0 && p.CollisionNumber == 1 {
			t.FirstCosine = p.Direction.Z
			t.Scattered = true
		}
		for _, s := range bank.Pending()[before:] {
			t.countSecondary(s)
		}
	}
}
