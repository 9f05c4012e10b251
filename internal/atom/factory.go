package atom

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/logging"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/relax"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

// NewElectroatom builds the electron reactions enabled in props.
func NewElectroatom(data *dataset.Electroatom, props *properties.Properties, logger *slog.Logger) (*Atom, error) {
	return newForward(particle.Electron, data, props, logger)
}

// NewPositronatom builds the positron reactions enabled in props. Positrons
// share the electron data and process switches.
func NewPositronatom(data *dataset.Electroatom, props *properties.Properties, logger *slog.Logger) (*Atom, error) {
	return newForward(particle.Positron, data, props, logger)
}

// New dispatches on props.Particle.
func New(data *dataset.Electroatom, props *properties.Properties, logger *slog.Logger) (*Atom, error) {
	switch props.Particle {
	case particle.Electron:
		return NewElectroatom(data, props, logger)
	case particle.Positron:
		return NewPositronatom(data, props, logger)
	case particle.AdjointElectron:
		return NewAdjointElectroatom(data, props, logger)
	}
	return nil, contract.Errorf("atom: no factory for %v", props.Particle)
}

// physics is the per-particle subset of the properties a builder needs.
type physics struct {
	interp  interp.TwoD
	grid    bivariate.GridPolicy
	tol     float64
	seltzer bool
}

func newBuilder(data *dataset.Electroatom, props *properties.Properties, ph physics, logger *slog.Logger) (*builder, error) {
	if data == nil || props == nil {
		return nil, contract.Errorf("atom: nil data or properties")
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if err := props.Validate(); err != nil {
		return nil, err
	}
	grid, err := xs.NewEnergyGrid(data.Energies, props.HashBins)
	if err != nil {
		return nil, err
	}
	return &builder{
		data:    data,
		grid:    grid,
		policy:  crossSectionPolicy(ph.interp),
		interp:  ph.interp,
		layout:  ph.grid,
		tol:     ph.tol,
		seltzer: ph.seltzer,
		logger:  logging.OrDiscard(logger).With("atom", data.Symbol),
	}, nil
}

func newForward(t particle.Type, data *dataset.Electroatom, props *properties.Properties, logger *slog.Logger) (*Atom, error) {
	e := props.Electron
	b, err := newBuilder(data, props, physics{e.Interp, e.Grid, e.EvaluationTolerance, e.SeltzerModification}, logger)
	if err != nil {
		return nil, err
	}

	a := &Atom{z: data.Z, symbol: data.Symbol, particle: t, grid: b.grid}
	if e.Elastic {
		rs, err := b.elastic(t, e.ElasticMode, e.CutoffAngleCosine)
		if err != nil {
			return nil, fmt.Errorf("atom: %s elastic: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, rs...)
	}
	if e.Bremsstrahlung {
		r, err := b.bremsstrahlung(t, e.BremsstrahlungAngular)
		if err != nil {
			return nil, fmt.Errorf("atom: %s bremsstrahlung: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, r)
	}
	if e.Electroionization {
		rs, err := b.electroionization(t)
		if err != nil {
			return nil, fmt.Errorf("atom: %s electroionization: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, rs...)
	}
	if e.AtomicExcitation {
		r, err := b.excitation(t, data.Excitation)
		if err != nil {
			return nil, fmt.Errorf("atom: %s excitation: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, r)
	}

	var models []relax.SubshellModel
	if e.AtomicRelaxation {
		if models, err = b.relaxation(); err != nil {
			return nil, fmt.Errorf("atom: %s relaxation: %w", data.Symbol, err)
		}
	}
	if a.relaxation, err = relax.NewAtom(models, props.MinPhotonEnergy, props.MinElectronEnergy); err != nil {
		return nil, err
	}
	return b.finish(a)
}

// NewAdjointElectroatom builds the adjoint electron reactions enabled in
// props. Adjoint atoms never relax.
func NewAdjointElectroatom(data *dataset.Electroatom, props *properties.Properties, logger *slog.Logger) (*Atom, error) {
	ad := props.Adjoint
	b, err := newBuilder(data, props, physics{ad.Interp, ad.Grid, ad.EvaluationTolerance, ad.SeltzerModification}, logger)
	if err != nil {
		return nil, err
	}

	t := particle.AdjointElectron
	a := &Atom{z: data.Z, symbol: data.Symbol, particle: t, grid: b.grid}
	if ad.Elastic {
		rs, err := b.elastic(t, ad.ElasticMode, ad.CutoffAngleCosine)
		if err != nil {
			return nil, fmt.Errorf("atom: %s adjoint elastic: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, rs...)
	}
	if ad.Bremsstrahlung {
		r, err := b.adjointBremsstrahlung(ad.CriticalLineEnergies)
		if err != nil {
			return nil, fmt.Errorf("atom: %s adjoint bremsstrahlung: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, r)
	}
	if ad.AtomicExcitation {
		r, err := b.excitation(t, data.Adjoint.Excitation)
		if err != nil {
			return nil, fmt.Errorf("atom: %s adjoint excitation: %w", data.Symbol, err)
		}
		a.reactions = append(a.reactions, r)
	}

	if a.relaxation, err = relax.NewAtom(nil, props.MinPhotonEnergy, props.MinElectronEnergy); err != nil {
		return nil, err
	}
	return b.finish(a)
}

func (b *builder) finish(a *Atom) (*Atom, error) {
	if len(a.reactions) == 0 {
		return nil, contract.Errorf("atom: %s has no %v reactions enabled", a.symbol, a.particle)
	}
	for _, r := range a.reactions {
		b.logger.Debug("reaction",
			"particle", a.particle,
			"kind", r.Kind(),
			"threshold", r.ThresholdEnergy(),
			"max", r.MaxEnergy(),
		)
	}
	b.logger.Debug("atom ready", "particle", a.particle, "reactions", len(a.reactions), "grid", a.grid.Len())
	return a, nil
}

func (b *builder) rutherford() (*scatter.ScreenedRutherfordElastic, error) {
	return scatter.NewScreenedRutherfordElastic(b.data.Z, scatter.MuPeak, b.seltzer)
}

func (b *builder) cutoffElastic(engine *bivariate.Engine, cutoff float64, tail *scatter.ScreenedRutherfordElastic) (*scatter.CutoffElastic, error) {
	dist, err := bivariate.NewElastic(engine, cutoff)
	if err != nil {
		return nil, err
	}
	return scatter.NewCutoffElastic(dist, tail)
}

// elastic builds the reactions for one elastic mode.
func (b *builder) elastic(t particle.Type, mode properties.ElasticMode, cutoff float64) ([]reaction.Reaction, error) {
	el := b.data.Elastic
	total, err := b.table(el.Total)
	if err != nil {
		return nil, err
	}
	engine, err := b.angularEngine()
	if err != nil {
		return nil, err
	}
	rutherford, err := b.rutherford()
	if err != nil {
		return nil, err
	}
	b.logger.Debug("elastic", "particle", t, "mode", mode, "cutoff", cutoff)

	switch mode {
	case properties.Coupled:
		d, err := b.cutoffElastic(engine, 1, rutherford)
		if err != nil {
			return nil, err
		}
		r, err := reaction.NewCoupledElastic(t, total, d)
		return one(r, err)

	case properties.Decoupled:
		cutoffTable, err := b.table(el.Cutoff)
		if err != nil {
			return nil, err
		}
		d, err := b.cutoffElastic(engine, scatter.MuPeak, nil)
		if err != nil {
			return nil, err
		}
		r, err := reaction.NewDecoupledElastic(t, total, cutoffTable, d, rutherford)
		return one(r, err)

	case properties.Cutoff:
		d, err := b.cutoffElastic(engine, cutoff, nil)
		if err != nil {
			return nil, err
		}
		r, err := reaction.NewCutoffElastic(t, total, d)
		return one(r, err)

	case properties.Rutherford:
		if el.Cutoff.Threshold != el.Total.Threshold {
			return nil, contract.Errorf("atom: cutoff and total elastic thresholds differ")
		}
		values := make([]float64, len(el.Total.Values))
		for i := range values {
			values[i] = math.Max(el.Total.Values[i]-el.Cutoff.Values[i], 0)
		}
		table, err := b.table(dataset.CrossSection{Threshold: el.Total.Threshold, Values: values})
		if err != nil {
			return nil, err
		}
		r, err := reaction.NewScreenedRutherfordElastic(t, table, rutherford)
		return one(r, err)

	case properties.Hybrid, properties.MomentPreserving:
		mp := el.MomentPreserving
		if len(mp.Angles) == 0 {
			return nil, contract.Errorf("atom: no moment preserving data")
		}
		if math.Abs(mp.CutoffAngleCosine-cutoff) > 1e-12 {
			return nil, contract.Errorf("atom: moment preserving data is for cutoff %g, not %g", mp.CutoffAngleCosine, cutoff)
		}
		mpTable, err := b.table(mp.CrossSection)
		if err != nil {
			return nil, err
		}
		below, err := b.cutoffElastic(engine, cutoff, nil)
		if err != nil {
			return nil, err
		}

		if mode == properties.Hybrid {
			hybrid, err := b.hybridEngine(cutoff, total, mpTable)
			if err != nil {
				return nil, err
			}
			d, err := scatter.NewHybridElastic(hybrid, cutoff)
			if err != nil {
				return nil, err
			}
			r, err := reaction.NewHybridElastic(t, total, mpTable, below, d)
			return one(r, err)
		}

		cut, err := reaction.NewCutoffElastic(t, total, below)
		if err != nil {
			return nil, err
		}
		angles, err := b.momentPreservingEngine()
		if err != nil {
			return nil, err
		}
		d, err := scatter.NewMomentPreservingElastic(angles)
		if err != nil {
			return nil, err
		}
		tail, err := reaction.NewMomentPreservingElastic(t, mpTable, d)
		if err != nil {
			return nil, err
		}
		return []reaction.Reaction{cut, tail}, nil
	}
	return nil, contract.Errorf("atom: unknown elastic mode %v", mode)
}

func one[R reaction.Reaction](r R, err error) ([]reaction.Reaction, error) {
	if err != nil {
		return nil, err
	}
	return []reaction.Reaction{r}, nil
}

func (b *builder) bremsstrahlung(t particle.Type, model scatter.PhotonAngular) (reaction.Reaction, error) {
	br := b.data.Bremsstrahlung
	table, err := b.table(br.CrossSection)
	if err != nil {
		return nil, err
	}
	energy, err := b.engine(br.Spectra, interp.LogLog, b.interp, b.layout)
	if err != nil {
		return nil, err
	}

	var opt scatter.BremsstrahlungOption
	switch model {
	case scatter.Dipole:
		opt = scatter.WithDipole()
	case scatter.Tabular:
		angle, err := b.engine(br.Angular, interp.LinLin, angular(b.interp), b.layout)
		if err != nil {
			return nil, err
		}
		opt = scatter.WithTabularAngle(angle)
	default:
		opt = scatter.WithTwoBS(b.data.Z)
	}
	d, err := scatter.NewBremsstrahlung(energy, opt)
	if err != nil {
		return nil, err
	}
	return reaction.NewBremsstrahlung(t, table, d)
}

func (b *builder) adjointBremsstrahlung(lines []float64) (reaction.Reaction, error) {
	br := b.data.Adjoint.Bremsstrahlung
	table, err := b.table(br.CrossSection)
	if err != nil {
		return nil, err
	}
	gain, err := b.engine(br.Gain, interp.LogLog, b.interp, b.layout)
	if err != nil {
		return nil, err
	}
	d, err := scatter.NewBremsstrahlungAdjoint(gain, lines)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("adjoint bremsstrahlung", "lines", len(lines))
	return reaction.NewAdjointBremsstrahlung(table, d)
}

func (b *builder) electroionization(t particle.Type) ([]reaction.Reaction, error) {
	var out []reaction.Reaction
	for _, s := range b.data.Subshells {
		table, err := b.table(s.CrossSection)
		if err != nil {
			return nil, err
		}
		knockOn, err := b.engine(s.KnockOn, interp.LogLog, b.interp, b.layout)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", s.Subshell, err)
		}
		d, err := scatter.NewElectroionizationSubshell(knockOn, s.Subshell, s.BindingEnergy)
		if err != nil {
			return nil, err
		}
		r, err := reaction.NewElectroionizationSubshell(t, table, d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (b *builder) excitation(t particle.Type, ex dataset.Excitation) (reaction.Reaction, error) {
	table, err := b.table(ex.CrossSection)
	if err != nil {
		return nil, err
	}
	loss, err := interp.NewFunction(ex.LossEnergies, ex.Loss, b.policy)
	if err != nil {
		return nil, err
	}
	return reaction.NewAtomicExcitation(t, table, scatter.NewAtomicExcitation(loss))
}

func (b *builder) relaxation() ([]relax.SubshellModel, error) {
	models := make([]relax.SubshellModel, 0, len(b.data.Relaxation))
	for _, r := range b.data.Relaxation {
		transitions := make([]relax.Transition, len(r.Transitions))
		weights := make([]float64, len(r.Transitions))
		for i, tr := range r.Transitions {
			transitions[i] = relax.Transition{Primary: tr.Primary, Secondary: tr.Secondary, Energy: tr.Energy}
			weights[i] = tr.Weight
		}
		d, err := relax.NewDetailed(r.Vacancy, transitions, weights, false)
		if err != nil {
			return nil, err
		}
		models = append(models, d)
	}
	return models, nil
}
