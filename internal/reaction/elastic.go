package reaction

import (
	"math"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
	"github.com/san-kum/radsim/internal/scatter"
	"github.com/san-kum/radsim/internal/xs"
)

// Elastic reactions never change the particle energy and always report
// particle.UnknownSubshell.

// CutoffElastic scatters with the tabulated distribution below the cutoff
// angle cosine. Its cross section is the tabulated cutoff cross section
// scaled by the fraction of the distribution below the cutoff.
type CutoffElastic struct {
	base
	dist *scatter.CutoffElastic
}

var _ Differential = (*CutoffElastic)(nil)

func NewCutoffElastic(t particle.Type, table *xs.Table, d *scatter.CutoffElastic) (*CutoffElastic, error) {
	b, err := newBase(KindCutoffElastic, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &CutoffElastic{base: b, dist: d}, nil
}

// NewCoupledElastic builds the full elastic reaction: the tabulated
// distribution covers every angle and d must carry the screened Rutherford
// tail used above scatter.MuPeak.
func NewCoupledElastic(t particle.Type, table *xs.Table, d *scatter.CutoffElastic) (*CutoffElastic, error) {
	if d != nil && d.CutoffAngleCosine() != 1 {
		return nil, contract.Errorf("reaction: coupled elastic needs a cutoff angle cosine of 1, got %g", d.CutoffAngleCosine())
	}
	b, err := newBase(KindCoupledElastic, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &CutoffElastic{base: b, dist: d}, nil
}

func (r *CutoffElastic) Distribution() *scatter.CutoffElastic { return r.dist }

func (r *CutoffElastic) CrossSection(energy float64) float64 {
	sigma := r.table.CrossSection(energy)
	if sigma == 0 || r.dist.CutoffAngleCosine() == 1 {
		return sigma
	}
	return sigma * r.dist.CutoffRatio(energy)
}

func (r *CutoffElastic) DifferentialCrossSection(energy, mu float64) float64 {
	sigma := r.CrossSection(energy)
	if sigma == 0 {
		return 0
	}
	return r.dist.EvaluatePDF(energy, mu) * sigma
}

func (r *CutoffElastic) React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	r.base.React(p, bank, src)
	return particle.UnknownSubshell
}

// ScreenedRutherfordElastic scatters above the cutoff angle cosine with the
// analytic screened Rutherford distribution.
type ScreenedRutherfordElastic struct {
	base
	dist *scatter.ScreenedRutherfordElastic
}

var _ Differential = (*ScreenedRutherfordElastic)(nil)

func NewScreenedRutherfordElastic(t particle.Type, table *xs.Table, d *scatter.ScreenedRutherfordElastic) (*ScreenedRutherfordElastic, error) {
	b, err := newBase(KindScreenedRutherfordElastic, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &ScreenedRutherfordElastic{base: b, dist: d}, nil
}

func (r *ScreenedRutherfordElastic) Distribution() *scatter.ScreenedRutherfordElastic { return r.dist }

func (r *ScreenedRutherfordElastic) DifferentialCrossSection(energy, mu float64) float64 {
	sigma := r.CrossSection(energy)
	if sigma == 0 {
		return 0
	}
	return r.dist.EvaluatePDF(energy, mu) * sigma
}

func (r *ScreenedRutherfordElastic) React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	r.base.React(p, bank, src)
	return particle.UnknownSubshell
}

// MomentPreservingElastic scatters through discrete angles. It has no
// differential cross section.
type MomentPreservingElastic struct {
	base
	dist *scatter.MomentPreservingElastic
}

var _ Reaction = (*MomentPreservingElastic)(nil)

func NewMomentPreservingElastic(t particle.Type, table *xs.Table, d *scatter.MomentPreservingElastic) (*MomentPreservingElastic, error) {
	b, err := newBase(KindMomentPreservingElastic, t, table, nilable(d))
	if err != nil {
		return nil, err
	}
	return &MomentPreservingElastic{base: b, dist: d}, nil
}

func (r *MomentPreservingElastic) Distribution() *scatter.MomentPreservingElastic { return r.dist }

func (r *MomentPreservingElastic) React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	r.base.React(p, bank, src)
	return particle.UnknownSubshell
}

// DecoupledElastic carries the total elastic cross section and routes each
// collision either to the tabulated cutoff distribution or to the screened
// Rutherford distribution with probability SamplingRatio.
type DecoupledElastic struct {
	base
	cutoff     *xs.Table
	tabular    *scatter.CutoffElastic
	rutherford *scatter.ScreenedRutherfordElastic
	tail       scatterFunc
}

var _ Differential = (*DecoupledElastic)(nil)

// NewDecoupledElastic builds the reaction from the total and cutoff cross
// sections, which must share an energy grid.
func NewDecoupledElastic(t particle.Type, total, cutoff *xs.Table, tabular *scatter.CutoffElastic, rutherford *scatter.ScreenedRutherfordElastic) (*DecoupledElastic, error) {
	if err := sameGrid(total, cutoff); err != nil {
		return nil, err
	}
	b, err := newBase(KindDecoupledElastic, t, total, nilable(tabular))
	if err != nil {
		return nil, err
	}
	tail, err := bind(t, nilable(rutherford))
	if err != nil {
		return nil, err
	}
	return &DecoupledElastic{base: b, cutoff: cutoff, tabular: tabular, rutherford: rutherford, tail: tail}, nil
}

func (r *DecoupledElastic) Tabular() *scatter.CutoffElastic { return r.tabular }

func (r *DecoupledElastic) Rutherford() *scatter.ScreenedRutherfordElastic { return r.rutherford }

// crossSections returns the total and cutoff cross sections with one grid
// search.
func (r *DecoupledElastic) crossSections(energy float64) (total, cutoff float64) {
	g := r.table.Grid()
	if !g.IsInRange(energy) {
		return 0, 0
	}
	bin := g.Bin(energy)
	return r.table.CrossSectionInBin(energy, bin), r.cutoff.CrossSectionInBin(energy, bin)
}

// CutoffCrossSection is the tabulated cutoff elastic cross section.
func (r *DecoupledElastic) CutoffCrossSection(energy float64) float64 {
	_, cutoff := r.crossSections(energy)
	return cutoff
}

// SamplingRatio is min(1, cutoff/total). Interpolation noise at table edges
// can push the raw ratio above one. With no total cross section every
// collision goes to the tabulated distribution.
func (r *DecoupledElastic) SamplingRatio(energy float64) float64 {
	total, cutoff := r.crossSections(energy)
	if total <= 0 {
		return 1
	}
	ratio := math.Min(1, cutoff/total)
	contract.Ensure(ratio >= 0 && ratio <= 1, "sampling ratio %g outside [0, 1] at %g MeV", ratio, energy)
	return ratio
}

// DifferentialCrossSection answers from the tabulated distribution up to its
// cutoff and from the screened Rutherford distribution above it.
func (r *DecoupledElastic) DifferentialCrossSection(energy, mu float64) float64 {
	total, cutoff := r.crossSections(energy)
	if total == 0 {
		return 0
	}
	if mu <= r.tabular.CutoffAngleCosine() {
		return r.tabular.EvaluatePDF(energy, mu) * cutoff
	}
	return r.rutherford.EvaluatePDF(energy, mu) * math.Max(total-cutoff, 0)
}

func (r *DecoupledElastic) React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	r.checkParticle(p)
	if src.Float64() < r.SamplingRatio(p.Energy) {
		r.scatter(p, bank, src)
	} else {
		r.tail(p, bank, src)
	}
	p.IncrementCollisionNumber()
	return particle.UnknownSubshell
}

// HybridElastic samples one distribution mixing tabulated angles below the
// cutoff with moment preserving angles above it. Its cross section is the
// reduced cutoff cross section plus the moment preserving cross section.
type HybridElastic struct {
	base
	mp     *xs.Table
	cutoff *scatter.CutoffElastic
	dist   *scatter.HybridElastic
}

var _ Reaction = (*HybridElastic)(nil)

// NewHybridElastic takes the full cutoff cross section, the moment
// preserving cross section and the cutoff distribution used for the ratio.
func NewHybridElastic(t particle.Type, cutoffTable, mpTable *xs.Table, cutoff *scatter.CutoffElastic, d *scatter.HybridElastic) (*HybridElastic, error) {
	if err := sameGrid(cutoffTable, mpTable); err != nil {
		return nil, err
	}
	if cutoff == nil {
		return nil, contract.Errorf("reaction: hybrid elastic needs the cutoff distribution")
	}
	b, err := newBase(KindHybridElastic, t, cutoffTable, nilable(d))
	if err != nil {
		return nil, err
	}
	// Either part alone makes the reaction possible.
	b.threshold = math.Min(b.threshold, mpTable.ThresholdEnergy())
	return &HybridElastic{base: b, mp: mpTable, cutoff: cutoff, dist: d}, nil
}

func (r *HybridElastic) Distribution() *scatter.HybridElastic { return r.dist }

// crossSections returns the reduced cutoff and moment preserving parts.
func (r *HybridElastic) crossSections(energy float64) (reduced, mp float64) {
	g := r.table.Grid()
	if !g.IsInRange(energy) {
		return 0, 0
	}
	bin := g.Bin(energy)
	if full := r.table.CrossSectionInBin(energy, bin); full > 0 {
		reduced = full * r.cutoff.CutoffRatio(energy)
	}
	return reduced, r.mp.CrossSectionInBin(energy, bin)
}

func (r *HybridElastic) CrossSection(energy float64) float64 {
	reduced, mp := r.crossSections(energy)
	return reduced + mp
}

// MomentPreservingCrossSection is the discrete part of the cross section.
func (r *HybridElastic) MomentPreservingCrossSection(energy float64) float64 {
	_, mp := r.crossSections(energy)
	return mp
}

// ReducedCutoffCrossSection is the tabulated part below the cutoff.
func (r *HybridElastic) ReducedCutoffCrossSection(energy float64) float64 {
	reduced, _ := r.crossSections(energy)
	return reduced
}

// MixingProbability is the chance of sampling the tabulated part.
func (r *HybridElastic) MixingProbability(energy float64) float64 {
	reduced, mp := r.crossSections(energy)
	if reduced+mp == 0 {
		return 0
	}
	return reduced / (reduced + mp)
}

func (r *HybridElastic) React(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	r.base.React(p, bank, src)
	return particle.UnknownSubshell
}
