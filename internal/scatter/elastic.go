package scatter

import (
	"math"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

// MuPeak is the angle cosine above which the tabulated elastic data is
// replaced by a screened Rutherford tail.
const MuPeak = 0.999999

// CutoffElastic samples the tabulated angular distribution below its cutoff.
// When the cutoff is 1 and a screening model is attached, evaluation above
// MuPeak follows the screened Rutherford shape matched at MuPeak.
type CutoffElastic struct {
	dist *bivariate.Elastic
	tail *ScreenedRutherfordElastic
}

var (
	_ AngularEvaluator         = (*CutoffElastic)(nil)
	_ Sampler                  = (*CutoffElastic)(nil)
	_ ElectronScatterer        = (*CutoffElastic)(nil)
	_ PositronScatterer        = (*CutoffElastic)(nil)
	_ AdjointElectronScatterer = (*CutoffElastic)(nil)
)

// NewCutoffElastic wraps dist. tail may be nil.
func NewCutoffElastic(dist *bivariate.Elastic, tail *ScreenedRutherfordElastic) (*CutoffElastic, error) {
	if dist == nil {
		return nil, contract.Errorf("scatter: nil elastic distribution")
	}
	return &CutoffElastic{dist: dist, tail: tail}, nil
}

// CutoffAngleCosine returns the upper bound of sampled angle cosines.
func (d *CutoffElastic) CutoffAngleCosine() float64 { return d.dist.UpperBound() }

// CutoffRatio returns the fraction of the full tabulated distribution below
// the cutoff at energy.
func (d *CutoffElastic) CutoffRatio(energy float64) float64 {
	return d.dist.CutoffRatio(energy)
}

func (d *CutoffElastic) hasTail() bool {
	return d.tail != nil && d.dist.UpperBound() > MuPeak
}

// tailFactor is the screened Rutherford shape relative to its value at
// MuPeak.
func (d *CutoffElastic) tailFactor(energy, mu float64) float64 {
	eta := d.tail.MoliereScreeningConstant(energy)
	r := (eta + 1 - MuPeak) / (eta + 1 - mu)
	return r * r
}

func (d *CutoffElastic) Evaluate(energy, mu float64) float64 {
	if mu > MuPeak && d.hasTail() {
		return d.dist.Evaluate(energy, MuPeak) * d.tailFactor(energy, mu)
	}
	return d.dist.Evaluate(energy, mu)
}

func (d *CutoffElastic) EvaluatePDF(energy, mu float64) float64 {
	if mu > MuPeak && d.hasTail() {
		return d.dist.EvaluatePDF(energy, MuPeak) * d.tailFactor(energy, mu)
	}
	return d.dist.EvaluatePDF(energy, mu)
}

func (d *CutoffElastic) EvaluateCDF(energy, mu float64) float64 {
	if mu > MuPeak && mu < 1 && d.hasTail() {
		eta := d.tail.MoliereScreeningConstant(energy)
		base := eta + 1 - MuPeak
		tail := d.dist.EvaluatePDF(energy, MuPeak) * base * base * (1/(eta+1-mu) - 1/base)
		return math.Min(d.dist.EvaluateCDF(energy, MuPeak)+tail, 1)
	}
	return d.dist.EvaluateCDF(energy, mu)
}

func (d *CutoffElastic) IsContinuous() bool { return true }

func (d *CutoffElastic) Sample(energy float64, src rng.Source) Outgoing {
	return Outgoing{Energy: energy, AngleCosine: d.dist.Sample(energy, src)}
}

func (d *CutoffElastic) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	return d.Sample(energy, src), 1
}

// SampleWithRandomNumber samples the angle cosine from a single random
// number.
func (d *CutoffElastic) SampleWithRandomNumber(energy, r float64) float64 {
	return d.dist.SampleWithRandomNumber(energy, r)
}

func (d *CutoffElastic) ScatterElectron(p *particle.State, _ *particle.Bank, src rng.Source) particle.Subshell {
	deflect(p, d.dist.Sample(p.Energy, src), src)
	return particle.UnknownSubshell
}

func (d *CutoffElastic) ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}

func (d *CutoffElastic) ScatterAdjointElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}

// MomentPreservingElastic samples discrete angle cosines. It has no density,
// so the Evaluate methods panic with contract.ErrUnsupported; check
// IsContinuous first.
type MomentPreservingElastic struct {
	engine *bivariate.Engine
}

var (
	_ AngularEvaluator         = (*MomentPreservingElastic)(nil)
	_ Sampler                  = (*MomentPreservingElastic)(nil)
	_ ElectronScatterer        = (*MomentPreservingElastic)(nil)
	_ PositronScatterer        = (*MomentPreservingElastic)(nil)
	_ AdjointElectronScatterer = (*MomentPreservingElastic)(nil)
)

func NewMomentPreservingElastic(engine *bivariate.Engine) (*MomentPreservingElastic, error) {
	if engine == nil {
		return nil, contract.Errorf("scatter: nil moment preserving distribution")
	}
	return &MomentPreservingElastic{engine: engine}, nil
}

func (d *MomentPreservingElastic) Evaluate(energy, mu float64) float64 {
	contract.Unsupported("moment preserving elastic distribution has no density")
	return 0
}

func (d *MomentPreservingElastic) EvaluatePDF(energy, mu float64) float64 {
	contract.Unsupported("moment preserving elastic distribution has no density")
	return 0
}

func (d *MomentPreservingElastic) EvaluateCDF(energy, mu float64) float64 {
	contract.Unsupported("moment preserving elastic distribution has no cumulative density")
	return 0
}

func (d *MomentPreservingElastic) IsContinuous() bool { return false }

func (d *MomentPreservingElastic) Sample(energy float64, src rng.Source) Outgoing {
	mu := d.engine.SampleSecondaryConditional(energy, src)
	return Outgoing{Energy: energy, AngleCosine: clampCosine(mu)}
}

func (d *MomentPreservingElastic) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	return d.Sample(energy, src), 1
}

func (d *MomentPreservingElastic) ScatterElectron(p *particle.State, _ *particle.Bank, src rng.Source) particle.Subshell {
	deflect(p, d.Sample(p.Energy, src).AngleCosine, src)
	return particle.UnknownSubshell
}

func (d *MomentPreservingElastic) ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}

func (d *MomentPreservingElastic) ScatterAdjointElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}

// HybridElastic samples an engine whose tables mix a continuous part below
// the cutoff angle cosine with discrete moment preserving angles above it.
type HybridElastic struct {
	engine *bivariate.Engine
	cutoff float64
}

var (
	_ AngularEvaluator         = (*HybridElastic)(nil)
	_ Sampler                  = (*HybridElastic)(nil)
	_ ElectronScatterer        = (*HybridElastic)(nil)
	_ PositronScatterer        = (*HybridElastic)(nil)
	_ AdjointElectronScatterer = (*HybridElastic)(nil)
)

func NewHybridElastic(engine *bivariate.Engine, cutoff float64) (*HybridElastic, error) {
	if engine == nil {
		return nil, contract.Errorf("scatter: nil hybrid distribution")
	}
	if !(cutoff > -1 && cutoff <= 1) {
		return nil, contract.Errorf("scatter: cutoff angle cosine %g outside (-1, 1]", cutoff)
	}
	return &HybridElastic{engine: engine, cutoff: cutoff}, nil
}

func (d *HybridElastic) CutoffAngleCosine() float64 { return d.cutoff }

func (d *HybridElastic) Evaluate(energy, mu float64) float64 {
	return d.engine.Evaluate(energy, mu)
}

func (d *HybridElastic) EvaluatePDF(energy, mu float64) float64 {
	return d.engine.EvaluatePDF(energy, mu)
}

func (d *HybridElastic) EvaluateCDF(energy, mu float64) float64 {
	return d.engine.EvaluateCDF(energy, mu)
}

// IsContinuous is false: the discrete angles carry point masses.
func (d *HybridElastic) IsContinuous() bool { return false }

func (d *HybridElastic) Sample(energy float64, src rng.Source) Outgoing {
	mu := d.engine.SampleSecondaryConditional(energy, src)
	return Outgoing{Energy: energy, AngleCosine: clampCosine(mu)}
}

func (d *HybridElastic) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	return d.Sample(energy, src), 1
}

func (d *HybridElastic) ScatterElectron(p *particle.State, _ *particle.Bank, src rng.Source) particle.Subshell {
	deflect(p, d.Sample(p.Energy, src).AngleCosine, src)
	return particle.UnknownSubshell
}

func (d *HybridElastic) ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}

func (d *HybridElastic) ScatterAdjointElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	return d.ScatterElectron(p, bank, src)
}
