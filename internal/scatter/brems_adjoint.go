package scatter

import (
	"sort"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

// BremsstrahlungAdjoint samples the energy gained by an adjoint electron.
// When critical line energies are configured, each collision also emits a
// probe at every line energy reachable from the incoming energy.
type BremsstrahlungAdjoint struct {
	gain  *bivariate.Engine
	lines []float64
}

var (
	_ AngularEvaluator         = (*BremsstrahlungAdjoint)(nil)
	_ Sampler                  = (*BremsstrahlungAdjoint)(nil)
	_ AdjointElectronScatterer = (*BremsstrahlungAdjoint)(nil)
)

// NewBremsstrahlungAdjoint builds the distribution from a table of energy
// gains conditioned on the incoming energy. lines must be ascending.
func NewBremsstrahlungAdjoint(gain *bivariate.Engine, lines []float64) (*BremsstrahlungAdjoint, error) {
	if gain == nil {
		return nil, contract.Errorf("scatter: nil adjoint bremsstrahlung distribution")
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] <= lines[i-1] {
			return nil, contract.Errorf("scatter: critical line energies not ascending at %d", i)
		}
	}
	return &BremsstrahlungAdjoint{
		gain:  gain,
		lines: append([]float64(nil), lines...),
	}, nil
}

// CriticalLineEnergies returns the configured line energies.
func (d *BremsstrahlungAdjoint) CriticalLineEnergies() []float64 { return d.lines }

// OutgoingMinEnergy is the smallest energy reachable from energy.
func (d *BremsstrahlungAdjoint) OutgoingMinEnergy(energy float64) float64 {
	return energy + d.gain.LowerBoundOfConditionalIndepVar(energy)
}

// OutgoingMaxEnergy is the largest energy reachable from energy.
func (d *BremsstrahlungAdjoint) OutgoingMaxEnergy(energy float64) float64 {
	return energy + d.gain.UpperBoundOfConditionalIndepVar(energy)
}

// Evaluate returns the tabulated value for scattering from energy to
// outgoingEnergy.
func (d *BremsstrahlungAdjoint) Evaluate(energy, outgoingEnergy float64) float64 {
	return d.gain.Evaluate(energy, outgoingEnergy-energy)
}

func (d *BremsstrahlungAdjoint) EvaluatePDF(energy, outgoingEnergy float64) float64 {
	return d.gain.EvaluatePDF(energy, outgoingEnergy-energy)
}

func (d *BremsstrahlungAdjoint) EvaluateCDF(energy, outgoingEnergy float64) float64 {
	return d.gain.EvaluateCDF(energy, outgoingEnergy-energy)
}

func (d *BremsstrahlungAdjoint) IsContinuous() bool { return true }

// Sample returns the outgoing energy; the direction is unchanged.
func (d *BremsstrahlungAdjoint) Sample(energy float64, src rng.Source) Outgoing {
	g := d.gain.SampleSecondaryConditional(energy, src)
	contract.Ensure(g >= 0, "negative adjoint energy gain %g", g)
	return Outgoing{Energy: energy + g, AngleCosine: 1}
}

func (d *BremsstrahlungAdjoint) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	return d.Sample(energy, src), 1
}

// ScatterAdjointElectron raises the particle energy and emits probes for the
// line energies reachable from the incoming energy.
func (d *BremsstrahlungAdjoint) ScatterAdjointElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	d.CreateProbeParticles(p, bank)
	p.Energy = d.Sample(p.Energy, src).Energy
	return particle.UnknownSubshell
}

// CreateProbeParticles pushes one probe per critical line energy E with
// OutgoingMinEnergy <= E <= OutgoingMaxEnergy. Each probe's weight is scaled
// by Evaluate(incoming, E). Probes never create probes.
func (d *BremsstrahlungAdjoint) CreateProbeParticles(p *particle.State, bank *particle.Bank) int {
	if p.IsProbe() || len(d.lines) == 0 || !d.inRange(p.Energy) {
		return 0
	}
	lo, hi := d.window(p.Energy)
	for _, line := range d.lines[lo:hi] {
		bank.Push(p.NewProbe(line, d.Evaluate(p.Energy, line)))
	}
	return hi - lo
}

func (d *BremsstrahlungAdjoint) inRange(energy float64) bool {
	if d.gain.LimitsExtended() {
		return true
	}
	return energy >= d.gain.LowerBoundOfPrimaryIndepVar() && energy <= d.gain.UpperBoundOfPrimaryIndepVar()
}

// window returns the index range of line energies reachable from energy.
func (d *BremsstrahlungAdjoint) window(energy float64) (int, int) {
	min := d.OutgoingMinEnergy(energy)
	max := d.OutgoingMaxEnergy(energy)
	lo := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] >= min })
	hi := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > max })
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
