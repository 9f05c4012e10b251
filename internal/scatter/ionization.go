package scatter

import (
	"math"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

// ElectroionizationSubshell ejects a knock-on electron from one subshell.
// The knock-on energy is tabulated against the incoming energy; both
// outgoing directions follow binary collision kinematics.
type ElectroionizationSubshell struct {
	knockOn *bivariate.Engine
	shell   particle.Subshell
	binding float64
}

var (
	_ AngularEvaluator  = (*ElectroionizationSubshell)(nil)
	_ Sampler           = (*ElectroionizationSubshell)(nil)
	_ ElectronScatterer = (*ElectroionizationSubshell)(nil)
	_ PositronScatterer = (*ElectroionizationSubshell)(nil)
)

func NewElectroionizationSubshell(knockOn *bivariate.Engine, shell particle.Subshell, binding float64) (*ElectroionizationSubshell, error) {
	if knockOn == nil {
		return nil, contract.Errorf("scatter: nil knock-on distribution")
	}
	if !shell.IsReal() {
		return nil, contract.Errorf("scatter: %v is not an ionizable subshell", shell)
	}
	if binding < 0 {
		return nil, contract.Errorf("scatter: negative binding energy %g", binding)
	}
	return &ElectroionizationSubshell{knockOn: knockOn, shell: shell, binding: binding}, nil
}

func (d *ElectroionizationSubshell) Subshell() particle.Subshell { return d.shell }

func (d *ElectroionizationSubshell) BindingEnergy() float64 { return d.binding }

func (d *ElectroionizationSubshell) Evaluate(energy, knockOnEnergy float64) float64 {
	return d.knockOn.Evaluate(energy, knockOnEnergy)
}

func (d *ElectroionizationSubshell) EvaluatePDF(energy, knockOnEnergy float64) float64 {
	return d.knockOn.EvaluatePDF(energy, knockOnEnergy)
}

func (d *ElectroionizationSubshell) EvaluateCDF(energy, knockOnEnergy float64) float64 {
	return d.knockOn.EvaluateCDF(energy, knockOnEnergy)
}

func (d *ElectroionizationSubshell) IsContinuous() bool { return true }

// BinaryCosine is the deflection cosine of a particle leaving a binary
// collision with kinetic energy out, given incoming kinetic energy in.
func BinaryCosine(in, out float64) float64 {
	if in <= 0 || out <= 0 {
		return 0
	}
	m2 := 2 * ElectronRestMass
	return clampCosine(math.Sqrt(out * (in + m2) / (in * (out + m2))))
}

// Sample returns the knock-on electron energy and angle cosine.
func (d *ElectroionizationSubshell) Sample(energy float64, src rng.Source) Outgoing {
	available := math.Max(energy-d.binding, 0)
	t := d.knockOn.SampleSecondaryConditionalInSubrange(energy, src, available)
	t = math.Min(math.Max(t, 0), available)
	return Outgoing{Energy: t, AngleCosine: BinaryCosine(energy, t)}
}

func (d *ElectroionizationSubshell) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	return d.Sample(energy, src), 1
}

func (d *ElectroionizationSubshell) scatter(p *particle.State, bank *particle.Bank, src rng.Source) {
	in := p.Energy
	knock := d.Sample(in, src)
	phi := SampleAzimuth(src)

	electron := p.NewSecondary(particle.Electron, knock.Energy)
	electron.Direction = particle.Rotate(p.Direction, knock.AngleCosine, math.Mod(phi+math.Pi, 2*math.Pi))
	bank.Push(electron)

	out := math.Max(in-d.binding-knock.Energy, 0)
	p.Energy = out
	p.RotateDirection(BinaryCosine(in, out), phi)
}

func (d *ElectroionizationSubshell) ScatterElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	d.scatter(p, bank, src)
	return d.shell
}

func (d *ElectroionizationSubshell) ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	d.scatter(p, bank, src)
	return d.shell
}
