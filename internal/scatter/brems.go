package scatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

// PhotonAngular selects how the bremsstrahlung photon direction is sampled.
type PhotonAngular int

const (
	Dipole PhotonAngular = iota
	Tabular
	TwoBS
)

var photonAngularNames = []string{"Dipole", "Tabular", "2BS"}

func (a PhotonAngular) String() string {
	if a >= 0 && int(a) < len(photonAngularNames) {
		return photonAngularNames[a]
	}
	return fmt.Sprintf("PhotonAngular(%d)", int(a))
}

func ParsePhotonAngular(s string) (PhotonAngular, error) {
	for i, name := range photonAngularNames {
		if strings.EqualFold(name, s) || (i == int(TwoBS) && strings.EqualFold(s, "TwoBS")) {
			return PhotonAngular(i), nil
		}
	}
	return 0, fmt.Errorf("scatter: unknown bremsstrahlung angular model %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a PhotonAngular) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *PhotonAngular) UnmarshalText(text []byte) error {
	parsed, err := ParsePhotonAngular(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

const maxTwoBSTrials = 1000

// Bremsstrahlung samples the emitted photon energy from a bivariate table
// conditioned on the incoming energy. The charged particle keeps its
// direction; the photon direction follows the angular model.
type Bremsstrahlung struct {
	energy  *bivariate.Engine
	angular PhotonAngular
	angle   *bivariate.Engine
	z       int
}

var (
	_ AngularEvaluator  = (*Bremsstrahlung)(nil)
	_ Sampler           = (*Bremsstrahlung)(nil)
	_ ElectronScatterer = (*Bremsstrahlung)(nil)
	_ PositronScatterer = (*Bremsstrahlung)(nil)
)

// BremsstrahlungOption configures the photon angular model.
type BremsstrahlungOption func(*Bremsstrahlung)

// WithDipole uses the dipole angular distribution. This is the default.
func WithDipole() BremsstrahlungOption {
	return func(b *Bremsstrahlung) { b.angular = Dipole }
}

// WithTabularAngle samples the photon angle cosine from a table conditioned
// on the incoming energy.
func WithTabularAngle(angle *bivariate.Engine) BremsstrahlungOption {
	return func(b *Bremsstrahlung) {
		b.angular = Tabular
		b.angle = angle
	}
}

// WithTwoBS uses the Koch and Motz 2BS angular distribution for atomic
// number z.
func WithTwoBS(z int) BremsstrahlungOption {
	return func(b *Bremsstrahlung) {
		b.angular = TwoBS
		b.z = z
	}
}

func NewBremsstrahlung(energy *bivariate.Engine, opts ...BremsstrahlungOption) (*Bremsstrahlung, error) {
	if energy == nil {
		return nil, contract.Errorf("scatter: nil bremsstrahlung energy distribution")
	}
	b := &Bremsstrahlung{energy: energy}
	for _, opt := range opts {
		opt(b)
	}
	switch b.angular {
	case Tabular:
		if b.angle == nil {
			return nil, contract.Errorf("scatter: tabular bremsstrahlung angle needs a table")
		}
	case TwoBS:
		if b.z < 1 {
			return nil, contract.Errorf("scatter: 2BS needs an atomic number, got %d", b.z)
		}
	case Dipole:
	default:
		return nil, contract.Errorf("scatter: unknown angular model %v", b.angular)
	}
	return b, nil
}

// Angular returns the photon angular model in use.
func (b *Bremsstrahlung) Angular() PhotonAngular { return b.angular }

// Evaluate returns the tabulated photon energy value at the given incoming
// energy.
func (b *Bremsstrahlung) Evaluate(energy, photonEnergy float64) float64 {
	return b.energy.Evaluate(energy, photonEnergy)
}

func (b *Bremsstrahlung) EvaluatePDF(energy, photonEnergy float64) float64 {
	return b.energy.EvaluatePDF(energy, photonEnergy)
}

func (b *Bremsstrahlung) EvaluateCDF(energy, photonEnergy float64) float64 {
	return b.energy.EvaluateCDF(energy, photonEnergy)
}

func (b *Bremsstrahlung) IsContinuous() bool { return true }

// samplePhotonEnergy never returns more than the incoming energy.
func (b *Bremsstrahlung) samplePhotonEnergy(energy float64, src rng.Source) float64 {
	k := b.energy.SampleSecondaryConditionalInSubrange(energy, src, energy)
	return math.Min(math.Max(k, 0), energy)
}

// Sample returns the photon energy and photon angle cosine relative to the
// incoming direction.
func (b *Bremsstrahlung) Sample(energy float64, src rng.Source) Outgoing {
	out, _ := b.SampleAndRecordTrials(energy, src)
	return out
}

func (b *Bremsstrahlung) SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int) {
	k := b.samplePhotonEnergy(energy, src)
	mu, trials := b.samplePhotonAngle(energy, k, src)
	return Outgoing{Energy: k, AngleCosine: mu}, trials
}

func (b *Bremsstrahlung) samplePhotonAngle(energy, photonEnergy float64, src rng.Source) (float64, int) {
	switch b.angular {
	case Tabular:
		return clampCosine(b.angle.SampleSecondaryConditional(energy, src)), 1
	case TwoBS:
		return b.sampleTwoBS(energy, photonEnergy, src)
	default:
		return SampleDipoleAngle(energy, src), 1
	}
}

// SampleDipoleAngle samples the photon angle cosine from the dipole
// distribution boosted by the electron velocity.
func SampleDipoleAngle(energy float64, src rng.Source) float64 {
	beta := math.Sqrt(betaSquared(energy))
	s := 2*src.Float64() - 1
	return clampCosine((s + beta) / (s*beta + 1))
}

// sampleTwoBS samples y² = (E0 θ)² from 1/(1+y²)² and accepts with the
// remainder of the 2BS cross section. Energies are total energies in units
// of the rest mass.
func (b *Bremsstrahlung) sampleTwoBS(energy, photonEnergy float64, src rng.Source) (float64, int) {
	e0 := energy/ElectronRestMass + 1
	k := photonEnergy / ElectronRestMass
	e := e0 - k
	if e <= 1 || k <= 0 {
		return SampleDipoleAngle(energy, src), 1
	}

	r := e / e0
	screening := math.Cbrt(float64(b.z)) / 111
	kinematic := k / (2 * e0 * e)
	logM := func(x float64) float64 {
		s := screening / (x + 1)
		return -math.Log(kinematic*kinematic + s*s)
	}
	xMax := math.Pi * math.Pi * e0 * e0
	bound := 4*r + (1+r*r)*math.Max(logM(xMax), 0)

	var x float64
	trials := 0
	for trials < maxTwoBSTrials {
		trials++
		q := src.Float64()
		x = q * xMax / (1 + xMax*(1-q))
		t := 4 * x * r / ((x + 1) * (x + 1))
		h := 4*t - (1+r)*(1+r) + (1+r*r-t)*logM(x)
		if src.Float64()*bound <= h {
			break
		}
	}
	return math.Cos(math.Sqrt(x) / e0), trials
}

func (b *Bremsstrahlung) scatter(p *particle.State, bank *particle.Bank, src rng.Source) {
	out := b.Sample(p.Energy, src)

	photon := p.NewSecondary(particle.Photon, out.Energy)
	photon.Direction = particle.Rotate(p.Direction, out.AngleCosine, SampleAzimuth(src))
	bank.Push(photon)

	p.Energy -= out.Energy
}

func (b *Bremsstrahlung) ScatterElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	b.scatter(p, bank, src)
	return particle.UnknownSubshell
}

func (b *Bremsstrahlung) ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell {
	b.scatter(p, bank, src)
	return particle.UnknownSubshell
}
