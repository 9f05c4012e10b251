// Package scatter implements the per-process scattering distributions for
// electrons, positrons and adjoint electrons.
//
// Each model is one struct. Depending on the physics it supports it
// satisfies some of [ElectronScatterer], [PositronScatterer] and
// [AdjointElectronScatterer], plus [Sampler] and usually [AngularEvaluator].
// Models are immutable and may be shared between goroutines; only the
// particle state, the bank and the random source passed in are mutated.
package scatter

import (
	"math"

	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

const (
	// ElectronRestMass in MeV.
	ElectronRestMass = 0.51099895000
	// FineStructure is the fine-structure constant.
	FineStructure = 7.2973525693e-3
)

// Outgoing is a sampled outgoing energy and angle cosine.
type Outgoing struct {
	Energy      float64
	AngleCosine float64
}

// AngularEvaluator evaluates a distribution of a secondary variable
// conditioned on the incoming energy.
type AngularEvaluator interface {
	Evaluate(energy, secondary float64) float64
	EvaluatePDF(energy, secondary float64) float64
	EvaluateCDF(energy, secondary float64) float64
	// IsContinuous reports whether the Evaluate methods are supported.
	IsContinuous() bool
}

// Sampler draws outgoing states for an incoming energy.
type Sampler interface {
	Sample(energy float64, src rng.Source) Outgoing
	SampleAndRecordTrials(energy float64, src rng.Source) (Outgoing, int)
}

// ElectronScatterer scatters an electron in place, pushing any secondaries
// to bank, and returns the subshell of interaction.
type ElectronScatterer interface {
	ScatterElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell
}

type PositronScatterer interface {
	ScatterPositron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell
}

type AdjointElectronScatterer interface {
	ScatterAdjointElectron(p *particle.State, bank *particle.Bank, src rng.Source) particle.Subshell
}

// SampleAzimuth returns an azimuthal angle uniform on [0, 2π).
func SampleAzimuth(src rng.Source) float64 {
	return 2 * math.Pi * src.Float64()
}

// reducedMomentumSquared is (pc / mc²)² for kinetic energy in MeV.
func reducedMomentumSquared(energy float64) float64 {
	tau := energy / ElectronRestMass
	return tau * (tau + 2)
}

// betaSquared is (v/c)² for kinetic energy in MeV.
func betaSquared(energy float64) float64 {
	tau := energy / ElectronRestMass
	return tau * (tau + 2) / ((tau + 1) * (tau + 1))
}

func clampCosine(mu float64) float64 {
	return math.Min(math.Max(mu, -1), 1)
}

// deflect rotates p through angle cosine mu and a fresh azimuth.
func deflect(p *particle.State, mu float64, src rng.Source) {
	p.RotateDirection(clampCosine(mu), SampleAzimuth(src))
}
