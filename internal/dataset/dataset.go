// Package dataset reads and writes tabulated electroatom data and generates
// synthetic data sets with realistic shapes for any atomic number.
//
// Energies are in MeV and cross sections in barns. Every cross section is
// aligned with the shared energy grid from its threshold index.
package dataset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/radsim/internal/particle"
)

// ErrMalformed is wrapped by every Validate failure.
var ErrMalformed = errors.New("dataset: malformed")

type Electroatom struct {
	Symbol   string    `yaml:"symbol"`
	Z        int       `yaml:"z"`
	Energies []float64 `yaml:"energies"`

	Elastic        Elastic        `yaml:"elastic"`
	Excitation     Excitation     `yaml:"excitation"`
	Bremsstrahlung Bremsstrahlung `yaml:"bremsstrahlung"`
	Subshells      []Subshell     `yaml:"subshells"`
	Relaxation     []Relaxation   `yaml:"relaxation"`
	Adjoint        Adjoint        `yaml:"adjoint"`
}

// CrossSection is aligned with the energy grid from Threshold.
type CrossSection struct {
	Threshold int       `yaml:"threshold"`
	Values    []float64 `yaml:"values"`
}

// Table is a secondary density at one primary energy.
type Table struct {
	Energy float64   `yaml:"energy"`
	X      []float64 `yaml:"x"`
	PDF    []float64 `yaml:"pdf"`
}

// DiscreteTable is a set of weighted points at one primary energy.
type DiscreteTable struct {
	Energy  float64   `yaml:"energy"`
	Points  []float64 `yaml:"points"`
	Weights []float64 `yaml:"weights"`
}

type Elastic struct {
	// Total is the full elastic cross section.
	Total CrossSection `yaml:"total"`
	// Cutoff is the part below scatter.MuPeak.
	Cutoff CrossSection `yaml:"cutoff"`
	// Angular tables cover [-1, 1].
	Angular          []Table          `yaml:"angular"`
	MomentPreserving MomentPreserving `yaml:"moment_preserving"`
}

// MomentPreserving replaces scattering above CutoffAngleCosine with discrete
// angles.
type MomentPreserving struct {
	CutoffAngleCosine float64         `yaml:"cutoff_angle_cosine"`
	CrossSection      CrossSection    `yaml:"cross_section"`
	Angles            []DiscreteTable `yaml:"angles"`
}

type Excitation struct {
	CrossSection CrossSection `yaml:"cross_section"`
	LossEnergies []float64    `yaml:"loss_energies"`
	Loss         []float64    `yaml:"loss"`
}

type Bremsstrahlung struct {
	CrossSection CrossSection `yaml:"cross_section"`
	// Spectra are photon energy densities.
	Spectra []Table `yaml:"spectra"`
	// Angular are photon angle cosine densities, used by the tabular angular
	// model.
	Angular []Table `yaml:"angular,omitempty"`
}

type Subshell struct {
	Subshell      particle.Subshell `yaml:"subshell"`
	BindingEnergy float64           `yaml:"binding_energy"`
	Occupancy     float64           `yaml:"occupancy"`
	CrossSection  CrossSection      `yaml:"cross_section"`
	// KnockOn are knock-on electron energy densities.
	KnockOn []Table `yaml:"knock_on"`
}

type Relaxation struct {
	Vacancy     particle.Subshell `yaml:"vacancy"`
	Transitions []Transition      `yaml:"transitions"`
}

// Transition is radiative when Secondary is invalid or unknown.
type Transition struct {
	Primary   particle.Subshell `yaml:"primary"`
	Secondary particle.Subshell `yaml:"secondary"`
	Energy    float64           `yaml:"energy"`
	Weight    float64           `yaml:"weight"`
}

type Adjoint struct {
	Bremsstrahlung AdjointBremsstrahlung `yaml:"bremsstrahlung"`
	Excitation     Excitation            `yaml:"excitation"`
}

type AdjointBremsstrahlung struct {
	CrossSection CrossSection `yaml:"cross_section"`
	// Gain are energy gain densities.
	Gain []Table `yaml:"gain"`
}

func Load(path string) (*Electroatom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Electroatom
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &a, nil
}

func Save(path string, a *Electroatom) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
