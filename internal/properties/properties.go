// Package properties holds the run configuration. A Properties value is
// built once, validated, and then only read.
package properties

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/radsim/internal/bivariate"
	"github.com/san-kum/radsim/internal/grid"
	"github.com/san-kum/radsim/internal/interp"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/scatter"
)

const (
	DefaultCutoffAngleCosine          = 1.0
	DefaultEvaluationTolerance        = 1e-7
	DefaultAdjointEvaluationTolerance = 1e-12
	DefaultMinPhotonEnergy            = 1e-3
	DefaultMinElectronEnergy          = 1e-5
	DefaultMaxEnergy                  = 20.0
	DefaultSourceEnergy               = 1.0
	DefaultHistories                  = 1000
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("properties: invalid")

type Properties struct {
	Atom      string        `yaml:"atom"`
	Particle  particle.Type `yaml:"particle"`
	Energy    float64       `yaml:"energy"`
	Histories int           `yaml:"histories"`
	Seed      int64         `yaml:"seed"`
	Workers   int           `yaml:"workers"`
	HashBins  int           `yaml:"hash_bins"`

	MinPhotonEnergy   float64 `yaml:"min_photon_energy"`
	MinElectronEnergy float64 `yaml:"min_electron_energy"`
	MaxEnergy         float64 `yaml:"max_energy"`

	Electron ElectronProperties `yaml:"electron"`
	Adjoint  AdjointProperties  `yaml:"adjoint"`
}

// ElectronProperties configure electron and positron physics.
type ElectronProperties struct {
	Elastic           bool `yaml:"elastic"`
	Bremsstrahlung    bool `yaml:"bremsstrahlung"`
	Electroionization bool `yaml:"electroionization"`
	AtomicExcitation  bool `yaml:"atomic_excitation"`
	AtomicRelaxation  bool `yaml:"atomic_relaxation"`

	ElasticMode           ElasticMode           `yaml:"elastic_mode"`
	CutoffAngleCosine     float64               `yaml:"cutoff_angle_cosine"`
	SeltzerModification   bool                  `yaml:"seltzer_modification"`
	BremsstrahlungAngular scatter.PhotonAngular `yaml:"bremsstrahlung_angular"`
	Interp                interp.TwoD           `yaml:"interp"`
	Grid                  bivariate.GridPolicy  `yaml:"grid"`
	EvaluationTolerance   float64               `yaml:"evaluation_tolerance"`
}

// AdjointProperties configure adjoint electron physics.
type AdjointProperties struct {
	Elastic          bool `yaml:"elastic"`
	Bremsstrahlung   bool `yaml:"bremsstrahlung"`
	AtomicExcitation bool `yaml:"atomic_excitation"`

	ElasticMode          ElasticMode          `yaml:"elastic_mode"`
	CutoffAngleCosine    float64              `yaml:"cutoff_angle_cosine"`
	SeltzerModification  bool                 `yaml:"seltzer_modification"`
	Interp               interp.TwoD          `yaml:"interp"`
	Grid                 bivariate.GridPolicy `yaml:"grid"`
	EvaluationTolerance  float64              `yaml:"evaluation_tolerance"`
	CriticalLineEnergies []float64            `yaml:"critical_line_energies,omitempty"`
}

func Default() *Properties {
	return &Properties{
		Atom:              "Au",
		Particle:          particle.Electron,
		Energy:            DefaultSourceEnergy,
		Histories:         DefaultHistories,
		Seed:              1,
		HashBins:          grid.DefaultHashBins,
		MinPhotonEnergy:   DefaultMinPhotonEnergy,
		MinElectronEnergy: DefaultMinElectronEnergy,
		MaxEnergy:         DefaultMaxEnergy,
		Electron: ElectronProperties{
			Elastic:               true,
			Bremsstrahlung:        true,
			Electroionization:     true,
			AtomicExcitation:      true,
			AtomicRelaxation:      true,
			ElasticMode:           Coupled,
			CutoffAngleCosine:     DefaultCutoffAngleCosine,
			SeltzerModification:   true,
			BremsstrahlungAngular: scatter.TwoBS,
			Interp:                interp.LogLogLog,
			Grid:                  bivariate.UnitBaseCorrelated,
			EvaluationTolerance:   DefaultEvaluationTolerance,
		},
		Adjoint: AdjointProperties{
			Elastic:             true,
			Bremsstrahlung:      true,
			AtomicExcitation:    true,
			ElasticMode:         Coupled,
			CutoffAngleCosine:   DefaultCutoffAngleCosine,
			SeltzerModification: true,
			Interp:              interp.LogLogLog,
			Grid:                bivariate.UnitBaseCorrelated,
			EvaluationTolerance: DefaultAdjointEvaluationTolerance,
		},
	}
}

// Load reads YAML from path on top of Default and validates the result.
func Load(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("properties: %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func Save(path string, p *Properties) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy for callers that derive a variant.
func (p *Properties) Clone() *Properties {
	c := *p
	c.Adjoint.CriticalLineEnergies = append([]float64(nil), p.Adjoint.CriticalLineEnergies...)
	return &c
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func validTolerance(tol float64) bool { return tol > 0 && tol < 1 }

func validCutoff(mu float64) bool { return mu > -1 && mu <= 1 }

// Validate checks every field and returns the first problem found.
func (p *Properties) Validate() error {
	switch p.Particle {
	case particle.Electron, particle.Positron, particle.AdjointElectron:
	default:
		return invalid("cannot transport %v", p.Particle)
	}
	if p.Histories < 1 {
		return invalid("histories %d < 1", p.Histories)
	}
	if p.Workers < 0 {
		return invalid("workers %d < 0", p.Workers)
	}
	if p.HashBins < 1 {
		return invalid("hash bins %d < 1", p.HashBins)
	}
	if !(p.MinPhotonEnergy >= 0) || !(p.MinElectronEnergy >= 0) {
		return invalid("negative minimum energy")
	}
	if !(p.MaxEnergy > p.MinElectronEnergy) {
		return invalid("max energy %g not above min electron energy %g", p.MaxEnergy, p.MinElectronEnergy)
	}
	if !(p.Energy > 0) || p.Energy > p.MaxEnergy {
		return invalid("source energy %g outside (0, %g]", p.Energy, p.MaxEnergy)
	}

	e := p.Electron
	if !validCutoff(e.CutoffAngleCosine) {
		return invalid("electron cutoff angle cosine %g outside (-1, 1]", e.CutoffAngleCosine)
	}
	if !validTolerance(e.EvaluationTolerance) {
		return invalid("electron evaluation tolerance %g outside (0, 1)", e.EvaluationTolerance)
	}
	if e.ElasticMode.NeedsCutoff() && e.CutoffAngleCosine == 1 {
		return invalid("%v elastic needs a cutoff angle cosine below 1", e.ElasticMode)
	}

	a := p.Adjoint
	if !validCutoff(a.CutoffAngleCosine) {
		return invalid("adjoint cutoff angle cosine %g outside (-1, 1]", a.CutoffAngleCosine)
	}
	if !validTolerance(a.EvaluationTolerance) {
		return invalid("adjoint evaluation tolerance %g outside (0, 1)", a.EvaluationTolerance)
	}
	if a.ElasticMode.NeedsCutoff() && a.CutoffAngleCosine == 1 {
		return invalid("adjoint %v elastic needs a cutoff angle cosine below 1", a.ElasticMode)
	}
	for i, line := range a.CriticalLineEnergies {
		if !(line > 0) {
			return invalid("critical line energy %g", line)
		}
		if i > 0 && line <= a.CriticalLineEnergies[i-1] {
			return invalid("critical line energies not ascending at %d", i)
		}
	}
	return nil
}
