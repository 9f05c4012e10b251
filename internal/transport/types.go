package transport

import (
	"fmt"
	"runtime"

	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/reaction"
)

const (
	DefaultBatchSize     = 64
	DefaultMaxCollisions = 1 << 20
	DefaultAngleBins     = 40
)

// Config controls one run. Zero Workers, BatchSize, MaxCollisions and
// AngleBins take their defaults.
type Config struct {
	Histories int     `json:"histories"`
	Seed      int64   `json:"seed"`
	Workers   int     `json:"workers"`
	BatchSize int     `json:"batch_size"`
	Energy    float64 `json:"energy"`

	// MinElectronEnergy ends electron and positron tracks; the remaining
	// energy is deposited.
	MinElectronEnergy float64 `json:"min_electron_energy"`
	// MaxEnergy ends adjoint tracks that climb above it.
	MaxEnergy float64 `json:"max_energy"`
	// MaxCollisions bounds the collisions of one particle.
	MaxCollisions int `json:"max_collisions"`
	AngleBins     int `json:"angle_bins"`
}

// ConfigFromProperties copies the run settings out of p.
func ConfigFromProperties(p *properties.Properties) Config {
	return Config{
		Histories:         p.Histories,
		Seed:              p.Seed,
		Workers:           p.Workers,
		Energy:            p.Energy,
		MinElectronEnergy: p.MinElectronEnergy,
		MaxEnergy:         p.MaxEnergy,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.MaxCollisions <= 0 {
		c.MaxCollisions = DefaultMaxCollisions
	}
	if c.AngleBins <= 0 {
		c.AngleBins = DefaultAngleBins
	}
	return c
}

func (c Config) validate() error {
	if c.Histories < 1 {
		return fmt.Errorf("transport: histories must be positive, got %d", c.Histories)
	}
	if !(c.Energy > 0) {
		return fmt.Errorf("transport: source energy must be positive, got %g", c.Energy)
	}
	if c.MinElectronEnergy < 0 {
		return fmt.Errorf("transport: negative cutoff energy %g", c.MinElectronEnergy)
	}
	if c.MaxEnergy > 0 && c.Energy > c.MaxEnergy {
		return fmt.Errorf("transport: source energy %g above max energy %g", c.Energy, c.MaxEnergy)
	}
	return nil
}

// LineScore is the probe weight collected at one line energy.
type LineScore struct {
	Energy float64 `json:"energy"`
	Weight float64 `json:"weight"`
}

// HistoryTally is what one history produced. Energies are weighted and in
// MeV.
type HistoryTally struct {
	History    int64 `json:"history"`
	Collisions int   `json:"collisions"`

	Electrons int `json:"electrons"`
	Photons   int `json:"photons"`
	Positrons int `json:"positrons"`
	Probes    int `json:"probes"`

	// Deposited is energy left behind by tracks that ended below the
	// cutoff.
	Deposited float64 `json:"deposited"`
	// Escaped is energy carried off by particles that are not transported.
	Escaped float64 `json:"escaped"`

	Transitions int                   `json:"transitions"`
	Truncated   int                   `json:"truncated"`
	Reactions   map[reaction.Kind]int `json:"reactions,omitempty"`

	// FirstCosine is the source particle's direction cosine with +z after
	// its first collision. Scattered is false when it never collided.
	FirstCosine float64     `json:"first_cosine"`
	Scattered   bool        `json:"scattered"`
	Lines       []LineScore `json:"lines,omitempty"`
}

func (t *HistoryTally) countSecondary(s *particle.State) {
	switch {
	case s.IsProbe():
		t.Probes++
	case s.Type == particle.Photon:
		t.Photons++
	case s.Type == particle.Positron:
		t.Positrons++
	default:
		t.Electrons++
	}
}

func (t *HistoryTally) scoreLine(energy, weight float64) {
	for i := range t.Lines {
		if t.Lines[i].Energy == energy {
			t.Lines[i].Weight += weight
			return
		}
	}
	t.Lines = append(t.Lines, LineScore{Energy: energy, Weight: weight})
}

// Metric reduces the tallies of a run to one number. Observe is called once
// per history in history order.
type Metric interface {
	Name() string
	Observe(t *HistoryTally)
	Value() float64
	Reset()
}

// Progress is called after each finished history with the number finished
// so far. It may be called from several goroutines at once.
type Progress func(done, total int)

type Result struct {
	Particle particle.Type      `json:"particle"`
	Atom     string             `json:"atom"`
	Config   Config             `json:"config"`
	Tallies  []HistoryTally     `json:"-"`
	Summary  Summary            `json:"summary"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}
