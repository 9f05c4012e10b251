// Package metrics reduces the history tallies of a transport run to single
// numbers.
package metrics

import (
	"math"

	"github.com/san-kum/radsim/internal/transport"
)

// Deposition is the mean fraction of the source energy deposited per
// history.
type Deposition struct {
	name      string
	source    float64
	samples   int
	deposited float64
}

func NewDeposition(sourceEnergy float64) *Deposition {
	return &Deposition{
		name:   "deposition",
		source: sourceEnergy,
	}
}

func (d *Deposition) Name() string { return d.name }

func (d *Deposition) Observe(t *transport.HistoryTally) {
	d.deposited += t.Deposited
	d.samples++
}

func (d *Deposition) Value() float64 {
	if d.samples == 0 || d.source == 0 {
		return 0
	}
	return d.deposited / (float64(d.samples) * d.source)
}

func (d *Deposition) Reset() {
	d.deposited = 0
	d.samples = 0
}

// EnergyDeficit is the largest fraction of the source energy a single
// history left unscored. Binding energy without relaxation and excitation
// losses show up here.
type EnergyDeficit struct {
	name       string
	source     float64
	maxDeficit float64
}

func NewEnergyDeficit(sourceEnergy float64) *EnergyDeficit {
	return &EnergyDeficit{
		name:   "energy_deficit",
		source: sourceEnergy,
	}
}

func (e *EnergyDeficit) Name() string { return e.name }

func (e *EnergyDeficit) Observe(t *transport.HistoryTally) {
	if e.source == 0 {
		return
	}
	deficit := math.Abs(e.source-t.Deposited-t.Escaped) / e.source
	e.maxDeficit = math.Max(e.maxDeficit, deficit)
}

func (e *EnergyDeficit) Value() float64 {
	return e.maxDeficit
}

func (e *EnergyDeficit) Reset() {
	e.maxDeficit = 0
}
