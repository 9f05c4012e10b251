package metrics

import (
	"fmt"

	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/transport"
)

// SecondaryYield is the mean number of secondaries of one type created per
// history.
type SecondaryYield struct {
	name    string
	kind    particle.Type
	sum     float64
	samples int
}

func NewSecondaryYield(kind particle.Type) *SecondaryYield {
	return &SecondaryYield{
		name: fmt.Sprintf("%s_yield", kind),
		kind: kind,
	}
}

func (y *SecondaryYield) Name() string {
	return y.name
}

func (y *SecondaryYield) Observe(t *transport.HistoryTally) {
	switch y.kind {
	case particle.Photon:
		y.sum += float64(t.Photons)
	case particle.Positron:
		y.sum += float64(t.Positrons)
	default:
		y.sum += float64(t.Electrons)
	}
	y.samples++
}

func (y *SecondaryYield) Value() float64 {
	if y.samples == 0 {
		return 0
	}
	return y.sum / float64(y.samples)
}

func (y *SecondaryYield) Reset() {
	y.sum = 0
	y.samples = 0
}

// Standard returns the metrics every run reports.
func Standard(sourceEnergy float64) []transport.Metric {
	return []transport.Metric{
		NewDeposition(sourceEnergy),
		NewEnergyDeficit(sourceEnergy),
		NewCompletion(),
		NewSecondaryYield(particle.Electron),
		NewSecondaryYield(particle.Photon),
	}
}
