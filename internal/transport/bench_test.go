package transport

import (
	"testing"

	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/rng"
)

func benchRunner(b *testing.B, preset string, energy float64) (*Runner, Config) {
	b.Helper()
	data, err := dataset.Synthetic(29)
	if err != nil {
		b.Fatal(err)
	}
	props := properties.GetPreset(preset)
	props.Energy = energy
	props.MinElectronEnergy = 1e-4
	r, err := NewFromProperties(data, props, nil)
	if err != nil {
		b.Fatal(err)
	}
	return r, ConfigFromProperties(props).withDefaults()
}

func benchmarkHistory(b *testing.B, preset string, energy float64) {
	r, cfg := benchRunner(b, preset, energy)
	var bank particle.Bank
	src := rng.New(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RunHistory(int64(i), cfg, src, &bank)
	}
}

func BenchmarkHistoryCoupled(b *testing.B) { benchmarkHistory(b, "default", 1e-2) }

func BenchmarkHistoryHybrid(b *testing.B) { benchmarkHistory(b, "hybrid", 1e-2) }

func BenchmarkHistoryMomentPreserving(b *testing.B) {
	benchmarkHistory(b, "moment-preserving", 1e-2)
}

func BenchmarkHistoryAdjoint(b *testing.B) { benchmarkHistory(b, "adjoint", 1e-2) }
