package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/transport"
)

func TestDeposition(t *testing.T) {
	m := NewDeposition(2.0)

	m.Observe(&transport.HistoryTally{Deposited: 1.0})
	m.Observe(&transport.HistoryTally{Deposited: 2.0})

	if got := m.Value(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected deposition 0.75, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero deposition after reset")
	}
}

func TestEnergyDeficit(t *testing.T) {
	m := NewEnergyDeficit(1.0)

	m.Observe(&transport.HistoryTally{Deposited: 0.5, Escaped: 0.5})
	if m.Value() != 0 {
		t.Errorf("expected no deficit, got %f", m.Value())
	}
	m.Observe(&transport.HistoryTally{Deposited: 0.6, Escaped: 0.2})
	m.Observe(&transport.HistoryTally{Deposited: 0.9})
	if got := m.Value(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("expected deficit 0.2, got %f", got)
	}
}

func TestCompletion(t *testing.T) {
	m := NewCompletion()
	if m.Value() != 1 {
		t.Error("expected full completion with no samples")
	}
	m.Observe(&transport.HistoryTally{})
	m.Observe(&transport.HistoryTally{Truncated: 2})
	if m.Value() != 0.5 {
		t.Errorf("expected completion 0.5, got %f", m.Value())
	}
}

func TestSecondaryYield(t *testing.T) {
	tests := []struct {
		kind particle.Type
		name string
		want float64
	}{
		{particle.Electron, "electron_yield", 3},
		{particle.Photon, "photon_yield", 1},
		{particle.Positron, "positron_yield", 0.5},
	}
	tallies := []transport.HistoryTally{
		{Electrons: 4, Photons: 2, Positrons: 1},
		{Electrons: 2},
	}
	for _, tt := range tests {
		m := NewSecondaryYield(tt.kind)
		if m.Name() != tt.name {
			t.Errorf("expected name %s, got %s", tt.name, m.Name())
		}
		for i := range tallies {
			m.Observe(&tallies[i])
		}
		if m.Value() != tt.want {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, m.Value())
		}
	}
}

func TestStandardNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(1) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
