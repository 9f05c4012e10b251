package particle

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRotatePreservesAngle(t *testing.T) {
	dirs := []r3.Vec{
		{Z: 1},
		{Z: -1},
		r3.Unit(r3.Vec{X: 1, Y: 2, Z: 3}),
		r3.Unit(r3.Vec{X: -0.3, Y: 0.1, Z: 0.02}),
	}
	angles := []struct{ mu, phi float64 }{
		{1, 0}, {0.5, 1.0}, {-0.7, 4.0}, {0, math.Pi}, {-1, 0.3},
	}

	for _, d := range dirs {
		for _, a := range angles {
			out := Rotate(d, a.mu, a.phi)
			if math.Abs(r3.Norm(out)-1) > 1e-12 {
				t.Errorf("rotated direction not unit: %v", out)
			}
			if got := r3.Dot(d, out); math.Abs(got-a.mu) > 1e-9 {
				t.Errorf("dir %v mu %g: cos between = %g", d, a.mu, got)
			}
		}
	}
}

func TestSetDirectionFromAngles(t *testing.T) {
	s := NewState(Photon, 1, 0)
	s.SetDirectionFromAngles(0, math.Pi/2)
	if math.Abs(s.Direction.Y-1) > 1e-12 || math.Abs(s.Direction.Z) > 1e-12 {
		t.Errorf("unexpected direction %v", s.Direction)
	}
}

func TestNewSecondary(t *testing.T) {
	p := NewState(Electron, 10, 7)
	p.Position = r3.Vec{X: 1, Y: 2, Z: 3}
	p.CollisionNumber = 4
	p.Generation = 1
	p.Weight = 0.5

	s := p.NewSecondary(Photon, 0.1)
	if s.Type != Photon || s.Energy != 0.1 {
		t.Errorf("wrong type/energy: %v %g", s.Type, s.Energy)
	}
	if s.Position != p.Position || s.HistoryNumber != 7 || s.CollisionNumber != 4 {
		t.Error("bookkeeping not inherited")
	}
	if s.Generation != 2 {
		t.Errorf("expected generation 2, got %d", s.Generation)
	}
	if s.Weight != 0.5 {
		t.Errorf("expected weight 0.5, got %g", s.Weight)
	}
}

func TestNewProbe(t *testing.T) {
	p := NewState(AdjointElectron, 1, 0)
	p.Weight = 2
	probe := p.NewProbe(3, 0.25)

	if !probe.IsProbe() || p.IsProbe() {
		t.Fatal("probe flag not set on clone only")
	}
	if probe.Energy != 3 || probe.Weight != 0.5 {
		t.Errorf("unexpected probe energy/weight %g %g", probe.Energy, probe.Weight)
	}
}

func TestBankFIFO(t *testing.T) {
	var b Bank
	if b.Pop() != nil || !b.IsEmpty() {
		t.Fatal("new bank should be empty")
	}

	for i := 0; i < 3; i++ {
		b.Push(NewState(Electron, float64(i), 0))
	}
	if b.Len() != 3 || b.Top().Energy != 0 {
		t.Fatalf("unexpected bank state len=%d", b.Len())
	}

	for i := 0; i < 3; i++ {
		if got := b.Pop(); got.Energy != float64(i) {
			t.Errorf("pop %d: got energy %g", i, got.Energy)
		}
	}
	if !b.IsEmpty() {
		t.Error("bank should be empty after draining")
	}
}

func TestSubshellParsing(t *testing.T) {
	for _, name := range []string{"K", "L1", "L3", "M5", "Q1"} {
		s, err := ParseSubshell(name)
		if err != nil || s.String() != name {
			t.Errorf("ParseSubshell(%q) = %v, %v", name, s, err)
		}
	}
	if SubshellFromENDF(2) != InvalidSubshell {
		t.Error("designator 2 is not a subshell")
	}
	if !L3.IsReal() || UnknownSubshell.IsReal() || InvalidSubshell.IsReal() {
		t.Error("IsReal mismatch")
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("adjoint_electron")
	if err != nil || typ != AdjointElectron || !typ.IsAdjoint() {
		t.Errorf("ParseType: %v %v", typ, err)
	}
	if _, err := ParseType("neutron"); err == nil {
		t.Error("expected error for neutron")
	}
}
