package xs

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/interp"
)

func testGrid(t *testing.T) *EnergyGrid {
	t.Helper()
	g, err := NewEnergyGrid([]float64{1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1}, 10)
	if err != nil {
		t.Fatalf("NewEnergyGrid: %v", err)
	}
	return g
}

func TestTableThreshold(t *testing.T) {
	g := testGrid(t)
	tab, err := NewTable(g, []float64{0, 4, 2, 1}, 2, interp.LinLin)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if got := tab.ThresholdEnergy(); got != 1e-3 {
		t.Errorf("ThresholdEnergy = %g", got)
	}
	if got := tab.MaxEnergy(); got != 1 {
		t.Errorf("MaxEnergy = %g", got)
	}

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		e := 1e-5 * math.Pow(1e5, rnd.Float64())
		xs := tab.CrossSection(e)
		if e < tab.ThresholdEnergy() && xs != 0 {
			t.Fatalf("CrossSection(%g) = %g below threshold", e, xs)
		}
		if xs < 0 {
			t.Fatalf("CrossSection(%g) = %g", e, xs)
		}
	}
	if got := tab.CrossSection(tab.ThresholdEnergy()); got != 0 {
		t.Errorf("value at threshold = %g", got)
	}
}

func TestTableInterpolation(t *testing.T) {
	g := testGrid(t)
	tests := []struct {
		name   string
		policy interp.OneD
		e      float64
		want   float64
	}{
		{"linlin grid point", interp.LinLin, 1e-2, 4},
		{"linlin mid", interp.LinLin, 0.055, 3},
		{"loglog mid", interp.LogLog, math.Sqrt(1e-5), math.Sqrt(8 * 4)},
		{"last point", interp.LinLin, 1, 1},
		{"above grid", interp.LinLin, 2, 0},
		{"below grid", interp.LogLog, 1e-6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, err := NewTable(g, []float64{2, 8, 4, 2, 1}, 1, tt.policy)
			if err != nil {
				t.Fatalf("NewTable: %v", err)
			}
			if got := tab.CrossSection(tt.e); math.Abs(got-tt.want) > 1e-12*math.Max(1, tt.want) {
				t.Errorf("CrossSection(%g) = %g, want %g", tt.e, got, tt.want)
			}
		})
	}
}

func TestTableLogLogThroughZero(t *testing.T) {
	g := testGrid(t)
	tab, err := NewTable(g, []float64{0, 2, 2, 2, 2, 2}, 0, interp.LogLog)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	got := tab.CrossSection(5.5e-5)
	if math.IsNaN(got) || got < 0 || got > 2 {
		t.Errorf("CrossSection = %g", got)
	}
}

func TestNewTableErrors(t *testing.T) {
	g := testGrid(t)
	tests := []struct {
		name      string
		values    []float64
		threshold int
		policy    interp.OneD
	}{
		{"short", []float64{1, 2}, 0, interp.LinLin},
		{"negative", []float64{1, -1}, 4, interp.LinLin},
		{"nan", []float64{1, math.NaN()}, 4, interp.LinLin},
		{"threshold", []float64{1}, 6, interp.LinLin},
		{"policy", []float64{1, 2}, 4, interp.LinLog},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(g, tt.values, tt.threshold, tt.policy)
			if !errors.Is(err, contract.ErrPrecondition) {
				t.Errorf("expected ErrPrecondition, got %v", err)
			}
		})
	}
}

func TestSum(t *testing.T) {
	g := testGrid(t)
	a, _ := NewTable(g, []float64{1, 1, 1, 1, 1, 1}, 0, interp.LinLin)
	b, _ := NewTable(g, []float64{2, 2}, 4, interp.LinLin)
	total, err := Sum(interp.LinLin, a, b)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	for _, e := range []float64{1e-5, 3e-3, 0.1, 0.5, 1} {
		if got, want := total.CrossSection(e), a.CrossSection(e)+b.CrossSection(e); math.Abs(got-want) > 1e-12 {
			t.Errorf("total(%g) = %g, want %g", e, got, want)
		}
	}

	other := testGrid(t)
	c, _ := NewTable(other, []float64{1, 1}, 4, interp.LinLin)
	if _, err := Sum(interp.LinLin, a, c); err == nil {
		t.Error("expected error summing tables on different grids")
	}
}

func BenchmarkCrossSection(b *testing.B) {
	energies := make([]float64, 1000)
	values := make([]float64, 1000)
	for i := range energies {
		energies[i] = 1e-5 * math.Pow(1e10, float64(i)/999)
		values[i] = 1 / energies[i]
	}
	g, _ := NewEnergyGrid(energies, 1000)
	tab, _ := NewTable(g, values, 0, interp.LogLog)
	rnd := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tab.CrossSection(1e-5 * math.Pow(1e10, rnd.Float64()))
	}
}
