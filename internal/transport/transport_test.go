package transport

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/reaction"
)

func carbonRunner(t *testing.T, mutate func(*properties.Properties)) (*Runner, Config) {
	t.Helper()
	data, err := dataset.Synthetic(6)
	if err != nil {
		t.Fatalf("synthetic: %v", err)
	}
	props := properties.Default()
	props.Atom = "C"
	props.Energy = 1e-3
	props.MinElectronEnergy = 1e-4
	props.Histories = 200
	props.Electron.Elastic = false
	if mutate != nil {
		mutate(props)
	}
	r, err := NewFromProperties(data, props, nil)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	return r, ConfigFromProperties(props)
}

func TestRunIndependentOfWorkers(t *testing.T) {
	r, cfg := carbonRunner(t, nil)

	cfg.Workers = 1
	serial, err := r.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	cfg.Workers = 4
	cfg.BatchSize = 7
	parallel, err := r.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}

	if !reflect.DeepEqual(serial.Tallies, parallel.Tallies) {
		t.Error("tallies depend on the worker count")
	}
	for i, tally := range serial.Tallies {
		if tally.History != int64(i) {
			t.Fatalf("tally %d holds history %d", i, tally.History)
		}
	}
}

func TestRunRangeMatchesRun(t *testing.T) {
	r, cfg := carbonRunner(t, nil)
	cfg.Histories = 40

	whole, err := r.RunRange(context.Background(), cfg, 0, 40, nil)
	if err != nil {
		t.Fatal(err)
	}
	head, err := r.RunRange(context.Background(), cfg, 0, 25, nil)
	if err != nil {
		t.Fatal(err)
	}
	tail, err := r.RunRange(context.Background(), cfg, 25, 15, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(whole, append(head, tail...)) {
		t.Error("split ranges differ from one range")
	}
}

func TestEnergyBalance(t *testing.T) {
	r, cfg := carbonRunner(t, nil)
	res, err := r.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, tally := range res.Tallies {
		if tally.Collisions == 0 {
			t.Fatalf("history %d never collided", tally.History)
		}
		if got := tally.Deposited + tally.Escaped; got > cfg.Energy*(1+1e-9) {
			t.Errorf("history %d scored %g MeV from a %g MeV source", tally.History, got, cfg.Energy)
		}
		if tally.Truncated != 0 {
			t.Errorf("history %d truncated", tally.History)
		}
	}
	if res.Summary.Reactions[reaction.KindElectroionizationSubshell] == 0 {
		t.Error("no ionization recorded")
	}
	if res.Summary.Electrons == 0 {
		t.Error("no knock-on electrons recorded")
	}
}

func TestPositronKnockOnsAreTransported(t *testing.T) {
	r, cfg := carbonRunner(t, func(p *properties.Properties) {
		p.Particle = particle.Positron
		p.Electron.Bremsstrahlung = false
		p.Electron.AtomicExcitation = false
		p.Electron.AtomicRelaxation = false
	})
	if r.Source().Particle() != particle.Positron {
		t.Fatalf("source is %v", r.Source().Particle())
	}
	res, err := r.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Electrons == 0 {
		t.Fatal("positrons produced no electrons")
	}
	if res.Summary.Escaped.Mean != 0 {
		t.Errorf("escaped %g MeV with every particle transported", res.Summary.Escaped.Mean)
	}

	// Without an electron atom the knock-ons leave the medium.
	alone, err := New(r.Source())
	if err != nil {
		t.Fatal(err)
	}
	res, err = alone.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !(res.Summary.Escaped.Mean > 0) {
		t.Error("knock-on electrons were transported without an electron atom")
	}
}

func TestAdjointLines(t *testing.T) {
	data, err := dataset.Synthetic(79)
	if err != nil {
		t.Fatal(err)
	}
	props := properties.GetPreset("adjoint")
	props.Energy = 1e-2
	props.MaxEnergy = 1
	props.Histories = 50
	props.Adjoint.Elastic = false
	props.Adjoint.AtomicExcitation = false

	r, err := NewFromProperties(data, props, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Run(context.Background(), ConfigFromProperties(props), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Summary.Lines) == 0 {
		t.Fatal("no line scores")
	}
	for i, l := range res.Summary.Lines {
		if i > 0 && l.Energy <= res.Summary.Lines[i-1].Energy {
			t.Errorf("lines not ascending: %v", res.Summary.Lines)
		}
		if !(l.Weight > 0) {
			t.Errorf("line %g has weight %g", l.Energy, l.Weight)
		}
	}
	for _, tally := range res.Tallies {
		if tally.Escaped <= props.MaxEnergy {
			t.Errorf("history %d escaped %g MeV, want above %g", tally.History, tally.Escaped, props.MaxEnergy)
		}
	}
}

func TestMaxCollisionsTruncates(t *testing.T) {
	r, cfg := carbonRunner(t, nil)
	cfg.Histories = 10
	cfg.MaxCollisions = 1
	res, err := r.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Truncated == 0 {
		t.Error("expected truncated tracks")
	}
}

func TestRunCancelled(t *testing.T) {
	r, cfg := carbonRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, cfg, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunProgress(t *testing.T) {
	r, cfg := carbonRunner(t, nil)
	cfg.Histories = 30
	var calls, last atomic.Int64
	_, err := r.Run(context.Background(), cfg, func(done, total int) {
		calls.Add(1)
		if total != 30 {
			t.Errorf("total %d", total)
		}
		if done == total {
			last.Store(1)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 30 || last.Load() != 1 {
		t.Errorf("progress called %d times", calls.Load())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no histories", Config{Energy: 1}},
		{"zero energy", Config{Histories: 1}},
		{"negative cutoff", Config{Histories: 1, Energy: 1, MinElectronEnergy: -1}},
		{"above max", Config{Histories: 1, Energy: 30, MaxEnergy: 20}},
	}
	r, _ := carbonRunner(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Run(context.Background(), tt.cfg, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

type countMetric struct{ n float64 }

func (m *countMetric) Name() string            { return "count" }
func (m *countMetric) Observe(t *HistoryTally) { m.n += float64(t.Collisions) }
func (m *countMetric) Value() float64          { return m.n }
func (m *countMetric) Reset()                  { m.n = 0 }

func TestRunMetrics(t *testing.T) {
	r, cfg := carbonRunner(t, nil)
	r.AddMetric(&countMetric{})
	res, err := r.Run(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := res.Summary.Collisions.Mean * float64(cfg.Histories)
	if got := res.Metrics["count"]; math.Abs(got-want) > 1e-6*want {
		t.Errorf("count metric %g, want %g", got, want)
	}
}

func TestSummarize(t *testing.T) {
	tallies := []HistoryTally{
		{Collisions: 2, Deposited: 1, Scattered: true, FirstCosine: 1,
			Reactions: map[reaction.Kind]int{reaction.KindBremsstrahlung: 2},
			Lines:     []LineScore{{Energy: 0.1, Weight: 2}}},
		{Collisions: 4, Deposited: 3, Scattered: true, FirstCosine: -1, Electrons: 2,
			Reactions: map[reaction.Kind]int{reaction.KindBremsstrahlung: 1, reaction.KindAtomicExcitation: 3}},
		{FirstCosine: 1},
	}
	s := Summarize(tallies, 4)

	if s.Histories != 3 {
		t.Errorf("histories %d", s.Histories)
	}
	if s.Collisions.Mean != 2 || s.Deposited.Mean != 4.0/3 {
		t.Errorf("means %+v %+v", s.Collisions, s.Deposited)
	}
	if s.Collisions.StdErr <= 0 {
		t.Error("missing standard error")
	}
	if s.Electrons != 2.0/3 {
		t.Errorf("electrons %g", s.Electrons)
	}
	if got := s.Reactions[reaction.KindBremsstrahlung]; got != 0.5 {
		t.Errorf("brems fraction %g", got)
	}
	if !reflect.DeepEqual(s.AngleEdges, []float64{-1, -0.5, 0, 0.5, 1}) {
		t.Errorf("edges %v", s.AngleEdges)
	}
	if !reflect.DeepEqual(s.AngleCounts, []float64{1, 0, 0, 1}) {
		t.Errorf("counts %v", s.AngleCounts)
	}
	if len(s.Lines) != 1 || s.Lines[0].Weight != 2.0/3 {
		t.Errorf("lines %v", s.Lines)
	}

	if empty := Summarize(nil, 4); empty.Histories != 0 || empty.AngleCounts != nil {
		t.Errorf("empty summary %+v", empty)
	}
}

func TestBankPoolDrains(t *testing.T) {
	pool := NewBankPool()
	b := pool.Get()
	b.Push(particle.NewState(particle.Electron, 1, 0))
	pool.Put(b)
	if got := pool.Get(); !got.IsEmpty() {
		t.Error("pooled bank not empty")
	}
}
