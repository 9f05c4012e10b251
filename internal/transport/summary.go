package transport

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/radsim/internal/reaction"
)

// Estimate is a sample mean with its standard error.
type Estimate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	StdErr float64 `json:"std_err"`
}

func estimate(x []float64) Estimate {
	if len(x) == 0 {
		return Estimate{}
	}
	if len(x) == 1 {
		return Estimate{Mean: x[0]}
	}
	mean, std := stat.MeanStdDev(x, nil)
	return Estimate{Mean: mean, StdDev: std, StdErr: stat.StdErr(std, float64(len(x)))}
}

// Summary condenses the tallies of a run. Per-history quantities are
// averaged over all histories.
type Summary struct {
	Histories  int      `json:"histories"`
	Collisions Estimate `json:"collisions"`
	Deposited  Estimate `json:"deposited"`
	Escaped    Estimate `json:"escaped"`

	Electrons   float64 `json:"electrons"`
	Photons     float64 `json:"photons"`
	Positrons   float64 `json:"positrons"`
	Probes      float64 `json:"probes"`
	Transitions float64 `json:"transitions"`
	Truncated   int     `json:"truncated"`

	// Reactions is the fraction of all collisions per reaction kind.
	Reactions map[reaction.Kind]float64 `json:"reactions"`

	// AngleEdges has one more entry than AngleCounts. The histogram covers
	// the first-collision cosines of the histories that collided.
	AngleEdges  []float64 `json:"angle_edges"`
	AngleCounts []float64 `json:"angle_counts"`

	// Lines is the probe weight per history at each line energy, ascending.
	Lines []LineScore `json:"lines,omitempty"`
}

// Summarize reduces tallies to a Summary with bins first-collision angle
// bins on [-1, 1].
func Summarize(tallies []HistoryTally, bins int) Summary {
	n := len(tallies)
	s := Summary{Histories: n, Reactions: make(map[reaction.Kind]float64)}
	if n == 0 {
		return s
	}
	if bins <= 0 {
		bins = DefaultAngleBins
	}

	collisions := make([]float64, n)
	deposited := make([]float64, n)
	escaped := make([]float64, n)
	var cosines []float64
	counts := make(map[reaction.Kind]int)
	lines := make(map[float64]float64)
	total := 0
	for i, t := range tallies {
		collisions[i] = float64(t.Collisions)
		deposited[i] = t.Deposited
		escaped[i] = t.Escaped
		s.Electrons += float64(t.Electrons)
		s.Photons += float64(t.Photons)
		s.Positrons += float64(t.Positrons)
		s.Probes += float64(t.Probes)
		s.Transitions += float64(t.Transitions)
		s.Truncated += t.Truncated
		for k, c := range t.Reactions {
			counts[k] += c
			total += c
		}
		if t.Scattered {
			cosines = append(cosines, t.FirstCosine)
		}
		for _, l := range t.Lines {
			lines[l.Energy] += l.Weight
		}
	}

	s.Collisions = estimate(collisions)
	s.Deposited = estimate(deposited)
	s.Escaped = estimate(escaped)
	inv := 1 / float64(n)
	s.Electrons *= inv
	s.Photons *= inv
	s.Positrons *= inv
	s.Probes *= inv
	s.Transitions *= inv
	for k, c := range counts {
		s.Reactions[k] = float64(c) / float64(total)
	}

	s.AngleEdges = floats.Span(make([]float64, bins+1), -1, 1)
	s.AngleCounts = make([]float64, bins)
	if len(cosines) > 0 {
		sort.Float64s(cosines)
		// stat.Histogram wants the last divider strictly above the data.
		dividers := append([]float64(nil), s.AngleEdges...)
		dividers[bins] = math.Nextafter(1, 2)
		for i := range cosines {
			cosines[i] = math.Max(-1, math.Min(1, cosines[i]))
		}
		stat.Histogram(s.AngleCounts, dividers, cosines, nil)
	}

	for e, w := range lines {
		s.Lines = append(s.Lines, LineScore{Energy: e, Weight: w * inv})
	}
	sort.Slice(s.Lines, func(i, j int) bool { return s.Lines[i].Energy < s.Lines[j].Energy })
	return s
}
