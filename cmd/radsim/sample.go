package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/radsim/internal/atom"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/reaction"
	"github.com/san-kum/radsim/internal/rng"
)

func sampleReaction(cmd *cobra.Command, args []string) error {
	kind, err := reaction.ParseKind(args[0])
	if err != nil {
		return err
	}
	props, err := loadProperties(cmd)
	if err != nil {
		return err
	}
	data, err := loadDataset(props)
	if err != nil {
		return err
	}
	a, err := atom.New(data, props, newLogger())
	if err != nil {
		return err
	}
	r, ok := a.Reaction(kind)
	if !ok {
		names := make([]string, 0, len(a.Reactions()))
		for _, r := range a.Reactions() {
			names = append(names, r.Kind().String())
		}
		return fmt.Errorf("%s is not built for %s %s (have %v)", kind, props.Atom, a.Particle(), names)
	}
	if xs := r.CrossSection(props.Energy); !(xs > 0) {
		return fmt.Errorf("%s has no cross section at %g MeV", kind, props.Energy)
	}

	src := rng.New(props.Seed)
	cosines := make([]float64, samples)
	energies := make([]float64, samples)
	var secondaries int
	var bank particle.Bank
	for i := range samples {
		p := particle.NewState(a.Particle(), props.Energy, int64(i))
		r.React(p, &bank, src)
		cosines[i] = p.Direction.Z
		energies[i] = p.Energy
		secondaries += bank.Len()
		for bank.Pop() != nil {
		}
	}

	fmt.Printf("%s  %s %s  %g MeV  %d samples\n\n", kind, props.Atom, a.Particle(), props.Energy, samples)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "cross section\t%.6g b\n", r.CrossSection(props.Energy))
	fmt.Fprintf(w, "mean cosine\t%.6g\n", stat.Mean(cosines, nil))
	fmt.Fprintf(w, "mean energy\t%.6g MeV\n", stat.Mean(energies, nil))
	fmt.Fprintf(w, "secondaries\t%.4g per collision\n", float64(secondaries)/float64(samples))
	if err := w.Flush(); err != nil {
		return err
	}

	plotHistogram(cosines, -1, 1, "outgoing cosine, -1 to 1")
	lo, hi := floats.Min(energies), floats.Max(energies)
	if hi > lo {
		plotHistogram(energies, lo, hi, fmt.Sprintf("outgoing energy, %.4g to %.4g MeV", lo, hi))
	}
	return nil
}

func plotHistogram(x []float64, lo, hi float64, caption string) {
	bins := max(sampleBins, 2)
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	sorted := make([]float64, len(x))
	for i, v := range x {
		sorted[i] = math.Max(lo, math.Min(hi, v))
	}
	sort.Float64s(sorted)
	counts := stat.Histogram(nil, dividers, sorted, nil)
	fmt.Println()
	fmt.Println(asciigraph.Plot(counts,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	))
}
