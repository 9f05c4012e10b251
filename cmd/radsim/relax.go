package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/radsim/internal/atom"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/rng"
)

type line struct {
	kind   particle.Type
	energy float64
}

func relaxVacancy(cmd *cobra.Command, args []string) error {
	shell, err := particle.ParseSubshell(args[0])
	if err != nil {
		return err
	}
	props, err := loadProperties(cmd)
	if err != nil {
		return err
	}
	if props.Particle.IsAdjoint() {
		return fmt.Errorf("adjoint atoms do not relax")
	}
	props.Electron.AtomicRelaxation = true
	data, err := loadDataset(props)
	if err != nil {
		return err
	}
	a, err := atom.NewElectroatom(data, props, newLogger())
	if err != nil {
		return err
	}

	src := rng.New(props.Seed)
	counts := make(map[line]int)
	transitions := 0
	var bank particle.Bank
	for i := range samples {
		p := particle.NewState(particle.Electron, props.Energy, int64(i))
		transitions += a.Relaxation().Relax(p, shell, &bank, src)
		for s := bank.Pop(); s != nil; s = bank.Pop() {
			counts[line{s.Type, s.Energy}]++
		}
	}
	if transitions == 0 {
		return fmt.Errorf("%s has no relaxation data for %s", props.Atom, shell)
	}

	lines := make([]line, 0, len(counts))
	for l := range counts {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool {
		if counts[lines[i]] != counts[lines[j]] {
			return counts[lines[i]] > counts[lines[j]]
		}
		return lines[i].energy > lines[j].energy
	})

	fmt.Printf("%s %s vacancy  %d samples  %.4g transitions per vacancy\n\n",
		props.Atom, shell, samples, float64(transitions)/float64(samples))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tENERGY (MeV)\tYIELD")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%.6g\t%.4f\n", l.kind, l.energy, float64(counts[l])/float64(samples))
	}
	return w.Flush()
}
