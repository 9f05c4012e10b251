package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tATOM\tPARTICLE\tENERGY\tHISTORIES\tSEED\tDEPOSITED\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%d\t%d\t%.4g\t%s\n",
			r.ID, r.Atom, r.Particle, r.Energy, r.Histories, r.Seed,
			r.Summary.Deposited.Mean, r.Created.Format(time.DateTime))
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	meta, err := st.Load(ctx, id)
	if err != nil {
		return err
	}
	tallies, err := st.LoadHistories(ctx, id)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return storage.ExportJSON(exportOut, meta, tallies)
	case "csv":
		if exportOut == "-" {
			return storage.WriteCSV(os.Stdout, tallies)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		if err := storage.WriteCSV(f, tallies); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unknown format %q (json, csv)", format)
}

func writeDataset(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if datasetFile == "" {
			return fmt.Errorf("need a symbol or --dataset")
		}
		data, err := dataset.Load(datasetFile)
		if err != nil {
			return err
		}
		describeDataset(data)
		return nil
	}

	z, err := dataset.AtomicNumber(args[0])
	if err != nil {
		return err
	}
	data, err := dataset.Synthetic(z)
	if err != nil {
		return err
	}
	path := datasetOut
	if path == "" {
		path = data.Symbol + ".yaml"
	}
	if err := dataset.Save(path, data); err != nil {
		return err
	}
	describeDataset(data)
	fmt.Printf("wrote %s\n", path)
	return nil
}

func describeDataset(d *dataset.Electroatom) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "atom\t%s (Z=%d)\n", d.Symbol, d.Z)
	fmt.Fprintf(w, "energy grid\t%d points, %g to %g MeV\n", len(d.Energies), d.Energies[0], d.Energies[len(d.Energies)-1])
	fmt.Fprintf(w, "elastic tables\t%d\n", len(d.Elastic.Angular))
	fmt.Fprintf(w, "subshells\t%d\n", len(d.Subshells))
	fmt.Fprintf(w, "relaxation\t%d vacancies\n", len(d.Relaxation))
	w.Flush()
}

func printConfig(cmd *cobra.Command, args []string) error {
	if showPresets {
		for _, name := range properties.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}
	p, err := loadProperties(cmd)
	if err != nil {
		return err
	}
	if configOut != "" {
		return properties.Save(configOut, p)
	}
	out, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
