package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/radsim/internal/dataset"
	"github.com/san-kum/radsim/internal/logging"
	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/storage"
	"github.com/san-kum/radsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	datasetFile string
	logLevel    string
	logJSON     bool

	atomSymbol   string
	particleName string
	energy       float64
	histories    int
	seed         int64
	workers      int
	batchSize    int
	angleBins    int
	noSave       bool
	themeName    string

	samples     int
	sampleBins  int
	exportOut   string
	datasetOut  string
	configOut   string
	format      string
	showPresets bool
)

// main registers the commands and runs the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "radsim",
		Short:        "electron, positron and adjoint electron collision physics",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".radsim", "data directory")
	pf.StringVar(&configFile, "config", "", "properties file (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&datasetFile, "dataset", "", "electroatom data file (yaml); synthetic data when empty")
	pf.StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error")
	pf.BoolVar(&logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&atomSymbol, "atom", "", "element symbol")
	pf.StringVar(&particleName, "particle", "", "electron, positron or adjoint_electron")
	pf.Float64Var(&energy, "energy", 0, "source energy (MeV)")
	pf.Int64Var(&seed, "seed", 0, "random seed")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run histories and store the result",
		Args:  cobra.NoArgs,
		RunE:  runHistories,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run histories with a live view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure histories per second against the worker count",
		Args:  cobra.NoArgs,
		RunE:  benchHistories,
	}
	addRunFlags(benchCmd)

	sampleCmd := &cobra.Command{
		Use:   "sample [reaction]",
		Short: "sample one reaction and plot the outgoing angle and energy",
		Args:  cobra.ExactArgs(1),
		RunE:  sampleReaction,
	}
	sampleCmd.Flags().IntVar(&samples, "samples", 10000, "number of samples")
	sampleCmd.Flags().IntVar(&sampleBins, "bins", 40, "histogram bins")

	relaxCmd := &cobra.Command{
		Use:   "relax [subshell]",
		Short: "relax a vacancy and list the emitted lines",
		Args:  cobra.ExactArgs(1),
		RunE:  relaxVacancy,
	}
	relaxCmd.Flags().IntVar(&samples, "samples", 10000, "number of vacancies")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or csv")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")

	datasetCmd := &cobra.Command{
		Use:   "dataset [symbol]",
		Short: "write synthetic electroatom data, or check --dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeDataset,
	}
	datasetCmd.Flags().StringVarP(&datasetOut, "out", "o", "", "output file (default <symbol>.yaml)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective properties",
		Args:  cobra.NoArgs,
		RunE:  printConfig,
	}
	configCmd.Flags().BoolVar(&showPresets, "presets", false, "list preset names")
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, sampleCmd, relaxCmd, listCmd, exportCmd, datasetCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&histories, "histories", "n", 0, "number of histories")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default GOMAXPROCS)")
	cmd.Flags().IntVar(&batchSize, "batch", 0, "histories per batch")
	cmd.Flags().IntVar(&angleBins, "bins", 0, "first-collision angle bins")
	cmd.Flags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name,
		fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))
}

func newLogger() *slog.Logger {
	if logJSON {
		return logging.NewJSONLogger(logLevel, os.Stderr)
	}
	return logging.NewLogger(logLevel, os.Stderr)
}

// loadProperties builds the properties from the preset, then the config
// file, then any flags given on the command line.
func loadProperties(cmd *cobra.Command) (*properties.Properties, error) {
	p := properties.Default()
	if preset != "" {
		if p = properties.GetPreset(preset); p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, properties.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if p, err = properties.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("atom") {
		p.Atom = atomSymbol
	}
	if flags.Changed("particle") {
		t, err := particle.ParseType(particleName)
		if err != nil {
			return nil, err
		}
		p.Particle = t
	}
	if flags.Changed("energy") {
		p.Energy = energy
	}
	if flags.Changed("seed") {
		p.Seed = seed
	}
	if flags.Lookup("histories") != nil && flags.Changed("histories") {
		p.Histories = histories
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		p.Workers = workers
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func loadDataset(p *properties.Properties) (*dataset.Electroatom, error) {
	if datasetFile != "" {
		return dataset.Load(datasetFile)
	}
	z, err := dataset.AtomicNumber(p.Atom)
	if err != nil {
		return nil, err
	}
	return dataset.Synthetic(z)
}

func openStore() (*storage.Store, error) {
	return storage.Open(filepath.Join(dataDir, "radsim.db"))
}
