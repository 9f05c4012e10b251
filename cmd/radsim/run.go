package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/radsim/internal/metrics"
	"github.com/san-kum/radsim/internal/properties"
	"github.com/san-kum/radsim/internal/transport"
	"github.com/san-kum/radsim/internal/viz"
)

func setupRun(cmd *cobra.Command) (*properties.Properties, *transport.Runner, transport.Config, error) {
	props, err := loadProperties(cmd)
	if err != nil {
		return nil, nil, transport.Config{}, err
	}
	data, err := loadDataset(props)
	if err != nil {
		return nil, nil, transport.Config{}, err
	}
	runner, err := transport.NewFromProperties(data, props, newLogger())
	if err != nil {
		return nil, nil, transport.Config{}, err
	}
	for _, m := range metrics.Standard(props.Energy) {
		runner.AddMetric(m)
	}
	cfg := transport.ConfigFromProperties(props)
	cfg.BatchSize = batchSize
	cfg.AngleBins = angleBins
	return props, runner, cfg, nil
}

func saveResult(ctx context.Context, res *transport.Result) error {
	if noSave {
		return nil
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	id, err := st.Save(ctx, res)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %d\n", id)
	return nil
}

func runHistories(cmd *cobra.Command, args []string) error {
	props, runner, cfg, err := setupRun(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "running %d %s histories in %s...\n", cfg.Histories, props.Particle, props.Atom)
	step := max(cfg.Histories/100, 1)
	start := time.Now()
	res, err := runner.Run(ctx, cfg, func(done, total int) {
		if done%step == 0 || done == total {
			fmt.Fprintf(os.Stderr, "\r%d/%d", done, total)
		}
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "completed in %v\n", time.Since(start).Round(time.Millisecond))

	fmt.Print(viz.Report(res, viz.GetTheme(themeName)))
	return saveResult(ctx, res)
}

func runLive(cmd *cobra.Command, args []string) error {
	props, runner, cfg, err := setupRun(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	title := fmt.Sprintf("%s %s %g MeV", props.Atom, props.Particle, props.Energy)
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = transport.DefaultBatchSize * max(runtime.GOMAXPROCS(0), 1)
	}
	m := viz.NewModel(ctx, title, cfg.Histories, batch, cfg.AngleBins,
		func(ctx context.Context, first, n int) ([]transport.HistoryTally, error) {
			return runner.RunRange(ctx, cfg, first, n, nil)
		}).WithTheme(viz.GetTheme(themeName))

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	cancel()

	fm := final.(viz.Model)
	if fm.Err() != nil {
		return fm.Err()
	}
	if !fm.Done() {
		return nil
	}
	// Metrics are recomputed from the finished tallies.
	res := &transport.Result{
		Particle: props.Particle,
		Atom:     props.Atom,
		Config:   cfg,
		Tallies:  fm.Tallies(),
		Summary:  transport.Summarize(fm.Tallies(), cfg.AngleBins),
		Metrics:  make(map[string]float64),
	}
	for _, metric := range metrics.Standard(props.Energy) {
		for i := range res.Tallies {
			metric.Observe(&res.Tallies[i])
		}
		res.Metrics[metric.Name()] = metric.Value()
	}
	fmt.Print(viz.Report(res, viz.GetTheme(themeName)))
	return saveResult(context.Background(), res)
}

func benchHistories(cmd *cobra.Command, args []string) error {
	_, runner, cfg, err := setupRun(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var counts []int
	for n := 1; n < runtime.GOMAXPROCS(0); n *= 2 {
		counts = append(counts, n)
	}
	counts = append(counts, runtime.GOMAXPROCS(0))
	if workers > 0 {
		counts = []int{workers}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tHISTORIES\tELAPSED\tHISTORIES/S\tCOLLISIONS/S")
	for _, n := range counts {
		cfg.Workers = n
		var collisions int64
		start := time.Now()
		tallies, err := runner.RunRange(ctx, cfg, 0, cfg.Histories, nil)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		for _, t := range tallies {
			collisions += int64(t.Collisions)
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.3g\n", n, cfg.Histories, elapsed.Round(time.Millisecond),
			float64(cfg.Histories)/elapsed.Seconds(), float64(collisions)/elapsed.Seconds())
	}
	return w.Flush()
}
