package transport

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/radsim/internal/contract"
	"github.com/san-kum/radsim/internal/rng"
)

// Run runs cfg.Histories histories and summarizes them. Histories are split
// into batches that run concurrently, each history with its own random
// stream, so results do not depend on the number of workers.
func (r *Runner) Run(ctx context.Context, cfg Config, progress Progress) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	r.logger.Debug("run start",
		"particle", r.source.Particle(),
		"histories", cfg.Histories,
		"energy", cfg.Energy,
		"workers", cfg.Workers,
	)
	tallies, err := r.RunRange(ctx, cfg, 0, cfg.Histories, progress)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Particle: r.source.Particle(),
		Atom:     r.source.Symbol(),
		Config:   cfg,
		Tallies:  tallies,
		Summary:  Summarize(tallies, cfg.AngleBins),
		Metrics:  make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		m.Reset()
		for i := range tallies {
			m.Observe(&tallies[i])
		}
		res.Metrics[m.Name()] = m.Value()
	}
	r.logger.Debug("run done", "elapsed", time.Since(start), "collisions", res.Summary.Collisions.Mean)
	return res, nil
}

// RunRange runs histories first to first+n-1. Each history's random stream
// depends only on cfg.Seed and its number, so consecutive ranges reproduce
// one long run.
func (r *Runner) RunRange(ctx context.Context, cfg Config, first, n int, progress Progress) ([]HistoryTally, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	tallies := make([]HistoryTally, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	var done atomic.Int64
	for lo := 0; lo < n; lo += cfg.BatchSize {
		hi := min(lo+cfg.BatchSize, n)
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = contract.Recover(rec)
				}
			}()
			bank := r.pool.Get()
			defer r.pool.Put(bank)

			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				h := int64(first + i)
				tallies[i] = r.RunHistory(h, cfg, rng.ForHistory(cfg.Seed, h), bank)
				if d := done.Add(1); progress != nil {
					progress(int(d), n)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tallies, nil
}
