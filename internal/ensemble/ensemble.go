// Package ensemble runs the same scenario across a range of seeds in
// parallel, one goroutine per run, and gathers per-run metrics.
package ensemble

import (
	"context"
	"sync"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/phys"
	"github.com/san-kum/rigidsim/internal/scene"
	"github.com/san-kum/rigidsim/internal/storage"
)

// Result is the outcome of one seeded run.
type Result struct {
	Seed    int64
	Metrics map[string]float64
}

type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
}

func New(cfg *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// Run executes every seed to completion. The context cancels runs
// between steps.
func (e *Ensemble) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			results[idx], errs[idx] = runOne(ctx, &cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func runOne(ctx context.Context, cfg *config.Config) (Result, error) {
	sc, err := scene.Build(cfg)
	if err != nil {
		return Result{}, err
	}

	mp, err := phys.BoxMass(cfg.Box.Density, cfg.Box.HalfExtents.Vec())
	if err != nil {
		return Result{}, err
	}

	collector := metrics.NewCollector(
		metrics.NewEnergy(mp, cfg.World.Gravity.Vec()),
		metrics.NewMinHeight(),
		metrics.NewFinalHeight(),
		metrics.NewSettleTime(cfg.World.DisableLinThreshold, cfg.World.DisableAngThreshold),
	)

	for i := 0; i < cfg.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		collector.Observe(storage.Sample{
			Time:        sc.World.Time(),
			Position:    sc.Box.Position,
			Orientation: sc.Box.Orientation,
			LinearVel:   sc.Box.LinearVel,
			AngularVel:  sc.Box.AngularVel,
			Contacts:    sc.World.ContactCount(),
		})

		if err := sc.Step(cfg.Dt); err != nil {
			return Result{}, err
		}
	}

	return Result{Seed: cfg.Seed, Metrics: collector.Values()}, nil
}
