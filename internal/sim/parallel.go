package sim

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent worlds concurrently, one goroutine each. Worlds
// never share state; setup is called on a fresh Simulator per run so
// metrics are never shared either.
type Ensemble struct {
	setup func(*Simulator)
	limit int
	log   zerolog.Logger
}

func NewEnsemble(setup func(*Simulator), logger zerolog.Logger) *Ensemble {
	return &Ensemble{setup: setup, limit: -1, log: logger}
}

// SetLimit caps the number of worlds running at once. Negative means no
// limit.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Seeds returns runs copies of base with consecutive seeds from seedStart.
func Seeds(base Config, runs int, seedStart int64) []Config {
	cfgs := make([]Config, runs)
	for i := range cfgs {
		cfgs[i] = base
		cfgs[i].Seed = seedStart + int64(i)
	}
	return cfgs
}

// Run builds and runs one world per config. Results are in config order.
// The first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfgs []Config, rc RunConfig) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, cfg := range cfgs {
		g.Go(func() error {
			w, err := NewWorld(cfg, e.log)
			if err != nil {
				return err
			}
			s := New()
			if e.setup != nil {
				e.setup(s)
			}
			res, err := s.Run(ctx, w, rc)
			if err != nil {
				return err
			}
			results[i] = res
			e.log.Debug().Int("run", i).Int64("seed", cfg.Seed).Int("alive", w.AliveCount()).Msg("ensemble run done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
