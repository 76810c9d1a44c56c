package automation

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/san-kum/lifenet/internal/sim"
)

// SurvivalConfig runs the same configuration under many seeds.
type SurvivalConfig struct {
	Base      sim.Config
	Run       sim.RunConfig
	NumTrials int
	SeedStart int64
	Parallel  int
}

// SurvivalResult holds the outcome of one trial.
type SurvivalResult struct {
	Seed       int64 `json:"seed"`
	PeakAlive  int   `json:"peak_alive"`
	FinalAlive int   `json:"final_alive"`
	Extinct    bool  `json:"extinct"`
}

// RunSurvival executes NumTrials worlds with consecutive seeds.
func RunSurvival(ctx context.Context, cfg *SurvivalConfig, logger zerolog.Logger) ([]SurvivalResult, error) {
	ens := sim.NewEnsemble(nil, logger)
	if cfg.Parallel > 0 {
		ens.SetLimit(cfg.Parallel)
	}
	runs, err := ens.Run(ctx, sim.Seeds(cfg.Base, cfg.NumTrials, cfg.SeedStart), cfg.Run)
	if err != nil {
		return nil, err
	}

	results := make([]SurvivalResult, len(runs))
	for i, r := range runs {
		res := SurvivalResult{Seed: r.Seed}
		for _, s := range r.Samples {
			res.PeakAlive = max(res.PeakAlive, s.Alive)
		}
		if n := len(r.Samples); n > 0 {
			res.FinalAlive = r.Samples[n-1].Alive
		}
		res.Extinct = res.FinalAlive == 0
		results[i] = res
	}
	return results, nil
}

// SurvivalStats counts surviving and extinct trials.
func SurvivalStats(results []SurvivalResult) (survived int, extinct int) {
	for _, r := range results {
		if r.Extinct {
			extinct++
		} else {
			survived++
		}
	}
	return
}
