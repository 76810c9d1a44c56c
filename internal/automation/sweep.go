package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/metrics"
	"github.com/san-kum/lifenet/internal/sim"
)

var sweepParams = map[string]func(*sim.Config, float64){
	"repulsion":           func(c *sim.Config, v float64) { c.Layout.Repulsion = v },
	"connection_distance": func(c *sim.Config, v float64) { c.Layout.ConnectionDistance = v },
	"node_count":          func(c *sim.Config, v float64) { c.Layout.NodeCount = int(v) },
	"speed":               func(c *sim.Config, v float64) { c.Speed = v },
	"death_probability":   func(c *sim.Config, v float64) { c.Life.DeathProbability = v },
	"birth_probability":   func(c *sim.Config, v float64) { c.Life.BirthProbability = v },
	"min_connections":     func(c *sim.Config, v float64) { c.Life.MinConnections = int(v) },
	"birth_threshold":     func(c *sim.Config, v float64) { c.Life.BirthThreshold = int(v) },
}

// SweepParams lists the parameter names a sweep accepts.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetParam sets a named parameter on cfg.
func SetParam(cfg *sim.Config, name string, v float64) error {
	set, ok := sweepParams[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}
	set(cfg, v)
	return nil
}

// ParameterSweep runs one world per evenly spaced value of a parameter.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Run       sim.RunConfig
	Parallel  int
}

// SweepResult summarises one world of a sweep.
type SweepResult struct {
	ParamValue     float64 `json:"param_value"`
	MeanPopulation float64 `json:"mean_population"`
	EdgeDensity    float64 `json:"edge_density"`
	FinalAlive     int     `json:"final_alive"`
	FinalNodes     int     `json:"final_nodes"`
	FinalEdges     int     `json:"final_edges"`
	Generations    int     `json:"generations"`
	Births         int     `json:"births"`
	Deaths         int     `json:"deaths"`
}

func (s *ParameterSweep) Values() ([]float64, error) {
	if s.NumSteps < 1 {
		return nil, fmt.Errorf("sweep steps %d: %w", s.NumSteps, dynamo.ErrParameterBounds)
	}
	if s.NumSteps == 1 {
		return []float64{s.ParamMin}, nil
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	values := make([]float64, s.NumSteps)
	for i := range values {
		values[i] = s.ParamMin + float64(i)*step
	}
	return values, nil
}

// RunSweep executes a parameter sweep. All worlds share base's seed, so
// the parameter is the only difference between them.
func RunSweep(ctx context.Context, sweep *ParameterSweep, base sim.Config, logger zerolog.Logger) ([]SweepResult, error) {
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}

	cfgs := make([]sim.Config, len(values))
	for i, v := range values {
		cfgs[i] = base
		if err := SetParam(&cfgs[i], sweep.ParamName, v); err != nil {
			return nil, err
		}
	}

	ens := sim.NewEnsemble(func(s *sim.Simulator) {
		s.AddMetric(metrics.NewPopulation())
		s.AddMetric(metrics.NewEdgeDensity())
	}, logger)
	if sweep.Parallel > 0 {
		ens.SetLimit(sweep.Parallel)
	}

	logger.Info().Str("param", sweep.ParamName).Int("steps", len(values)).Msg("running sweep")
	runs, err := ens.Run(ctx, cfgs, sweep.Run)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		last := r.Samples[len(r.Samples)-1]
		results[i] = SweepResult{
			ParamValue:     values[i],
			MeanPopulation: r.Metrics["population"],
			EdgeDensity:    r.Metrics["edge_density"],
			FinalAlive:     last.Alive,
			FinalNodes:     last.Nodes,
			FinalEdges:     last.Edges,
			Generations:    last.Generation,
			Births:         r.Births,
			Deaths:         r.Deaths,
		}
	}
	return results, nil
}
