package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/lifenet/internal/automation"
	"github.com/san-kum/lifenet/internal/config"
	"github.com/san-kum/lifenet/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	parallel  int
	sweepMin  float64
	sweepMax  float64
	sweepN    int
	trials    int
	seedStart int64
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-8s %s\n", name, config.Presets[name].Description)
			}
		},
	}
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "run one world per value of a parameter",
		Long:  fmt.Sprintf("Runs one world per evenly spaced value of a parameter.\nParameters: %v", automation.SweepParams()),
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	cmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	cmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	cmd.Flags().IntVar(&sweepN, "steps", 5, "number of values")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "worlds run at once (0 for no limit)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepN,
		Run:       cfg.RunConfig(),
		Parallel:  parallel,
	}
	results, err := automation.RunSweep(ctx, sweep, cfg.World, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN ALIVE\tDENSITY\tALIVE\tNODES\tEDGES\tGEN\tBIRTHS\tDEATHS\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.1f\t%.4f\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.ParamValue, r.MeanPopulation, r.EdgeDensity,
			r.FinalAlive, r.FinalNodes, r.FinalEdges, r.Generations, r.Births, r.Deaths)
	}
	return w.Flush()
}

func scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a scripted scenario and store the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	s, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st, err := store()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	collector := metrics.NewCollector(s.Name)
	result, w, err := automation.RunScenario(ctx, s, cfg, logger, collector)
	if err != nil {
		return err
	}

	runCfg := s.Configure(cfg)
	snap := w.Snapshot()
	runID, err := st.Save(s.Name, runCfg.World, runCfg.RunConfig(), result, &snap)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", s.Name)
	if s.Description != "" {
		fmt.Printf("  %s\n", s.Description)
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  generation: %d  alive: %d/%d\n", result.FramesRun, w.Generation(), w.AliveCount(), w.Len())
	counts, err := collector.Snapshot()
	if err != nil {
		return err
	}
	fmt.Println("\ncounters:")
	printMetrics(counts)
	return nil
}

func survivalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "survival",
		Short: "run the config under many seeds and count extinctions",
		RunE:  runSurvival,
	}
	cmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")
	cmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "worlds run at once (0 for no limit)")
	return cmd
}

func runSurvival(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSurvival(ctx, &automation.SurvivalConfig{
		Base:      cfg.World,
		Run:       cfg.RunConfig(),
		NumTrials: trials,
		SeedStart: seedStart,
		Parallel:  parallel,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPEAK\tFINAL\tEXTINCT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\n", r.Seed, r.PeakAlive, r.FinalAlive, r.Extinct)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	survived, extinct := automation.SurvivalStats(results)
	fmt.Printf("\nsurvived: %d  extinct: %d  (%.0f%%)\n", survived, extinct, 100*float64(survived)/float64(max(1, len(results))))
	return nil
}
