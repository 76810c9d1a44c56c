package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/san-kum/lifenet/internal/config"
	"github.com/san-kum/lifenet/internal/export"
	"github.com/san-kum/lifenet/internal/metrics"
	"github.com/san-kum/lifenet/internal/sim"
	"github.com/san-kum/lifenet/internal/viz"
	"github.com/spf13/cobra"
)

const (
	svgSize         = 800
	componentsEvery = 60
	escapeFactor    = 1.5
)

var (
	label       string
	svgPath     string
	showMetrics bool
	watch       bool
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		RunE:  runSimulation,
	}
	cmd.Flags().StringVar(&label, "label", "", "label stored with the run")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the final network as SVG")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the run's prometheus metrics")
	return cmd
}

// addMetrics registers the standard run metrics.
func addMetrics(s *sim.Simulator) {
	s.AddMetric(metrics.NewPopulation())
	s.AddMetric(metrics.NewTurnover())
	s.AddMetric(metrics.NewEdgeDensity())
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewContainment(escapeFactor))
	s.AddMetric(metrics.NewComponents(componentsEvery))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	st, err := store()
	if err != nil {
		return err
	}
	w, err := sim.NewWorld(cfg.World, logger)
	if err != nil {
		return err
	}
	if label == "" {
		label = preset
	}

	runner := sim.New()
	addMetrics(runner)
	collector := metrics.NewCollector(label)
	runner.AddObserver(collector)

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info().Int64("seed", cfg.World.Seed).Int("nodes", w.Len()).Int("frames", cfg.Frames).Msg("running simulation")
	start := time.Now()
	result, err := runner.Run(ctx, w, cfg.RunConfig())
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		logger.Warn().Int("frames", result.FramesRun).Msg("interrupted, saving partial run")
	}

	snap := w.Snapshot()
	runID, err := st.Save(label, cfg.World, cfg.RunConfig(), result, &snap)
	if err != nil {
		return err
	}
	logger.Info().Str("run", runID).Dur("elapsed", time.Since(start)).Msg("run saved")

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  generation: %d\n", result.FramesRun, w.Generation())
	fmt.Printf("nodes: %d  alive: %d  edges: %d\n", w.Len(), w.AliveCount(), w.ConnectionCount())
	fmt.Printf("births: %d  deaths: %d\n", result.Births, result.Deaths)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if showMetrics {
		fmt.Println()
		if err := collector.WriteText(os.Stdout); err != nil {
			return err
		}
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.NetworkToSVG(snap, svgSize)), 0644); err != nil {
			return err
		}
		fmt.Printf("\nnetwork written to %s\n", svgPath)
	}
	return nil
}

func liveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "run the network in the terminal viewer",
		RunE:  runLive,
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload parameters when the config file changes")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	// the viewer owns the terminal, so the world stays quiet
	w, err := sim.NewWorld(cfg.World, zerolog.Nop())
	if err != nil {
		return err
	}
	model := viz.NewModel(w, cfg.FrameDuration)

	ctx, cancel := signalContext()
	defer cancel()

	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		reloads := make(chan viz.ReloadMsg, 1)
		go func() {
			err := config.Watch(ctx, configFile, func(c *config.Config, err error) {
				msg := viz.ReloadMsg{Err: err}
				if c != nil {
					msg.Config = c.World
				}
				select {
				case reloads <- msg:
				default:
				}
			})
			if err != nil {
				logger.Error().Err(err).Msg("config watch stopped")
			}
		}()
		model = model.WithReloads(reloads)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
