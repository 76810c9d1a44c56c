package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/san-kum/lifenet/internal/config"
	"github.com/san-kum/lifenet/internal/logging"
	"github.com/san-kum/lifenet/internal/storage"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	seed       int64
	frames     int
	nodes      int
	maxNodes   int
	speed      float64
	repulsion  float64
	distance   float64

	cfg    *config.Config
	logger zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "lifenet",
		Short:             "force-directed network running a relaxed game of life",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "apply a named preset over the config")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn, error or off")
	pf.Int64Var(&seed, "seed", 42, "random seed")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	pf.IntVar(&nodes, "nodes", 0, "initial node count")
	pf.IntVar(&maxNodes, "max-nodes", 0, "node capacity")
	pf.Float64Var(&speed, "speed", 1, "generation speed multiplier")
	pf.Float64Var(&repulsion, "repulsion", 0, "repulsion multiplier")
	pf.Float64Var(&distance, "distance", 0, "connection distance")

	rootCmd.AddCommand(
		runCmd(), liveCmd(), listCmd(), plotCmd(), analyzeCmd(),
		exportJSONCmd(), exportSVGCmd(), presetsCmd(),
		sweepCmd(), scenarioCmd(), survivalCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file, applies the preset and then every flag the
// user set explicitly, and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	c := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}
	if preset != "" && !config.Apply(c, preset) {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		c.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("seed") {
		c.World.Seed = seed
	}
	if flags.Changed("frames") {
		c.Frames = frames
	}
	if flags.Changed("nodes") {
		c.World.Layout.NodeCount = nodes
	}
	if flags.Changed("max-nodes") {
		c.World.Layout.MaxNodes = maxNodes
	}
	if flags.Changed("speed") {
		c.World.Speed = speed
	}
	if flags.Changed("repulsion") {
		c.World.Layout.Repulsion = repulsion
	}
	if flags.Changed("distance") {
		c.World.Layout.ConnectionDistance = distance
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.Init(c.LogLevel)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

func store() (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
