package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifenet/internal/analysis"
	"github.com/san-kum/lifenet/internal/export"
	"github.com/san-kum/lifenet/internal/sim"
	"github.com/san-kum/lifenet/internal/storage"
	"github.com/spf13/cobra"
)

const (
	divergenceTicks = 300
	divergenceKick  = 1e-3
)

var outPath string

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tSEED\tFRAMES\tGEN\tNODES\tALIVE\tEDGES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			shortID(run.ID),
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Frames,
			run.Final.Generation,
			run.Final.Nodes,
			run.Final.Alive,
			run.Final.Edges,
		)
	}
	return w.Flush()
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot population, size and edges of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringVar(&outPath, "svg", "", "also write the alive count as SVG")
	return cmd
}

func series(samples []sim.Sample, field func(sim.Sample) int) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(field(s))
	}
	return out
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("samples: %d\n\n", len(samples))

	plots := []struct {
		caption string
		field   func(sim.Sample) int
	}{
		{"alive nodes", func(s sim.Sample) int { return s.Alive }},
		{"graph size", func(s sim.Sample) int { return s.Nodes }},
		{"edges", func(s sim.Sample) int { return s.Edges }},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(series(samples, p.field),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if outPath != "" {
		alive := series(samples, plots[0].field)
		if err := os.WriteFile(outPath, []byte(export.SeriesToSVG(alive, svgSize, svgSize/3, "#00ff88")), 0644); err != nil {
			return err
		}
		fmt.Printf("alive count written to %s\n", outPath)
	}
	return nil
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "network structure and population spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n\n", meta.ID)

	snap, err := st.LoadNetwork(meta.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("no final network stored")
	} else {
		deg := analysis.Degrees(snap)
		comps := analysis.Components(snap)
		fmt.Println("final network:")
		fmt.Printf("  nodes: %d  alive: %d  edges: %d\n", snap.Len(), snap.AliveCount(), len(snap.Edges()))
		fmt.Printf("  degree: mean %.2f  stddev %.2f  min %d  max %d  isolated %d\n",
			deg.Mean, deg.StdDev, deg.Min, deg.Max, deg.Isolated)
		fmt.Printf("  components: %d", len(comps))
		if len(comps) > 0 {
			fmt.Printf("  largest: %d", len(comps[0]))
		}
		fmt.Println()
	}

	alive := series(samples, func(s sim.Sample) int { return s.Alive })
	if len(alive) >= 4 {
		period := analysis.DominantPeriod(alive)
		fmt.Println("\npopulation:")
		if period > 0 {
			fmt.Printf("  dominant period: %.1f frames (%.1f ms)\n", period, period*meta.FrameDuration)
		} else {
			fmt.Println("  dominant period: none")
		}

		edges := series(samples, func(s sim.Sample) int { return s.Edges })
		portrait := analysis.NewPhasePortrait("alive", alive, "edges", edges)
		fmt.Println()
		fmt.Println(analysis.PhasePortraitToASCII(portrait, 60, 20))
	}

	div := analysis.LayoutDivergence(meta.World.Layout, meta.Seed, divergenceTicks, divergenceKick)
	fmt.Printf("\nlayout divergence after %d ticks from a %.0e kick: %.4f\n", divergenceTicks, divergenceKick, div)
	return nil
}

func exportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata, history and network as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := storage.New(cfg.DataDir).Export(args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				return storage.ExportJSONStdout(data)
			}
			if err := storage.ExportJSON(outPath, data); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportSVGCmd() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "export-svg [run_id] [file]",
		Short: "draw the final network of a run as SVG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := storage.New(cfg.DataDir).LoadNetwork(args[0])
			if err != nil {
				return err
			}
			return os.WriteFile(args[1], []byte(export.NetworkToSVG(*snap, size)), 0644)
		},
	}
	cmd.Flags().IntVar(&size, "size", svgSize, "image width and height")
	return cmd
}

func shortID(id string) string {
	return id[:min(8, len(id))]
}
