package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/san-kum/lifenet/internal/sim"
)

const namespace = "lifenet"

// Collector mirrors world state into Prometheus gauges and counters. Each
// collector owns its registry, so several runs can be collected side by
// side.
type Collector struct {
	registry *prometheus.Registry

	nodes      prometheus.Gauge
	alive      prometheus.Gauge
	edges      prometheus.Gauge
	generation prometheus.Gauge
	births     prometheus.Counter
	deaths     prometheus.Counter
	collected  prometheus.Counter
	suppressed prometheus.Counter
	stepSize   prometheus.Histogram
}

func NewCollector(run string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"run": run}

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "world",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "life",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	return &Collector{
		registry:   reg,
		nodes:      gauge("nodes", "Nodes in the graph, including fading ones."),
		alive:      gauge("alive", "Nodes in the alive-set."),
		edges:      gauge("edges", "Distinct edges in the graph."),
		generation: gauge("generation", "Life steps since the last reset."),
		births:     counter("births_total", "Nodes born."),
		deaths:     counter("deaths_total", "Nodes that died."),
		collected:  counter("collected_total", "Tombstoned nodes removed from the graph."),
		suppressed: counter("suppressed_births_total", "Births dropped at capacity."),
		stepSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "life",
			Name:        "step_changes",
			Help:        "Births plus deaths per life step.",
			Buckets:     []float64{0, 1, 2, 3, 4, 5},
			ConstLabels: labels,
		}),
	}
}

// OnFrame implements sim.Observer.
func (c *Collector) OnFrame(f sim.Frame) error {
	w := f.World
	c.nodes.Set(float64(w.Len()))
	c.alive.Set(float64(w.AliveCount()))
	c.edges.Set(float64(w.ConnectionCount()))
	c.generation.Set(float64(w.Generation()))

	rep := f.Report
	c.births.Add(float64(len(rep.Births)))
	c.deaths.Add(float64(len(rep.Deaths)))
	c.collected.Add(float64(len(rep.Collected)))
	c.suppressed.Add(float64(rep.Suppressed))
	if rep.Stepped {
		c.stepSize.Observe(float64(len(rep.Births) + len(rep.Deaths)))
	}
	return nil
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Snapshot gathers every gauge and counter into a name to value map.
// Histograms report their sample count.
func (c *Collector) Snapshot() (map[string]float64, error) {
	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out[mf.GetName()] = value(mf.GetType(), m)
		}
	}
	return out, nil
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	}
	return 0
}

// WriteText prints the snapshot as sorted name value lines.
func (c *Collector) WriteText(w io.Writer) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%-40s %g\n", name, snap[name]); err != nil {
			return err
		}
	}
	return nil
}
