package metrics

import "github.com/san-kum/lifenet/internal/sim"

// EdgeDensity is the mean number of edges per node over the run.
type EdgeDensity struct {
	name    string
	sum     float64
	samples int
}

func NewEdgeDensity() *EdgeDensity {
	return &EdgeDensity{name: "edge_density"}
}

func (e *EdgeDensity) Name() string { return e.name }

func (e *EdgeDensity) Observe(f sim.Frame) {
	n := f.World.Len()
	if n == 0 {
		return
	}
	e.sum += float64(f.World.ConnectionCount()) / float64(n)
	e.samples++
}

func (e *EdgeDensity) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *EdgeDensity) Reset() {
	e.sum = 0
	e.samples = 0
}
