package metrics

import (
	"github.com/san-kum/lifenet/internal/analysis"
	"github.com/san-kum/lifenet/internal/sim"
)

// Components tracks the number of connected components. Counting is
// linear in the graph size, so it samples every n-th frame.
type Components struct {
	name  string
	every int
	last  int
	peak  int
}

func NewComponents(every int) *Components {
	if every < 1 {
		every = 1
	}
	return &Components{name: "components", every: every}
}

func (c *Components) Name() string { return c.name }

func (c *Components) Observe(f sim.Frame) {
	if f.Index%c.every != 0 {
		return
	}
	c.last = len(analysis.Components(f.World.Graph()))
	c.peak = max(c.peak, c.last)
}

// Value is the component count at the last sampled frame.
func (c *Components) Value() float64 { return float64(c.last) }

func (c *Components) Peak() int { return c.peak }

func (c *Components) Reset() {
	c.last = 0
	c.peak = 0
}
