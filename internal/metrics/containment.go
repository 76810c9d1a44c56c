package metrics

import (
	"math"

	"github.com/san-kum/lifenet/internal/sim"
)

// Containment is the fraction of frames in which every node stayed within
// factor times the layout bounds on every axis.
type Containment struct {
	name       string
	factor     float64
	violations int
	samples    int
}

func NewContainment(factor float64) *Containment {
	return &Containment{
		name:   "containment",
		factor: factor,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	limit := c.factor * f.World.Config().Layout.Bounds
	for _, n := range f.World.Nodes() {
		if math.Abs(n.Pos.X) > limit || math.Abs(n.Pos.Y) > limit || math.Abs(n.Pos.Z) > limit {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
