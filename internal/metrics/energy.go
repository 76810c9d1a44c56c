package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/lifenet/internal/sim"
)

// KineticEnergy is the mean over frames of the total kinetic energy of the
// layout. It falls towards zero as the layout settles.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f sim.Frame) {
	ke := 0.0
	for _, n := range f.World.Nodes() {
		ke += 0.5 * n.Mass * r3.Norm2(n.Vel)
	}
	e.last = ke
	e.total += ke
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the energy seen on the most recent frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}
