package layout

import (
	"math"

	"github.com/san-kum/lifenet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	repulsionScale  = 100.0
	springStrength  = 0.01
	restLengthRatio = 0.6
	centerPull      = 0.001
	boundaryImpulse = 0.5
	Damping         = 0.85

	repulsionZ = 0.5
	springZ    = 0.3
)

// Update advances the layout by one tick. It is meant to run once per
// rendered frame, so there is no timestep.
func (g *Graph) Update(p dynamo.Params) {
	g.repel(p.Repulsion)
	g.attract(p.ConnectionDistance)

	b := g.cfg.Bounds
	for _, n := range g.nodes {
		n.Vel.X -= n.Pos.X * centerPull
		n.Vel.Y -= n.Pos.Y * centerPull
		n.Vel.Z -= n.Pos.Z * centerPull * 2

		n.Vel.X += contain(n.Pos.X, b)
		n.Vel.Y += contain(n.Pos.Y, b)
		n.Vel.Z += contain(n.Pos.Z, b/2)

		n.Pos = r3.Add(n.Pos, n.Vel)
		n.Vel = r3.Scale(Damping, n.Vel)
	}
}

// repel pushes every pair apart with an inverse-square force.
func (g *Graph) repel(repulsion float64) {
	strength := repulsion * repulsionScale
	for i := 0; i < len(g.nodes); i++ {
		a := g.nodes[i]
		for j := i + 1; j < len(g.nodes); j++ {
			b := g.nodes[j]
			d := r3.Sub(b.Pos, a.Pos)
			dist := math.Max(r3.Norm(d), 1)
			f := r3.Scale(strength/(dist*dist*dist), d)
			f.Z *= repulsionZ

			a.Vel = r3.Sub(a.Vel, r3.Scale(1/a.Mass, f))
			b.Vel = r3.Add(b.Vel, r3.Scale(1/b.Mass, f))
		}
	}
}

// attract pulls each edge toward the rest length. Edges are visited once,
// from the lower index.
func (g *Graph) attract(connectionDistance float64) {
	rest := connectionDistance * restLengthRatio
	for i, a := range g.nodes {
		for _, id := range a.Connections {
			j, ok := g.index[id]
			if !ok || j <= i {
				continue
			}
			b := g.nodes[j]
			d := r3.Sub(b.Pos, a.Pos)
			dist := math.Max(r3.Norm(d), 1)
			f := r3.Scale((dist-rest)*springStrength/dist, d)
			f.Z *= springZ

			a.Vel = r3.Add(a.Vel, f)
			b.Vel = r3.Sub(b.Vel, f)
		}
	}
}

func contain(x, limit float64) float64 {
	switch {
	case x > limit:
		return -boundaryImpulse
	case x < -limit:
		return boundaryImpulse
	}
	return 0
}
