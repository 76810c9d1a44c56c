package life

import (
	"math"

	"github.com/san-kum/lifenet/internal/layout"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	spawnMinRadius   = 30.0
	spawnRadiusRange = 40.0
	spawnZJitter     = 10.0
	snapGrid         = 10.0
	birthRadius      = 100.0
	maxBirthLinks    = 4
)

type snapKey struct{ x, y, z int }

func snap(p r3.Vec) snapKey {
	return snapKey{
		x: int(math.Round(p.X / snapGrid)),
		y: int(math.Round(p.Y / snapGrid)),
		z: int(math.Round(p.Z / snapGrid)),
	}
}

// births proposes new nodes near well-connected living nodes. Nothing is
// proposed once the graph is at capacity.
func (p *Process) births(topo Topology) []Birth {
	if topo.Len() >= p.cfg.MaxNodes {
		return nil
	}

	living := p.Alive()
	grid := layout.NewGrid(birthRadius)
	for _, id := range living {
		if pos, ok := topo.Position(id); ok {
			grid.Insert(id, pos)
		}
	}

	seen := make(map[snapKey]bool)
	var spawns []r3.Vec
	for _, id := range living {
		neighbors := p.aliveNeighbors(topo, id)
		if len(neighbors) < p.cfg.BirthThreshold-1 || len(neighbors) < 2 {
			continue
		}
		centroid, ok := centroidOf(topo, neighbors)
		if !ok {
			continue
		}
		pos := p.offset(centroid)
		k := snap(pos)
		if seen[k] {
			continue
		}
		seen[k] = true
		spawns = append(spawns, pos)
	}

	var candidates []Birth
	for _, pos := range spawns {
		if len(candidates) >= p.cfg.MaxBirthsPerStep {
			break
		}
		near := grid.Within(pos, birthRadius)
		if len(near) < p.cfg.BirthThreshold {
			continue
		}
		if len(near) > maxBirthLinks {
			near = near[:maxBirthLinks]
		}
		links := make([]layout.NodeID, len(near))
		for i, n := range near {
			links[i] = n.ID
		}
		candidates = append(candidates, Birth{Pos: pos, Connections: links})
	}

	room := p.cfg.MaxNodes - topo.Len()
	var accepted []Birth
	for _, c := range candidates {
		if p.rng.Float64() < p.cfg.BirthProbability && len(accepted) < room {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// offset moves a centroid by a random angle at a radius in [30, 70) in the
// xy-plane, with z jitter in [-10, 10).
func (p *Process) offset(c r3.Vec) r3.Vec {
	angle := p.rng.Float64() * 2 * math.Pi
	radius := spawnMinRadius + p.rng.Float64()*spawnRadiusRange
	return r3.Vec{
		X: c.X + math.Cos(angle)*radius,
		Y: c.Y + math.Sin(angle)*radius,
		Z: c.Z + (p.rng.Float64()*2-1)*spawnZJitter,
	}
}

func centroidOf(topo Topology, ids []layout.NodeID) (r3.Vec, bool) {
	var sum r3.Vec
	n := 0
	for _, id := range ids {
		if pos, ok := topo.Position(id); ok {
			sum = r3.Add(sum, pos)
			n++
		}
	}
	if n == 0 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/float64(n), sum), true
}
