package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

type cellKey struct{ x, y, z int }

type gridEntry struct {
	id  NodeID
	pos r3.Vec
}

// Grid is a uniform spatial hash for radius queries. Buckets keep insertion
// order, so queries over the same inserts return the same result.
type Grid struct {
	cell  float64
	cells map[cellKey][]gridEntry
}

// Neighbor is a query hit.
type Neighbor struct {
	ID   NodeID
	Dist float64
}

func NewGrid(cell float64) *Grid {
	if cell <= 0 {
		cell = 1
	}
	return &Grid{cell: cell, cells: make(map[cellKey][]gridEntry)}
}

func (gr *Grid) key(p r3.Vec) cellKey {
	return cellKey{
		x: int(math.Floor(p.X / gr.cell)),
		y: int(math.Floor(p.Y / gr.cell)),
		z: int(math.Floor(p.Z / gr.cell)),
	}
}

func (gr *Grid) Insert(id NodeID, pos r3.Vec) {
	k := gr.key(pos)
	gr.cells[k] = append(gr.cells[k], gridEntry{id: id, pos: pos})
}

// Within returns every entry whose distance to p is below radius, nearest
// first, ties broken by id.
func (gr *Grid) Within(p r3.Vec, radius float64) []Neighbor {
	span := int(math.Ceil(radius / gr.cell))
	c := gr.key(p)
	var out []Neighbor
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				for _, e := range gr.cells[cellKey{c.x + dx, c.y + dy, c.z + dz}] {
					if d := r3.Norm(r3.Sub(e.pos, p)); d < radius {
						out = append(out, Neighbor{ID: e.id, Dist: d})
					}
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dist != out[j].Dist {
			return out[i].Dist < out[j].Dist
		}
		return out[i].ID < out[j].ID
	})
	return out
}
