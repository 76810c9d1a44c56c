package sim

import "github.com/san-kum/lifenet/internal/layout"

// NodeSnapshot is one node of a Snapshot. Connections are indices into
// Snapshot.Nodes.
type NodeSnapshot struct {
	ID          layout.NodeID `json:"id"`
	Pos         [3]float64    `json:"pos"`
	Alive       bool          `json:"alive"`
	State       string        `json:"state"`
	Fade        float64       `json:"fade"`
	Connections []int         `json:"connections"`
}

// Snapshot is a self-contained copy of the network at one frame.
type Snapshot struct {
	Frame      int            `json:"frame"`
	Generation int            `json:"generation"`
	Bounds     float64        `json:"bounds"`
	Nodes      []NodeSnapshot `json:"nodes"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Frame:      w.frame,
		Generation: w.life.Generation(),
		Bounds:     w.cfg.Layout.Bounds,
		Nodes:      make([]NodeSnapshot, w.graph.Len()),
	}
	for i, n := range w.graph.Nodes() {
		s.Nodes[i] = NodeSnapshot{
			ID:          n.ID,
			Pos:         [3]float64{n.Pos.X, n.Pos.Y, n.Pos.Z},
			Alive:       w.life.IsAlive(n.ID),
			State:       w.stateOf(n.ID).String(),
			Fade:        w.FadeProgress(i),
			Connections: w.graph.Neighbors(i),
		}
	}
	return s
}

// Edges lists each edge of the snapshot once, lower index first. Indices
// past the end of Nodes are skipped.
func (s Snapshot) Edges() [][2]int {
	out := make([][2]int, 0)
	for i, n := range s.Nodes {
		for _, j := range n.Connections {
			if j > i && j < len(s.Nodes) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

func (s Snapshot) Len() int { return len(s.Nodes) }

// AliveCount counts alive nodes in the snapshot.
func (s Snapshot) AliveCount() int {
	n := 0
	for _, node := range s.Nodes {
		if node.Alive {
			n++
		}
	}
	return n
}
