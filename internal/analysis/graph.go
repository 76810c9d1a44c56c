package analysis

import (
	"slices"
	"sort"

	"github.com/san-kum/lifenet/internal/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// Network is the read view analysis needs. *layout.Graph implements it.
type Network interface {
	Len() int
	Edges() [][2]int
}

// Undirected copies the network into a gonum graph whose node ids are the
// layout indices.
func Undirected(n Network) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := 0; i < n.Len(); i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range n.Edges() {
		if e[0] == e[1] {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(int64(e[0])), simple.Node(int64(e[1]))))
	}
	return g
}

// Components lists connected components as sorted index lists, largest
// first, ties broken by smallest index.
func Components(n Network) [][]int {
	if n.Len() == 0 {
		return nil
	}
	var out [][]int
	for _, comp := range topo.ConnectedComponents(Undirected(n)) {
		ids := make([]int, len(comp))
		for i, node := range comp {
			ids[i] = int(node.ID())
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})
	return out
}

type DegreeStats struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Isolated int     `json:"isolated"`
}

// Degrees summarises the degree distribution of the network.
func Degrees(n Network) DegreeStats {
	if n.Len() == 0 {
		return DegreeStats{}
	}
	deg := make([]float64, n.Len())
	for _, e := range n.Edges() {
		deg[e[0]]++
		deg[e[1]]++
	}

	s := DegreeStats{Min: int(deg[0]), Max: int(deg[0])}
	s.Mean = stat.Mean(deg, nil)
	if len(deg) > 1 {
		s.StdDev = stat.StdDev(deg, nil)
	}
	for _, d := range deg {
		s.Min = min(s.Min, int(d))
		s.Max = max(s.Max, int(d))
		if d == 0 {
			s.Isolated++
		}
	}
	return s
}

var _ Network = (*layout.Graph)(nil)
