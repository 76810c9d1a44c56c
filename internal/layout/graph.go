package layout

import (
	"fmt"
	"math"

	"github.com/san-kum/lifenet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultNodeCount          = 80
	DefaultConnectionDistance = 120.0
	DefaultRepulsion          = 1.0
	DefaultBounds             = 300.0
	DefaultMaxNodes           = 250
)

// NodeID names a node for its whole lifetime. Ids are handed out in
// increasing order and never reused, so they survive removals that shift
// indices.
type NodeID int

// Node is a point in the network. Values returned by the graph are copies.
type Node struct {
	ID          NodeID
	Pos         r3.Vec
	Vel         r3.Vec
	Mass        float64
	Connections []NodeID
}

// NodeSpec describes a node to append.
type NodeSpec struct {
	Pos         r3.Vec
	Connections []NodeID
}

type Config struct {
	NodeCount          int     `yaml:"node_count" toml:"node_count" json:"node_count"`
	ConnectionDistance float64 `yaml:"connection_distance" toml:"connection_distance" json:"connection_distance"`
	Repulsion          float64 `yaml:"repulsion" toml:"repulsion" json:"repulsion"`
	Bounds             float64 `yaml:"bounds" toml:"bounds" json:"bounds"`
	MaxNodes           int     `yaml:"max_nodes" toml:"max_nodes" json:"max_nodes"`
}

func DefaultConfig() Config {
	return Config{
		NodeCount:          DefaultNodeCount,
		ConnectionDistance: DefaultConnectionDistance,
		Repulsion:          DefaultRepulsion,
		Bounds:             DefaultBounds,
		MaxNodes:           DefaultMaxNodes,
	}
}

func (c Config) Params() dynamo.Params {
	return dynamo.Params{Repulsion: c.Repulsion, ConnectionDistance: c.ConnectionDistance}
}

func (c Config) Validate() error {
	if c.NodeCount < 0 {
		return fmt.Errorf("node count %d: %w", c.NodeCount, dynamo.ErrParameterBounds)
	}
	if c.Bounds <= 0 {
		return fmt.Errorf("bounds %g: %w", c.Bounds, dynamo.ErrParameterBounds)
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max nodes %d: %w", c.MaxNodes, dynamo.ErrParameterBounds)
	}
	return c.Params().Validate()
}

// Graph is the force-directed layout engine. Nodes live in a dense
// sequence; adjacency refers to ids, and index lookups go through the
// id table.
type Graph struct {
	cfg    Config
	rng    dynamo.Source
	nodes  []*Node
	index  map[NodeID]int
	nextID NodeID
}

// NewEmpty returns a graph with no nodes.
func NewEmpty(cfg Config, rng dynamo.Source) *Graph {
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	return &Graph{
		cfg:   cfg,
		rng:   rng,
		nodes: make([]*Node, 0, cfg.MaxNodes),
		index: make(map[NodeID]int, cfg.MaxNodes),
	}
}

// New places cfg.NodeCount nodes in loose clusters and derives the initial
// connections.
func New(cfg Config, rng dynamo.Source) *Graph {
	g := NewEmpty(cfg, rng)
	n := cfg.NodeCount
	if n > g.cfg.MaxNodes {
		n = g.cfg.MaxNodes
	}
	for _, pos := range clusterPositions(n, cfg.Bounds, rng) {
		g.append(pos)
	}
	g.RecalculateConnections()
	return g
}

func (g *Graph) Config() Config { return g.cfg }
func (g *Graph) Len() int       { return len(g.nodes) }
func (g *Graph) Full() bool     { return len(g.nodes) >= g.cfg.MaxNodes }

// SetParams records new tick parameters on the graph config.
func (g *Graph) SetParams(p dynamo.Params) {
	g.cfg.Repulsion = p.Repulsion
	g.cfg.ConnectionDistance = p.ConnectionDistance
}

func (g *Graph) append(pos r3.Vec) *Node {
	n := &Node{
		ID:   g.nextID,
		Pos:  pos,
		Mass: 1 + g.rng.Float64()*0.5,
	}
	g.nextID++
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n
}

// AddNode appends a node at the next index and links it to every listed
// neighbor that exists, in both directions.
func (g *Graph) AddNode(spec NodeSpec) (Node, error) {
	if g.Full() {
		return Node{}, dynamo.ErrCapacity
	}
	n := g.append(spec.Pos)
	for _, id := range spec.Connections {
		other, ok := g.lookup(id)
		if !ok || other == n {
			continue
		}
		g.link(n, other)
	}
	return n.copy(), nil
}

// RemoveNode deletes the node at index. Indices above it shift down by one;
// ids are unaffected.
func (g *Graph) RemoveNode(index int) bool {
	if index < 0 || index >= len(g.nodes) {
		return false
	}
	victim := g.nodes[index]
	for _, id := range victim.Connections {
		if other, ok := g.lookup(id); ok {
			other.Connections = without(other.Connections, victim.ID)
		}
	}
	copy(g.nodes[index:], g.nodes[index+1:])
	g.nodes[len(g.nodes)-1] = nil
	g.nodes = g.nodes[:len(g.nodes)-1]
	delete(g.index, victim.ID)
	for i := index; i < len(g.nodes); i++ {
		g.index[g.nodes[i].ID] = i
	}
	return true
}

// SetPosition overrides a node's position, as during a drag.
func (g *Graph) SetPosition(index int, pos r3.Vec) bool {
	if index < 0 || index >= len(g.nodes) {
		return false
	}
	g.nodes[index].Pos = pos
	g.nodes[index].Vel = r3.Vec{}
	return true
}

// RecalculateConnections discards all edges and derives new ones from the
// current positions: closer pairs connect more often, and most nodes left
// isolated are joined to their nearest neighbor.
func (g *Graph) RecalculateConnections() {
	for _, n := range g.nodes {
		n.Connections = n.Connections[:0]
	}
	cd := g.cfg.ConnectionDistance
	for i := 0; i < len(g.nodes); i++ {
		for j := i + 1; j < len(g.nodes); j++ {
			a, b := g.nodes[i], g.nodes[j]
			d := r3.Norm(r3.Sub(a.Pos, b.Pos))
			if d >= cd {
				continue
			}
			if g.rng.Float64() < 0.6*(1-d/cd) {
				g.link(a, b)
			}
		}
	}
	for i, n := range g.nodes {
		if len(n.Connections) > 0 || g.rng.Float64() >= 0.7 {
			continue
		}
		if j := g.nearest(i); j >= 0 {
			g.link(n, g.nodes[j])
		}
	}
}

func (g *Graph) nearest(i int) int {
	best, bestDist := -1, math.Inf(1)
	for j, m := range g.nodes {
		if j == i {
			continue
		}
		d := r3.Norm2(r3.Sub(g.nodes[i].Pos, m.Pos))
		if d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func (g *Graph) link(a, b *Node) {
	if a == b || contains(a.Connections, b.ID) {
		return
	}
	a.Connections = append(a.Connections, b.ID)
	if !contains(b.Connections, a.ID) {
		b.Connections = append(b.Connections, a.ID)
	}
}

func (g *Graph) lookup(id NodeID) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Node returns a copy of the node at index.
func (g *Graph) Node(index int) (Node, bool) {
	if index < 0 || index >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[index].copy(), true
}

// Nodes returns copies of every node in index order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.copy()
	}
	return out
}

// Neighbors returns the indices adjacent to index, or nil when index is
// out of range.
func (g *Graph) Neighbors(index int) []int {
	if index < 0 || index >= len(g.nodes) {
		return nil
	}
	conns := g.nodes[index].Connections
	out := make([]int, 0, len(conns))
	for _, id := range conns {
		if j, ok := g.index[id]; ok {
			out = append(out, j)
		}
	}
	return out
}

func (g *Graph) NeighborIDs(id NodeID) []NodeID {
	n, ok := g.lookup(id)
	if !ok {
		return nil
	}
	return append([]NodeID(nil), n.Connections...)
}

func (g *Graph) Position(id NodeID) (r3.Vec, bool) {
	n, ok := g.lookup(id)
	if !ok {
		return r3.Vec{}, false
	}
	return n.Pos, true
}

func (g *Graph) IndexOf(id NodeID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Graph) IDAt(index int) (NodeID, bool) {
	if index < 0 || index >= len(g.nodes) {
		return 0, false
	}
	return g.nodes[index].ID, true
}

func (g *Graph) Has(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// IDs lists node ids in index order.
func (g *Graph) IDs() []NodeID {
	out := make([]NodeID, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.ID
	}
	return out
}

// ConnectionCount is the number of distinct edges.
func (g *Graph) ConnectionCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.Connections)
	}
	return total / 2
}

// Edges lists each edge once as an index pair with the lower index first.
func (g *Graph) Edges() [][2]int {
	edges := make([][2]int, 0, g.ConnectionCount())
	for i, n := range g.nodes {
		for _, id := range n.Connections {
			if j, ok := g.index[id]; ok && j > i {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// Valid reports whether every position and velocity is finite.
func (g *Graph) Valid() bool {
	for _, n := range g.nodes {
		for _, v := range [...]float64{n.Pos.X, n.Pos.Y, n.Pos.Z, n.Vel.X, n.Vel.Y, n.Vel.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func (n *Node) copy() Node {
	c := *n
	c.Connections = append([]NodeID(nil), n.Connections...)
	return c
}

func contains(ids []NodeID, id NodeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func without(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
