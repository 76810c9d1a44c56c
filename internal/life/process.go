// Package life runs a relaxed Game of Life over the layout graph. Nodes
// isolated among living neighbors may die, well-connected regions seed new
// nodes, and nothing ever dies of overcrowding.
//
// The process owns only the alive-set. It reads the graph through
// [Topology] and proposes births; applying them is the caller's job, since
// only the caller learns the id the graph assigns.
package life

import (
	"fmt"

	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/layout"
	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultMinConnections   = 1
	DefaultDeathProbability = 0.1
	DefaultMaxDeathsPerStep = 2
	DefaultBirthThreshold   = 2
	DefaultBirthProbability = 0.4
	DefaultMaxBirthsPerStep = 3
)

// Topology is the read-only view of the graph the rules need.
// *layout.Graph implements it.
type Topology interface {
	Len() int
	IDs() []layout.NodeID
	NeighborIDs(id layout.NodeID) []layout.NodeID
	Position(id layout.NodeID) (r3.Vec, bool)
}

type Config struct {
	MinConnections   int     `yaml:"min_connections" toml:"min_connections" json:"min_connections"`
	DeathProbability float64 `yaml:"death_probability" toml:"death_probability" json:"death_probability"`
	MaxDeathsPerStep int     `yaml:"max_deaths_per_step" toml:"max_deaths_per_step" json:"max_deaths_per_step"`
	BirthThreshold   int     `yaml:"birth_threshold" toml:"birth_threshold" json:"birth_threshold"`
	BirthProbability float64 `yaml:"birth_probability" toml:"birth_probability" json:"birth_probability"`
	MaxBirthsPerStep int     `yaml:"max_births_per_step" toml:"max_births_per_step" json:"max_births_per_step"`
	MaxNodes         int     `yaml:"max_nodes" toml:"max_nodes" json:"max_nodes"`
}

func DefaultConfig() Config {
	return Config{
		MinConnections:   DefaultMinConnections,
		DeathProbability: DefaultDeathProbability,
		MaxDeathsPerStep: DefaultMaxDeathsPerStep,
		BirthThreshold:   DefaultBirthThreshold,
		BirthProbability: DefaultBirthProbability,
		MaxBirthsPerStep: DefaultMaxBirthsPerStep,
		MaxNodes:         layout.DefaultMaxNodes,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinConnections < 0:
		return fmt.Errorf("min connections %d: %w", c.MinConnections, dynamo.ErrParameterBounds)
	case c.DeathProbability < 0 || c.DeathProbability > 1:
		return fmt.Errorf("death probability %g: %w", c.DeathProbability, dynamo.ErrParameterBounds)
	case c.BirthProbability < 0 || c.BirthProbability > 1:
		return fmt.Errorf("birth probability %g: %w", c.BirthProbability, dynamo.ErrParameterBounds)
	case c.MaxDeathsPerStep < 0:
		return fmt.Errorf("max deaths per step %d: %w", c.MaxDeathsPerStep, dynamo.ErrParameterBounds)
	case c.MaxBirthsPerStep < 0:
		return fmt.Errorf("max births per step %d: %w", c.MaxBirthsPerStep, dynamo.ErrParameterBounds)
	case c.BirthThreshold < 1:
		return fmt.Errorf("birth threshold %d: %w", c.BirthThreshold, dynamo.ErrParameterBounds)
	case c.MaxNodes <= 0:
		return fmt.Errorf("max nodes %d: %w", c.MaxNodes, dynamo.ErrParameterBounds)
	}
	return nil
}

// Birth is a proposed node: where it appears and whom it links to.
type Birth struct {
	Pos         r3.Vec
	Connections []layout.NodeID
}

// StepResult lists what one generation changed. Deaths are already removed
// from the alive-set; births are not yet in the graph.
type StepResult struct {
	Generation int
	Deaths     []layout.NodeID
	Births     []Birth
}

type Process struct {
	cfg        Config
	rng        dynamo.Source
	alive      btree.Set[layout.NodeID]
	generation int
}

// New returns a process with every node of topo alive.
func New(cfg Config, topo Topology, rng dynamo.Source) *Process {
	p := &Process{cfg: cfg, rng: rng}
	p.Reset(topo)
	return p
}

func (p *Process) Config() Config     { return p.cfg }
func (p *Process) SetConfig(c Config) { p.cfg = c }
func (p *Process) Generation() int    { return p.generation }
func (p *Process) AliveCount() int    { return p.alive.Len() }

func (p *Process) IsAlive(id layout.NodeID) bool {
	return p.alive.Contains(id)
}

// Alive lists living ids in ascending order.
func (p *Process) Alive() []layout.NodeID {
	return p.alive.Keys()
}

// Revive marks id alive. It reports whether anything changed.
func (p *Process) Revive(id layout.NodeID) bool {
	if p.alive.Contains(id) {
		return false
	}
	p.alive.Insert(id)
	return true
}

// Kill marks id dead. It reports whether anything changed.
func (p *Process) Kill(id layout.NodeID) bool {
	if !p.alive.Contains(id) {
		return false
	}
	p.alive.Delete(id)
	return true
}

// Reset makes every node of topo alive and restarts the generation count.
func (p *Process) Reset(topo Topology) {
	p.alive = btree.Set[layout.NodeID]{}
	for _, id := range topo.IDs() {
		p.alive.Insert(id)
	}
	p.generation = 0
}

// Step evaluates one generation.
func (p *Process) Step(topo Topology) StepResult {
	p.prune(topo)
	p.generation++

	living := p.Alive()
	counts := make(map[layout.NodeID][]layout.NodeID, len(living))
	for _, id := range living {
		counts[id] = p.aliveNeighbors(topo, id)
	}

	deaths := p.deaths(living, counts)
	for _, id := range deaths {
		p.alive.Delete(id)
	}

	return StepResult{
		Generation: p.generation,
		Deaths:     deaths,
		Births:     p.births(topo),
	}
}

func (p *Process) prune(topo Topology) {
	present := make(map[layout.NodeID]bool, topo.Len())
	for _, id := range topo.IDs() {
		present[id] = true
	}
	for _, id := range p.alive.Keys() {
		if !present[id] {
			p.alive.Delete(id)
		}
	}
}

func (p *Process) aliveNeighbors(topo Topology, id layout.NodeID) []layout.NodeID {
	var out []layout.NodeID
	for _, n := range topo.NeighborIDs(id) {
		if p.alive.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// deaths picks isolated nodes, each with DeathProbability, keeping at most
// MaxDeathsPerStep in candidate order.
func (p *Process) deaths(living []layout.NodeID, neighbors map[layout.NodeID][]layout.NodeID) []layout.NodeID {
	var out []layout.NodeID
	for _, id := range living {
		if len(neighbors[id]) >= p.cfg.MinConnections {
			continue
		}
		if p.rng.Float64() < p.cfg.DeathProbability {
			out = append(out, id)
		}
	}
	if len(out) > p.cfg.MaxDeathsPerStep {
		out = out[:p.cfg.MaxDeathsPerStep]
	}
	return out
}
