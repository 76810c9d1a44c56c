package sim

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/layout"
	"github.com/san-kum/lifenet/internal/life"
	"gonum.org/v1/gonum/spatial/r3"
)

const manualLinks = 4

type lifecycle struct {
	state NodeState
	fade  int
}

// World couples the layout graph with the life process and owns the node
// lifecycle. A dead node fades for a number of frames while still taking
// part in physics, then becomes a tombstone that the next collection pass
// removes from the graph.
//
// Indices taken by the methods below are graph indices and shift when a
// node is collected.
type World struct {
	cfg      Config
	params   dynamo.Params
	graph    *layout.Graph
	life     *life.Process
	states   map[layout.NodeID]*lifecycle
	frame    int
	lastStep float64
	log      zerolog.Logger
}

func NewWorld(cfg Config, logger zerolog.Logger) (*World, error) {
	cfg.Life.MaxNodes = cfg.Layout.MaxNodes
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := dynamo.NewSource(cfg.Seed)
	g := layout.New(cfg.Layout, rng)
	w := &World{
		cfg:    cfg,
		params: cfg.Layout.Params(),
		graph:  g,
		life:   life.New(cfg.Life, g, rng),
		log:    logger.With().Str("component", "world").Int64("seed", cfg.Seed).Logger(),
	}
	w.resetStates()
	return w, nil
}

func (w *World) resetStates() {
	w.states = make(map[layout.NodeID]*lifecycle, w.graph.Len())
	for _, id := range w.graph.IDs() {
		w.states[id] = &lifecycle{state: Active}
	}
}

func (w *World) Config() Config                { return w.cfg }
func (w *World) Params() dynamo.Params         { return w.params }
func (w *World) Speed() float64                { return w.cfg.Speed }
func (w *World) Graph() *layout.Graph          { return w.graph }
func (w *World) Len() int                      { return w.graph.Len() }
func (w *World) Edges() [][2]int               { return w.graph.Edges() }
func (w *World) Nodes() []layout.Node          { return w.graph.Nodes() }
func (w *World) AliveCount() int               { return w.life.AliveCount() }
func (w *World) Generation() int               { return w.life.Generation() }
func (w *World) ConnectionCount() int          { return w.graph.ConnectionCount() }
func (w *World) FrameCount() int               { return w.frame }
func (w *World) IsAlive(id layout.NodeID) bool { return w.life.IsAlive(id) }

// Frame advances the world to time now, in milliseconds. It runs one
// physics tick, ages fading nodes, collects tombstones and, once
// StepInterval/Speed has passed since the last one, a life step.
func (w *World) Frame(now float64) FrameReport {
	rep := FrameReport{Frame: w.frame, Time: now}
	w.frame++

	w.graph.Update(w.params)
	w.age()
	rep.Collected = w.collect()

	if now-w.lastStep >= w.cfg.StepInterval/w.cfg.Speed {
		w.lastStep = now
		w.step(&rep)
	}
	rep.Generation = w.life.Generation()
	return rep
}

func (w *World) step(rep *FrameReport) {
	res := w.life.Step(w.graph)
	rep.Stepped = true
	rep.Deaths = res.Deaths
	for _, id := range res.Deaths {
		w.fade(id)
	}

	for _, b := range res.Births {
		n, err := w.graph.AddNode(layout.NodeSpec{Pos: b.Pos, Connections: b.Connections})
		if err != nil {
			rep.Suppressed++
			continue
		}
		w.life.Revive(n.ID)
		w.states[n.ID] = &lifecycle{state: Active}
		rep.Births = append(rep.Births, n.ID)
	}
	if rep.Suppressed > 0 {
		w.log.Debug().Int("suppressed", rep.Suppressed).Int("nodes", w.graph.Len()).Msg("births dropped at capacity")
	}

	if len(rep.Deaths) > 0 || len(rep.Births) > 0 {
		w.log.Debug().
			Int("generation", res.Generation).
			Int("deaths", len(rep.Deaths)).
			Int("births", len(rep.Births)).
			Int("alive", w.life.AliveCount()).
			Msg("life step")
	}
}

func (w *World) fade(id layout.NodeID) {
	lc, ok := w.states[id]
	if !ok {
		lc = &lifecycle{}
		w.states[id] = lc
	}
	if w.cfg.Lifecycle.FadeFrames == 0 {
		lc.state = Tombstoned
		return
	}
	lc.state = Fading
	lc.fade = w.cfg.Lifecycle.FadeFrames
}

func (w *World) age() {
	for _, lc := range w.states {
		if lc.state != Fading {
			continue
		}
		lc.fade--
		if lc.fade <= 0 {
			lc.state = Tombstoned
		}
	}
}

// collect removes tombstoned nodes from the graph, highest index first.
func (w *World) collect() []layout.NodeID {
	if !w.cfg.Lifecycle.Collect {
		return nil
	}
	var removed []layout.NodeID
	for i := w.graph.Len() - 1; i >= 0; i-- {
		id, _ := w.graph.IDAt(i)
		lc, ok := w.states[id]
		if !ok || lc.state != Tombstoned {
			continue
		}
		w.graph.RemoveNode(i)
		w.life.Kill(id)
		delete(w.states, id)
		removed = append(removed, id)
	}
	if len(removed) > 0 {
		w.log.Debug().Int("collected", len(removed)).Int("nodes", w.graph.Len()).Msg("tombstones removed")
	}
	return removed
}

// AliveAt reports whether the node at index is alive.
func (w *World) AliveAt(index int) bool {
	id, ok := w.graph.IDAt(index)
	return ok && w.life.IsAlive(id)
}

func (w *World) StateAt(index int) (NodeState, bool) {
	id, ok := w.graph.IDAt(index)
	if !ok {
		return Active, false
	}
	return w.stateOf(id), true
}

func (w *World) stateOf(id layout.NodeID) NodeState {
	if lc, ok := w.states[id]; ok {
		return lc.state
	}
	return Active
}

// FadeProgress is how far along its fade the node at index is, from 0
// (just died) to 1 (tombstoned). Active nodes report 0.
func (w *World) FadeProgress(index int) float64 {
	id, ok := w.graph.IDAt(index)
	if !ok {
		return 0
	}
	lc, ok := w.states[id]
	if !ok {
		return 0
	}
	switch lc.state {
	case Tombstoned:
		return 1
	case Fading:
		if w.cfg.Lifecycle.FadeFrames == 0 {
			return 1
		}
		return 1 - float64(lc.fade)/float64(w.cfg.Lifecycle.FadeFrames)
	}
	return 0
}

// SetParams changes the physics parameters used from the next frame on. A
// new connection distance rebuilds the edges.
func (w *World) SetParams(p dynamo.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	rebuild := p.ConnectionDistance != w.params.ConnectionDistance
	w.params = p
	w.graph.SetParams(p)
	w.cfg.Layout.Repulsion = p.Repulsion
	w.cfg.Layout.ConnectionDistance = p.ConnectionDistance
	if rebuild {
		w.graph.RecalculateConnections()
		w.log.Debug().Float64("connection_distance", p.ConnectionDistance).Int("edges", w.graph.ConnectionCount()).Msg("connections rebuilt")
	}
	return nil
}

func (w *World) SetSpeed(s float64) error {
	if s <= 0 {
		return fmt.Errorf("speed %g: %w", s, dynamo.ErrParameterBounds)
	}
	w.cfg.Speed = s
	return nil
}

// SetLifeConfig swaps the life rule parameters. The node cap always
// follows the layout's.
func (w *World) SetLifeConfig(c life.Config) error {
	c.MaxNodes = w.cfg.Layout.MaxNodes
	if err := c.Validate(); err != nil {
		return err
	}
	w.cfg.Life = c
	w.life.SetConfig(c)
	return nil
}

func (w *World) resolve(index int) (layout.NodeID, error) {
	id, ok := w.graph.IDAt(index)
	if !ok {
		return 0, fmt.Errorf("index %d: %w", index, dynamo.ErrUnknownNode)
	}
	return id, nil
}

// Revive brings the node at index back to life, cancelling any fade.
func (w *World) Revive(index int) error {
	id, err := w.resolve(index)
	if err != nil {
		return err
	}
	w.life.Revive(id)
	w.states[id] = &lifecycle{state: Active}
	return nil
}

// Kill marks the node at index dead and starts its fade. Killing a node
// that is already dead changes nothing.
func (w *World) Kill(index int) error {
	id, err := w.resolve(index)
	if err != nil {
		return err
	}
	if w.life.Kill(id) {
		w.fade(id)
	}
	return nil
}

// Reset revives every node in the graph and zeroes the generation.
func (w *World) Reset() {
	w.life.Reset(w.graph)
	w.resetStates()
	w.log.Debug().Int("nodes", w.graph.Len()).Msg("reset")
}

// AddNode places a living node at pos, linked to up to four of the nearest
// living nodes within the connection distance. It returns the new index.
func (w *World) AddNode(pos r3.Vec) (int, error) {
	grid := layout.NewGrid(w.params.ConnectionDistance)
	for _, id := range w.life.Alive() {
		if p, ok := w.graph.Position(id); ok {
			grid.Insert(id, p)
		}
	}
	near := grid.Within(pos, w.params.ConnectionDistance)
	if len(near) > manualLinks {
		near = near[:manualLinks]
	}
	links := make([]layout.NodeID, len(near))
	for i, n := range near {
		links[i] = n.ID
	}

	n, err := w.graph.AddNode(layout.NodeSpec{Pos: pos, Connections: links})
	if err != nil {
		return -1, fmt.Errorf("add node at %d nodes: %w", w.graph.Len(), err)
	}
	w.life.Revive(n.ID)
	w.states[n.ID] = &lifecycle{state: Active}
	index, _ := w.graph.IndexOf(n.ID)
	return index, nil
}

// Drag pins the node at index to pos for this frame.
func (w *World) Drag(index int, pos r3.Vec) error {
	if !w.graph.SetPosition(index, pos) {
		return fmt.Errorf("drag index %d: %w", index, dynamo.ErrUnknownNode)
	}
	return nil
}
