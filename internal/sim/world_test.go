package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rs/zerolog"
	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// quiet never runs a life step on its own.
func quiet(fade int, collect bool) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Layout.NodeCount = 20
	cfg.StepInterval = 1e12
	cfg.Lifecycle = sim.Lifecycle{FadeFrames: fade, Collect: collect}
	return cfg
}

func newWorld(cfg sim.Config) *sim.World {
	w, err := sim.NewWorld(cfg, zerolog.Nop())
	Expect(err).NotTo(HaveOccurred())
	return w
}

func frames(w *sim.World, n int) {
	for i := 0; i < n; i++ {
		w.Frame(float64(w.FrameCount()))
	}
}

var _ = Describe("World", func() {
	It("rejects an invalid config", func() {
		cfg := sim.DefaultConfig()
		cfg.StepInterval = 0
		_, err := sim.NewWorld(cfg, zerolog.Nop())
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("starts with every node active and alive", func() {
		w := newWorld(quiet(5, true))
		Expect(w.Len()).To(Equal(20))
		Expect(w.AliveCount()).To(Equal(20))
		Expect(w.Generation()).To(BeZero())
		for i := 0; i < w.Len(); i++ {
			Expect(w.AliveAt(i)).To(BeTrue())
			state, ok := w.StateAt(i)
			Expect(ok).To(BeTrue())
			Expect(state).To(Equal(sim.Active))
		}
	})

	Describe("cadence", func() {
		It("steps once the interval divided by speed has passed", func() {
			cfg := sim.DefaultConfig()
			cfg.Layout.NodeCount = 20
			w := newWorld(cfg)

			Expect(w.Frame(1000).Stepped).To(BeFalse())
			Expect(w.Frame(2000).Stepped).To(BeTrue())
			Expect(w.Generation()).To(Equal(1))
			Expect(w.Frame(3000).Stepped).To(BeFalse())

			Expect(w.SetSpeed(2)).To(Succeed())
			Expect(w.Frame(3000).Stepped).To(BeTrue())
			Expect(w.Generation()).To(Equal(2))
		})

		It("refuses a non-positive speed", func() {
			w := newWorld(quiet(5, true))
			Expect(w.SetSpeed(0)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(w.Speed()).To(Equal(1.0))
		})
	})

	Describe("node lifecycle", func() {
		It("fades a killed node and then collects it", func() {
			w := newWorld(quiet(3, true))
			id, _ := w.Graph().IDAt(4)

			Expect(w.Kill(4)).To(Succeed())
			Expect(w.AliveAt(4)).To(BeFalse())
			state, _ := w.StateAt(4)
			Expect(state).To(Equal(sim.Fading))

			frames(w, 2)
			Expect(w.Len()).To(Equal(20))
			Expect(w.FadeProgress(4)).To(BeNumerically("~", 2.0/3, 1e-9))

			frames(w, 1)
			Expect(w.Len()).To(Equal(19))
			Expect(w.Graph().Has(id)).To(BeFalse())
			Expect(w.AliveCount()).To(Equal(19))
		})

		It("keeps tombstones when collection is off", func() {
			w := newWorld(quiet(1, false))
			Expect(w.Kill(0)).To(Succeed())
			frames(w, 3)
			Expect(w.Len()).To(Equal(20))
			state, _ := w.StateAt(0)
			Expect(state).To(Equal(sim.Tombstoned))
			Expect(w.FadeProgress(0)).To(Equal(1.0))
		})

		It("tombstones immediately with no fade", func() {
			w := newWorld(quiet(0, true))
			Expect(w.Kill(0)).To(Succeed())
			state, _ := w.StateAt(0)
			Expect(state).To(Equal(sim.Tombstoned))
			rep := w.Frame(1)
			Expect(rep.Collected).To(HaveLen(1))
			Expect(w.Len()).To(Equal(19))
		})

		It("revives a fading node before it is collected", func() {
			w := newWorld(quiet(3, true))
			Expect(w.Kill(2)).To(Succeed())
			frames(w, 1)
			Expect(w.Revive(2)).To(Succeed())
			frames(w, 5)
			Expect(w.Len()).To(Equal(20))
			Expect(w.AliveAt(2)).To(BeTrue())
			state, _ := w.StateAt(2)
			Expect(state).To(Equal(sim.Active))
		})

		It("treats a second kill as a no-op", func() {
			w := newWorld(quiet(3, true))
			Expect(w.Kill(1)).To(Succeed())
			frames(w, 2)
			Expect(w.Kill(1)).To(Succeed())
			frames(w, 1)
			Expect(w.Len()).To(Equal(19))
		})
	})

	Describe("manual controls", func() {
		var w *sim.World

		BeforeEach(func() {
			w = newWorld(quiet(5, true))
		})

		It("reports unknown indices", func() {
			Expect(w.Kill(99)).To(MatchError(dynamo.ErrUnknownNode))
			Expect(w.Revive(-1)).To(MatchError(dynamo.ErrUnknownNode))
			Expect(w.Drag(20, r3.Vec{})).To(MatchError(dynamo.ErrUnknownNode))
			Expect(w.AliveAt(20)).To(BeFalse())
			_, ok := w.StateAt(20)
			Expect(ok).To(BeFalse())
		})

		It("resets every node to alive at generation zero", func() {
			Expect(w.Kill(0)).To(Succeed())
			Expect(w.Kill(1)).To(Succeed())
			w.Reset()
			Expect(w.AliveCount()).To(Equal(w.Len()))
			Expect(w.Generation()).To(BeZero())
			state, _ := w.StateAt(0)
			Expect(state).To(Equal(sim.Active))
		})

		It("adds a living node at the next index", func() {
			idx, err := w.AddNode(r3.Vec{X: 10, Y: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal(20))
			Expect(w.AliveAt(idx)).To(BeTrue())
			n, ok := w.Graph().Node(idx)
			Expect(ok).To(BeTrue())
			Expect(len(n.Connections)).To(BeNumerically("<=", 4))
		})

		It("refuses to add past capacity", func() {
			cfg := quiet(5, true)
			cfg.Layout.MaxNodes = 20
			full := newWorld(cfg)
			_, err := full.AddNode(r3.Vec{})
			Expect(err).To(MatchError(dynamo.ErrCapacity))
		})

		It("pins a dragged node", func() {
			Expect(w.Drag(3, r3.Vec{X: 7, Y: 8, Z: 9})).To(Succeed())
			n, _ := w.Graph().Node(3)
			Expect(n.Pos).To(Equal(r3.Vec{X: 7, Y: 8, Z: 9}))
			Expect(n.Vel).To(Equal(r3.Vec{}))
		})

		It("rebuilds connections when the distance changes", func() {
			p := w.Params()
			p.ConnectionDistance = 60
			Expect(w.SetParams(p)).To(Succeed())
			Expect(w.Params().ConnectionDistance).To(Equal(60.0))
			Expect(w.Graph().Config().ConnectionDistance).To(Equal(60.0))

			p.Repulsion = -1
			Expect(w.SetParams(p)).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("capacity", func() {
		full := func() sim.Config {
			cfg := sim.DefaultConfig()
			cfg.Layout.NodeCount = 20
			cfg.Layout.MaxNodes = 20
			cfg.StepInterval = 100
			cfg.Life.BirthProbability = 1
			cfg.Life.DeathProbability = 0
			cfg.Lifecycle.Collect = false
			return cfg
		}

		It("takes the node cap from the layout", func() {
			w := newWorld(full())
			Expect(w.Config().Life.MaxNodes).To(Equal(20))

			lc := w.Config().Life
			lc.MaxNodes = 500
			Expect(w.SetLifeConfig(lc)).To(Succeed())
			Expect(w.Config().Life.MaxNodes).To(Equal(20))
		})

		It("proposes no births while the graph is full", func() {
			w := newWorld(full())
			steps := 0
			for f := 1; f <= 300; f++ {
				rep := w.Frame(float64(f) * sim.DefaultFrameDuration)
				if !rep.Stepped {
					continue
				}
				steps++
				Expect(rep.Births).To(BeEmpty(), "frame %d", f)
				Expect(rep.Suppressed).To(BeZero(), "frame %d", f)
			}
			Expect(steps).To(BeNumerically(">", 0))
			Expect(w.Len()).To(Equal(20))
		})
	})

	Describe("snapshots", func() {
		It("skips connections that point past the node list", func() {
			snap := sim.Snapshot{Nodes: []sim.NodeSnapshot{
				{Connections: []int{1, 7}},
				{Connections: []int{0, 99}},
			}}
			Expect(snap.Edges()).To(Equal([][2]int{{0, 1}}))
		})
	})

	It("keeps alive nodes active and within capacity over a long run", func() {
		cfg := sim.DefaultConfig()
		cfg.Layout.NodeCount = 60
		cfg.StepInterval = 200
		cfg.Lifecycle.FadeFrames = 10
		w := newWorld(cfg)

		for f := 1; f <= 1500; f++ {
			w.Frame(float64(f) * sim.DefaultFrameDuration)
			Expect(w.Len()).To(BeNumerically("<=", cfg.Layout.MaxNodes))
			Expect(w.AliveCount()).To(BeNumerically("<=", w.Len()))
			for i := 0; i < w.Len(); i++ {
				state, _ := w.StateAt(i)
				Expect(w.AliveAt(i)).To(Equal(state == sim.Active), "index %d", i)
			}
		}
		Expect(w.Graph().Valid()).To(BeTrue())
		for i, n := range w.Nodes() {
			for _, id := range n.Connections {
				Expect(w.Graph().NeighborIDs(id)).To(ContainElement(n.ID), "index %d", i)
			}
		}
	})
})
