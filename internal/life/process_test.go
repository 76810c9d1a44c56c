package life_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/layout"
	"github.com/san-kum/lifenet/internal/life"
	"gonum.org/v1/gonum/spatial/r3"
)

func emptyGraph(maxNodes int) *layout.Graph {
	return layout.NewEmpty(layout.Config{
		ConnectionDistance: 120,
		Repulsion:          1,
		Bounds:             300,
		MaxNodes:           maxNodes,
	}, dynamo.NewSource(1))
}

func lineGraph(n int) *layout.Graph {
	g := emptyGraph(50)
	for i := 0; i < n; i++ {
		spec := layout.NodeSpec{Pos: r3.Vec{X: float64(i) * 40}}
		if i > 0 {
			spec.Connections = []layout.NodeID{layout.NodeID(i - 1)}
		}
		_, err := g.AddNode(spec)
		Expect(err).NotTo(HaveOccurred())
	}
	return g
}

func cliqueGraph(n int, radius float64) *layout.Graph {
	g := emptyGraph(50)
	for i := 0; i < n; i++ {
		angle := float64(i) / float64(n) * 2 * math.Pi
		spec := layout.NodeSpec{Pos: r3.Vec{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}}
		for j := 0; j < i; j++ {
			spec.Connections = append(spec.Connections, layout.NodeID(j))
		}
		_, err := g.AddNode(spec)
		Expect(err).NotTo(HaveOccurred())
	}
	return g
}

func aliveNeighborCount(p *life.Process, g *layout.Graph, id layout.NodeID) int {
	n := 0
	for _, nb := range g.NeighborIDs(id) {
		if p.IsAlive(nb) {
			n++
		}
	}
	return n
}

var _ = Describe("Process", func() {
	Describe("construction", func() {
		It("starts with every node alive at generation zero", func() {
			g := lineGraph(4)
			p := life.New(life.DefaultConfig(), g, dynamo.NewSource(1))
			Expect(p.AliveCount()).To(Equal(4))
			Expect(p.Alive()).To(Equal([]layout.NodeID{0, 1, 2, 3}))
			Expect(p.Generation()).To(BeZero())
		})
	})

	Describe("death rule", func() {
		It("kills both ends of a line but never its middle", func() {
			g := lineGraph(3)
			cfg := life.DefaultConfig()
			cfg.DeathProbability = 1
			cfg.MinConnections = 2
			p := life.New(cfg, g, dynamo.NewSource(1))

			res := p.Step(g)

			Expect(res.Deaths).To(ConsistOf(layout.NodeID(0), layout.NodeID(2)))
			Expect(p.IsAlive(1)).To(BeTrue())
			Expect(p.IsAlive(0)).To(BeFalse())
			Expect(p.IsAlive(2)).To(BeFalse())
			Expect(res.Generation).To(Equal(1))
		})

		It("truncates deaths to the per-step cap in candidate order", func() {
			g := emptyGraph(50)
			for i := 0; i < 6; i++ {
				_, err := g.AddNode(layout.NodeSpec{Pos: r3.Vec{X: float64(i) * 200}})
				Expect(err).NotTo(HaveOccurred())
			}
			cfg := life.DefaultConfig()
			cfg.DeathProbability = 1
			p := life.New(cfg, g, dynamo.NewSource(1))

			res := p.Step(g)
			Expect(res.Deaths).To(Equal([]layout.NodeID{0, 1}))
			Expect(p.AliveCount()).To(Equal(4))
		})

		It("never kills hubs and shrinks by at most the cap per step", func() {
			cfg := life.DefaultConfig()
			cfg.DeathProbability = 0.5
			lc := layout.DefaultConfig()
			lc.NodeCount = 120
			lc.ConnectionDistance = 40
			g := layout.New(lc, dynamo.NewSource(9))
			p := life.New(cfg, g, dynamo.NewSource(9))

			for step := 0; step < 40; step++ {
				counts := make(map[layout.NodeID]int)
				for _, id := range p.Alive() {
					counts[id] = aliveNeighborCount(p, g, id)
				}
				before := p.AliveCount()

				res := p.Step(g)

				Expect(len(res.Deaths)).To(BeNumerically("<=", cfg.MaxDeathsPerStep))
				Expect(before - p.AliveCount()).To(BeNumerically("<=", cfg.MaxDeathsPerStep))
				for _, id := range res.Deaths {
					Expect(counts[id]).To(BeNumerically("<", cfg.MinConnections), "hub %d died", id)
				}
				for _, b := range res.Births {
					n, err := g.AddNode(layout.NodeSpec{Pos: b.Pos, Connections: b.Connections})
					Expect(err).NotTo(HaveOccurred())
					p.Revive(n.ID)
				}
			}
		})
	})

	Describe("birth rule", func() {
		It("spawns a linked node next to a living clique", func() {
			g := cliqueGraph(5, 10)
			cfg := life.DefaultConfig()
			cfg.BirthProbability = 1
			cfg.BirthThreshold = 2
			cfg.DeathProbability = 0
			p := life.New(cfg, g, dynamo.NewSource(3))

			res := p.Step(g)

			Expect(res.Deaths).To(BeEmpty())
			Expect(res.Births).NotTo(BeEmpty())
			Expect(len(res.Births)).To(BeNumerically("<=", 3))
			for _, b := range res.Births {
				Expect(len(b.Connections)).To(BeNumerically(">=", cfg.BirthThreshold))
				Expect(len(b.Connections)).To(BeNumerically("<=", 4))
				for _, id := range b.Connections {
					Expect(p.IsAlive(id)).To(BeTrue())
				}
			}
		})

		It("leaves the graph untouched", func() {
			g := cliqueGraph(5, 10)
			cfg := life.DefaultConfig()
			cfg.BirthProbability = 1
			p := life.New(cfg, g, dynamo.NewSource(3))
			p.Step(g)
			Expect(g.Len()).To(Equal(5))
			Expect(g.ConnectionCount()).To(Equal(10))
		})

		It("emits nothing at capacity", func() {
			g := cliqueGraph(5, 10)
			cfg := life.DefaultConfig()
			cfg.BirthProbability = 1
			cfg.MaxNodes = 5
			p := life.New(cfg, g, dynamo.NewSource(3))
			Expect(p.Step(g).Births).To(BeEmpty())
		})

		It("respects the remaining capacity", func() {
			g := cliqueGraph(8, 15)
			cfg := life.DefaultConfig()
			cfg.BirthProbability = 1
			cfg.MaxNodes = 9
			p := life.New(cfg, g, dynamo.NewSource(4))
			Expect(len(p.Step(g).Births)).To(BeNumerically("<=", 1))
		})

		It("never emits more than three births per step", func() {
			lc := layout.DefaultConfig()
			lc.NodeCount = 150
			lc.ConnectionDistance = 200
			g := layout.New(lc, dynamo.NewSource(2))
			cfg := life.DefaultConfig()
			cfg.BirthProbability = 1
			p := life.New(cfg, g, dynamo.NewSource(2))
			for i := 0; i < 10; i++ {
				Expect(len(p.Step(g).Births)).To(BeNumerically("<=", 3))
			}
		})

		It("needs at least two living neighbors to seed", func() {
			g := lineGraph(2)
			cfg := life.DefaultConfig()
			cfg.BirthProbability = 1
			cfg.BirthThreshold = 1
			cfg.DeathProbability = 0
			p := life.New(cfg, g, dynamo.NewSource(1))
			Expect(p.Step(g).Births).To(BeEmpty())
		})
	})

	Describe("manual controls", func() {
		var (
			g *layout.Graph
			p *life.Process
		)

		BeforeEach(func() {
			g = lineGraph(3)
			p = life.New(life.DefaultConfig(), g, dynamo.NewSource(1))
		})

		It("kills and revives idempotently", func() {
			Expect(p.Kill(1)).To(BeTrue())
			Expect(p.Kill(1)).To(BeFalse())
			Expect(p.AliveCount()).To(Equal(2))
			Expect(p.Revive(1)).To(BeTrue())
			Expect(p.Revive(1)).To(BeFalse())
			Expect(p.AliveCount()).To(Equal(3))
		})

		It("resets to every current node at generation zero", func() {
			cfg := life.DefaultConfig()
			cfg.DeathProbability = 1
			cfg.MinConnections = 3
			p.SetConfig(cfg)
			p.Step(g)
			p.Step(g)
			Expect(p.AliveCount()).To(BeNumerically("<", 3))

			_, err := g.AddNode(layout.NodeSpec{Pos: r3.Vec{Y: 50}})
			Expect(err).NotTo(HaveOccurred())
			p.Reset(g)

			Expect(p.Generation()).To(BeZero())
			Expect(p.Alive()).To(Equal(g.IDs()))

			p.Reset(g)
			Expect(p.Alive()).To(Equal(g.IDs()))
		})

		It("drops ids that left the graph", func() {
			Expect(g.RemoveNode(0)).To(BeTrue())
			p.Step(g)
			Expect(p.IsAlive(0)).To(BeFalse())
			Expect(p.Alive()).NotTo(ContainElement(layout.NodeID(0)))
		})
	})

	Describe("config validation", func() {
		DescribeTable("rejects out of range values",
			func(mutate func(*life.Config)) {
				cfg := life.DefaultConfig()
				mutate(&cfg)
				Expect(cfg.Validate()).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("negative death probability", func(c *life.Config) { c.DeathProbability = -0.1 }),
			Entry("birth probability above one", func(c *life.Config) { c.BirthProbability = 1.5 }),
			Entry("zero birth threshold", func(c *life.Config) { c.BirthThreshold = 0 }),
			Entry("zero max nodes", func(c *life.Config) { c.MaxNodes = 0 }),
		)

		It("accepts the defaults", func() {
			Expect(life.DefaultConfig().Validate()).To(Succeed())
		})
	})
})
