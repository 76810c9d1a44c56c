// Package dynamo provides the primitives shared by the layout engine, the
// life process and the world driver.
//
//   - [Params]: the live-tunable parameters passed into every physics tick
//   - [Source]: the random source every stochastic rule draws from
//   - sentinel errors for the surfaces that report failures
//
// # Example
//
//	rng := dynamo.NewSource(42)
//	g := layout.New(layout.DefaultConfig(), rng)
//	g.Update(dynamo.Params{Repulsion: 1, ConnectionDistance: 120})
//
// # Thread Safety
//
// Nothing in the core is safe for concurrent use. A [Source] must not be
// shared between worlds that run on different goroutines.
package dynamo
