package layout

import (
	"math"

	"github.com/san-kum/lifenet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// clusterPositions scatters n points over 3-5 clusters whose centres sit on
// a circle of radius 0.4*bounds. Each point joins a random cluster, so
// cluster sizes vary from run to run.
func clusterPositions(n int, bounds float64, rng dynamo.Source) []r3.Vec {
	if n <= 0 {
		return nil
	}
	k := 3 + rng.Intn(3)
	centres := make([]r3.Vec, k)
	for i := range centres {
		angle := float64(i) / float64(k) * 2 * math.Pi
		centres[i] = r3.Vec{
			X: math.Cos(angle) * bounds * 0.4,
			Y: math.Sin(angle) * bounds * 0.4,
		}
	}

	spread := bounds * 0.3
	out := make([]r3.Vec, n)
	for i := range out {
		c := centres[rng.Intn(k)]
		out[i] = r3.Vec{
			X: c.X + (rng.Float64()-0.5)*spread,
			Y: c.Y + (rng.Float64()-0.5)*spread,
			Z: (rng.Float64() - 0.5) * spread * 0.5,
		}
	}
	return out
}
