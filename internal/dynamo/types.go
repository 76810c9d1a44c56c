package dynamo

import (
	"fmt"
	"math/rand"
)

// Params are the physics parameters a caller may change between ticks.
type Params struct {
	Repulsion          float64 `yaml:"repulsion" toml:"repulsion" json:"repulsion"`
	ConnectionDistance float64 `yaml:"connection_distance" toml:"connection_distance" json:"connection_distance"`
}

func (p Params) Validate() error {
	if p.Repulsion < 0 {
		return fmt.Errorf("repulsion %g: %w", p.Repulsion, ErrParameterBounds)
	}
	if p.ConnectionDistance <= 0 {
		return fmt.Errorf("connection distance %g: %w", p.ConnectionDistance, ErrParameterBounds)
	}
	return nil
}

// Source is the random source consumed by clustering, connection derivation
// and the life rules. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
