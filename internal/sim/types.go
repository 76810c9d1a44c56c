package sim

import (
	"fmt"

	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/layout"
	"github.com/san-kum/lifenet/internal/life"
)

const (
	DefaultStepInterval  = 2000.0
	DefaultSpeed         = 1.0
	DefaultFadeFrames    = 60
	DefaultFrameDuration = 1000.0 / 60
)

// NodeState is the lifecycle of a node as the world sees it.
type NodeState int

const (
	Active NodeState = iota
	Fading
	Tombstoned
)

func (s NodeState) String() string {
	switch s {
	case Active:
		return "active"
	case Fading:
		return "fading"
	case Tombstoned:
		return "tombstoned"
	}
	return fmt.Sprintf("NodeState(%d)", int(s))
}

// Lifecycle controls how long dead nodes linger before removal.
type Lifecycle struct {
	FadeFrames int  `yaml:"fade_frames" toml:"fade_frames" json:"fade_frames"`
	Collect    bool `yaml:"collect" toml:"collect" json:"collect"`
}

// Config is everything needed to build a World.
type Config struct {
	Seed         int64         `yaml:"seed" toml:"seed" json:"seed"`
	StepInterval float64       `yaml:"step_interval" toml:"step_interval" json:"step_interval"`
	Speed        float64       `yaml:"speed" toml:"speed" json:"speed"`
	Layout       layout.Config `yaml:"layout" toml:"layout" json:"layout"`
	Life         life.Config   `yaml:"life" toml:"life" json:"life"`
	Lifecycle    Lifecycle     `yaml:"lifecycle" toml:"lifecycle" json:"lifecycle"`
}

func DefaultConfig() Config {
	return Config{
		Seed:         42,
		StepInterval: DefaultStepInterval,
		Speed:        DefaultSpeed,
		Layout:       layout.DefaultConfig(),
		Life:         life.DefaultConfig(),
		Lifecycle:    Lifecycle{FadeFrames: DefaultFadeFrames, Collect: true},
	}
}

func (c Config) Validate() error {
	if c.StepInterval <= 0 {
		return fmt.Errorf("step interval %g: %w", c.StepInterval, dynamo.ErrParameterBounds)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed %g: %w", c.Speed, dynamo.ErrParameterBounds)
	}
	if c.Lifecycle.FadeFrames < 0 {
		return fmt.Errorf("fade frames %d: %w", c.Lifecycle.FadeFrames, dynamo.ErrParameterBounds)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if err := c.Life.Validate(); err != nil {
		return fmt.Errorf("life: %w", err)
	}
	return nil
}

// FrameReport describes what one call to World.Frame did.
type FrameReport struct {
	Frame      int
	Time       float64
	Stepped    bool
	Generation int
	Deaths     []layout.NodeID
	Births     []layout.NodeID
	Collected  []layout.NodeID
	Suppressed int
}

// Frame is what metrics and observers see after each simulated frame.
type Frame struct {
	Index  int
	Time   float64
	World  *World
	Report FrameReport
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame) error

func (fn ObserverFunc) OnFrame(f Frame) error { return fn(f) }

type RunConfig struct {
	Frames        int
	FrameDuration float64
}

func (c RunConfig) Validate() error {
	if c.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d: %w", c.Frames, dynamo.ErrParameterBounds)
	}
	if c.FrameDuration <= 0 {
		return fmt.Errorf("frame duration must be positive, got %g: %w", c.FrameDuration, dynamo.ErrParameterBounds)
	}
	return nil
}

// Sample is one row of run history.
type Sample struct {
	Frame      int     `json:"frame"`
	Time       float64 `json:"time"`
	Generation int     `json:"generation"`
	Nodes      int     `json:"nodes"`
	Alive      int     `json:"alive"`
	Edges      int     `json:"edges"`
	Births     int     `json:"births"`
	Deaths     int     `json:"deaths"`
}

type Result struct {
	Seed      int64
	Samples   []Sample
	Metrics   map[string]float64
	FramesRun int
	Births    int
	Deaths    int
}

// Population returns the alive count of every sample.
func (r *Result) Population() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Alive)
	}
	return out
}
