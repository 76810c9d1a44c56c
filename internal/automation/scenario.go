package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lifenet/internal/config"
	"github.com/san-kum/lifenet/internal/sim"
)

// Scenario is a scripted run: a starting preset and a list of changes
// applied at given frames.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Seed        *int64  `yaml:"seed"`
	Frames      int     `yaml:"frames"`
	Events      []Event `yaml:"events"`
}

// Event fires after the frame with index Frame. Unset fields leave the
// world alone. Indices are graph indices at the moment the event fires.
type Event struct {
	Frame              int          `yaml:"frame"`
	Repulsion          *float64     `yaml:"repulsion"`
	ConnectionDistance *float64     `yaml:"connection_distance"`
	Speed              *float64     `yaml:"speed"`
	Kill               []int        `yaml:"kill"`
	Revive             []int        `yaml:"revive"`
	Add                [][3]float64 `yaml:"add"`
	Reset              bool         `yaml:"reset"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Frames < 0 {
		return nil, fmt.Errorf("scenario %q: negative frame count %d", scenario.Name, scenario.Frames)
	}
	if scenario.Preset != "" && config.GetPreset(scenario.Preset) == nil {
		return nil, fmt.Errorf("scenario %q: unknown preset %q", scenario.Name, scenario.Preset)
	}
	for i, e := range scenario.Events {
		if e.Frame < 0 {
			return nil, fmt.Errorf("scenario %q: event %d has negative frame %d", scenario.Name, i, e.Frame)
		}
	}
	sort.SliceStable(scenario.Events, func(i, j int) bool {
		return scenario.Events[i].Frame < scenario.Events[j].Frame
	})
	return &scenario, nil
}

// Player applies a scenario's events as a sim.Observer.
type Player struct {
	events  []Event
	next    int
	applied int
	log     zerolog.Logger
}

func NewPlayer(s *Scenario, logger zerolog.Logger) *Player {
	return &Player{
		events: s.Events,
		log:    logger.With().Str("scenario", s.Name).Logger(),
	}
}

// Applied is the number of events fired so far.
func (p *Player) Applied() int { return p.applied }

func (p *Player) OnFrame(f sim.Frame) error {
	for p.next < len(p.events) && p.events[p.next].Frame <= f.Index {
		e := p.events[p.next]
		p.next++
		if err := apply(f.World, e); err != nil {
			return fmt.Errorf("event at frame %d: %w", e.Frame, err)
		}
		p.applied++
		p.log.Debug().Int("frame", f.Index).Int("alive", f.World.AliveCount()).Msg("event applied")
	}
	return nil
}

func apply(w *sim.World, e Event) error {
	if e.Reset {
		w.Reset()
	}
	if e.Repulsion != nil || e.ConnectionDistance != nil {
		p := w.Params()
		if e.Repulsion != nil {
			p.Repulsion = *e.Repulsion
		}
		if e.ConnectionDistance != nil {
			p.ConnectionDistance = *e.ConnectionDistance
		}
		if err := w.SetParams(p); err != nil {
			return err
		}
	}
	if e.Speed != nil {
		if err := w.SetSpeed(*e.Speed); err != nil {
			return err
		}
	}
	for _, i := range e.Kill {
		if err := w.Kill(i); err != nil {
			return err
		}
	}
	for _, i := range e.Revive {
		if err := w.Revive(i); err != nil {
			return err
		}
	}
	for _, pos := range e.Add {
		if _, err := w.AddNode(r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]}); err != nil {
			return err
		}
	}
	return nil
}

// Configure returns base with the scenario's preset, seed and frame count
// applied.
func (s *Scenario) Configure(base *config.Config) *config.Config {
	cfg := *base
	if s.Preset != "" {
		config.Apply(&cfg, s.Preset)
	}
	if s.Seed != nil {
		cfg.World.Seed = *s.Seed
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	return &cfg
}

// RunScenario builds a world from base and the scenario, then plays it.
// Extra observers see every frame after the scenario's events.
func RunScenario(ctx context.Context, s *Scenario, base *config.Config, logger zerolog.Logger, observers ...sim.Observer) (*sim.Result, *sim.World, error) {
	cfg := s.Configure(base)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	w, err := sim.NewWorld(cfg.World, logger)
	if err != nil {
		return nil, nil, err
	}

	runner := sim.New()
	player := NewPlayer(s, logger)
	runner.AddObserver(player)
	for _, o := range observers {
		runner.AddObserver(o)
	}

	logger.Info().Str("scenario", s.Name).Int("events", len(s.Events)).Int("frames", cfg.Frames).Msg("running scenario")
	res, err := runner.Run(ctx, w, cfg.RunConfig())
	return res, w, err
}
