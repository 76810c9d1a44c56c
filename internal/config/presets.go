package config

import "sort"

type Preset struct {
	Description string
	apply       func(*Config)
}

var Presets = map[string]Preset{
	"calm": {
		Description: "few, slow changes on a loose layout",
		apply: func(c *Config) {
			c.World.Layout.NodeCount = 60
			c.World.Layout.Repulsion = 0.5
			c.World.Life.DeathProbability = 0.05
			c.World.Life.BirthProbability = 0.2
			c.World.Speed = 0.5
		},
	},
	"dense": {
		Description: "large, tightly linked network that grows quickly",
		apply: func(c *Config) {
			c.World.Layout.NodeCount = 160
			c.World.Layout.ConnectionDistance = 150
			c.World.Life.BirthProbability = 0.6
		},
	},
	"sparse": {
		Description: "small network with short links, prone to die-off",
		apply: func(c *Config) {
			c.World.Layout.NodeCount = 40
			c.World.Layout.ConnectionDistance = 80
			c.World.Life.DeathProbability = 0.2
		},
	},
	"storm": {
		Description: "fast generations with heavy turnover",
		apply: func(c *Config) {
			c.World.Speed = 4
			c.World.Layout.Repulsion = 2
			c.World.Life.DeathProbability = 0.3
			c.World.Life.MaxDeathsPerStep = 4
			c.World.Life.BirthProbability = 0.8
			c.World.Lifecycle.FadeFrames = 20
		},
	},
}

// GetPreset returns a fresh config with the named preset applied over the
// defaults, or nil for an unknown name.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.apply(cfg)
	return cfg
}

// Apply applies the named preset on top of cfg. It reports whether the
// preset exists.
func Apply(cfg *Config, name string) bool {
	p, ok := Presets[name]
	if ok {
		p.apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
