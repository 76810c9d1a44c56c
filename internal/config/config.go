package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lifenet/internal/dynamo"
	"github.com/san-kum/lifenet/internal/sim"
)

const (
	DefaultFrames   = 3600
	DefaultDataDir  = "data"
	DefaultLogLevel = "info"
)

type Config struct {
	LogLevel      string     `yaml:"log_level" toml:"log_level"`
	DataDir       string     `yaml:"data_dir" toml:"data_dir"`
	Frames        int        `yaml:"frames" toml:"frames"`
	FrameDuration float64    `yaml:"frame_duration" toml:"frame_duration"`
	World         sim.Config `yaml:"world" toml:"world"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		DataDir:       DefaultDataDir,
		Frames:        DefaultFrames,
		FrameDuration: sim.DefaultFrameDuration,
		World:         sim.DefaultConfig(),
	}
}

// Load reads a config file over the defaults. Files ending in .toml are
// TOML; anything else is YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	if c.Frames <= 0 {
		return fmt.Errorf("frames %d: %w", c.Frames, dynamo.ErrParameterBounds)
	}
	if c.FrameDuration <= 0 {
		return fmt.Errorf("frame duration %g: %w", c.FrameDuration, dynamo.ErrParameterBounds)
	}
	return c.World.Validate()
}

func (c *Config) RunConfig() sim.RunConfig {
	return sim.RunConfig{Frames: c.Frames, FrameDuration: c.FrameDuration}
}
