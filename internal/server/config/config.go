// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// World generator kinds.
const (
	GenFlatMap  = "flat_map"
	GenFromFile = "from_file"
)

// Config holds the full server configuration.
type Config struct {
	Server     ServerCfg     `yaml:"server"`
	Simulation SimulationCfg `yaml:"simulation"`
	World      WorldCfg      `yaml:"world"`
	Metrics    MetricsCfg    `yaml:"metrics"`
}

// ServerCfg configures the listener and the identity reported to clients.
type ServerCfg struct {
	IP         string `yaml:"ip"`
	Name       string `yaml:"name"`
	MOTD       string `yaml:"motd"`
	MaxPlayers int8   `yaml:"max_players"`
}

// SimulationCfg configures tick pacing, in milliseconds per tick.
type SimulationCfg struct {
	ServerTickRate int `yaml:"server_tick_rate"`
	SandTickRate   int `yaml:"sand_tick_rate"`
}

// WorldCfg configures world generation and persistence.
type WorldCfg struct {
	Gen      GenCfg `yaml:"gen"`
	Path     string `yaml:"path"`
	Autosave bool   `yaml:"autosave"`
}

// GenCfg selects the world source: a flat map of the given dimensions, or
// a file to load.
type GenCfg struct {
	Type   string `yaml:"type"`
	Path   string `yaml:"path,omitempty"`
	Width  int16  `yaml:"width,omitempty"`
	Height int16  `yaml:"height,omitempty"`
	Length int16  `yaml:"length,omitempty"`
}

// MetricsCfg configures the optional Prometheus endpoint. An empty address
// disables it.
type MetricsCfg struct {
	Addr string `yaml:"addr"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Server: ServerCfg{
			IP:         "127.0.0.1:25565",
			Name:       "Qubiq Server!",
			MOTD:       "Welcome to server!",
			MaxPlayers: 10,
		},
		Simulation: SimulationCfg{
			ServerTickRate: 50,
			SandTickRate:   20,
		},
		World: WorldCfg{
			Gen: GenCfg{
				Type:   GenFlatMap,
				Width:  64,
				Height: 32,
				Length: 64,
			},
			Path:     "maps/test.cw",
			Autosave: true,
		},
	}
}

// Load reads the configuration from path. A missing file is not an error:
// the defaults are written to path and returned. Any other failure is
// fatal to startup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			return cfg, writeDefault(path, cfg)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func writeDefault(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.MaxPlayers < 1 {
		return fmt.Errorf("server.max_players must be at least 1, got %d", c.Server.MaxPlayers)
	}
	if c.Simulation.ServerTickRate < 1 {
		return fmt.Errorf("simulation.server_tick_rate must be at least 1, got %d", c.Simulation.ServerTickRate)
	}
	switch c.World.Gen.Type {
	case GenFlatMap:
		if c.World.Gen.Width < 1 || c.World.Gen.Height < 1 || c.World.Gen.Length < 1 {
			return fmt.Errorf("world.gen dimensions must be at least 1, got %dx%dx%d",
				c.World.Gen.Width, c.World.Gen.Height, c.World.Gen.Length)
		}
	case GenFromFile:
		if c.World.Gen.Path == "" {
			return fmt.Errorf("world.gen.path is required for type %q", GenFromFile)
		}
	default:
		return fmt.Errorf("unknown world.gen.type %q", c.World.Gen.Type)
	}
	return nil
}
