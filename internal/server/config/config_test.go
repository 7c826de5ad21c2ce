package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// The defaults land on disk and load back identically.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  ip: "0.0.0.0:7777"
  max_players: 3
world:
  gen:
    type: from_file
    path: maps/old.lvl
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:7777", cfg.Server.IP)
	assert.Equal(t, int8(3), cfg.Server.MaxPlayers)
	assert.Equal(t, GenFromFile, cfg.World.Gen.Type)
	assert.Equal(t, "maps/old.lvl", cfg.World.Gen.Path)

	// Untouched sections keep their defaults.
	assert.Equal(t, "Qubiq Server!", cfg.Server.Name)
	assert.Equal(t, 50, cfg.Simulation.ServerTickRate)
	assert.True(t, cfg.World.Autosave)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_max_players", func(c *Config) { c.Server.MaxPlayers = 0 }},
		{"zero_tick_rate", func(c *Config) { c.Simulation.ServerTickRate = 0 }},
		{"flat_map_zero_dims", func(c *Config) { c.World.Gen.Width = 0 }},
		{"from_file_no_path", func(c *Config) {
			c.World.Gen.Type = GenFromFile
			c.World.Gen.Path = ""
		}},
		{"unknown_gen_type", func(c *Config) { c.World.Gen.Type = "perlin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}

	assert.NoError(t, Default().validate())
}
