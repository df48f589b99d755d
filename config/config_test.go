package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgersim.yaml")
	data := []byte(`
chain:
  difficulty: 1
  hasher: blake3
network:
  replicas: 4
  payloads: ["a", "b", "c"]
log:
  format: json
api:
  listen: ":9090"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Chain.Difficulty)
	assert.Equal(t, "blake3", cfg.Chain.Hasher)
	assert.Equal(t, 4, cfg.Network.Replicas)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Network.Payloads)
	assert.Equal(t, 2, cfg.Network.Difficulty, "unset keys keep their defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9090", cfg.API.Listen)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgersim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network:\n  replicas: 3\n"), 0o600))
	t.Setenv("LEDGERSIM_REPLICAS", "7")
	t.Setenv("LEDGERSIM_PARALLEL", "1")
	t.Setenv("LEDGERSIM_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Network.Replicas)
	assert.True(t, cfg.Network.Parallel)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chain: [\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative difficulty", func(c *Config) { c.Chain.Difficulty = -1 }, "chain.difficulty"},
		{"zero replicas", func(c *Config) { c.Network.Replicas = 0 }, "network.replicas"},
		{"unknown hasher", func(c *Config) { c.Chain.Hasher = "md5" }, "chain.hasher"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty cache", func(c *Config) { c.Chain.IndexCacheSize = 0 }, "index_cache_size"},
		{"negative cheater", func(c *Config) { c.Network.CheaterReplica = -1 }, "network.cheater_replica"},
		{"cheater past network", func(c *Config) { c.Network.CheaterReplica = 5 }, "network.cheater_replica"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestValidateCheaterInRoundedUpNetwork(t *testing.T) {
	cfg := Default()
	cfg.Network.Replicas = 4
	cfg.Network.CheaterReplica = 4
	assert.NoError(t, cfg.Validate(), "four replicas run as five")

	cfg.Network.CheaterReplica = 5
	assert.ErrorContains(t, cfg.Validate(), "network.cheater_replica must be in [0, 5)")
}
