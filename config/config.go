package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shreekarashastry/ledgersim/simulation"
)

// Config represents the simulator configuration
type Config struct {
	Chain   ChainConfig   `yaml:"chain"`
	Network NetworkConfig `yaml:"network"`
	Log     LogConfig     `yaml:"log"`
	API     APIConfig     `yaml:"api"`
}

// ChainConfig configures the standalone chain used by the first scenario steps
type ChainConfig struct {
	Difficulty       int    `yaml:"difficulty"`
	DemoDifficulty   int    `yaml:"demo_difficulty"` // proof-of-work demonstration step
	Hasher           string `yaml:"hasher"`          // sha256 or blake3
	IndexCacheSize   int    `yaml:"index_cache_size"`
	CorruptionTarget int    `yaml:"corruption_target"`
}

// NetworkConfig configures the replica network steps
type NetworkConfig struct {
	Replicas       int      `yaml:"replicas"`
	Difficulty     int      `yaml:"difficulty"`
	Parallel       bool     `yaml:"parallel"`
	Payloads       []string `yaml:"payloads"`
	CleanPayload   string   `yaml:"clean_payload"`
	CheaterReplica int      `yaml:"cheater_replica"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// APIConfig configures the read-only inspection API. Empty Listen disables it.
type APIConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration of the reference scenario
func Default() *Config {
	return &Config{
		Chain: ChainConfig{
			Difficulty:       3,
			DemoDifficulty:   3,
			Hasher:           "sha256",
			IndexCacheSize:   4096,
			CorruptionTarget: 1,
		},
		Network: NetworkConfig{
			Replicas:   5,
			Difficulty: 2,
			Payloads: []string{
				"Alexis sends 1 BTC to Michel",
				"Alexis sends 0.1 BTC to his girlfriend",
			},
			CleanPayload:   "Light block",
			CheaterReplica: 0,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the simulator cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Chain.Difficulty < 0 || c.Chain.Difficulty > 64 {
		errs = append(errs, fmt.Errorf("chain.difficulty must be in [0, 64], got %d", c.Chain.Difficulty))
	}
	if c.Chain.DemoDifficulty < 0 || c.Chain.DemoDifficulty > 64 {
		errs = append(errs, fmt.Errorf("chain.demo_difficulty must be in [0, 64], got %d", c.Chain.DemoDifficulty))
	}
	if c.Network.Difficulty < 0 || c.Network.Difficulty > 64 {
		errs = append(errs, fmt.Errorf("network.difficulty must be in [0, 64], got %d", c.Network.Difficulty))
	}
	if c.Network.Replicas < 1 {
		errs = append(errs, fmt.Errorf("network.replicas must be positive, got %d", c.Network.Replicas))
	}
	// the network rounds even replica counts up
	if size := simulation.NormalizeReplicaCount(c.Network.Replicas); c.Network.CheaterReplica < 0 || c.Network.CheaterReplica >= size {
		errs = append(errs, fmt.Errorf("network.cheater_replica must be in [0, %d), got %d", size, c.Network.CheaterReplica))
	}
	if c.Chain.IndexCacheSize < 1 {
		errs = append(errs, fmt.Errorf("chain.index_cache_size must be positive, got %d", c.Chain.IndexCacheSize))
	}
	switch strings.ToLower(c.Chain.Hasher) {
	case "sha256", "blake3":
	default:
		errs = append(errs, fmt.Errorf("chain.hasher must be sha256 or blake3, got %q", c.Chain.Hasher))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c *Config) loadEnv() {
	// Chain config
	if d := os.Getenv("LEDGERSIM_DIFFICULTY"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			c.Chain.Difficulty = v
		}
	}
	if h := os.Getenv("LEDGERSIM_HASHER"); h != "" {
		c.Chain.Hasher = h
	}

	// Network config
	if r := os.Getenv("LEDGERSIM_REPLICAS"); r != "" {
		if v, err := strconv.Atoi(r); err == nil {
			c.Network.Replicas = v
		}
	}
	if d := os.Getenv("LEDGERSIM_NETWORK_DIFFICULTY"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			c.Network.Difficulty = v
		}
	}
	if p := os.Getenv("LEDGERSIM_PARALLEL"); p != "" {
		c.Network.Parallel = p == "true" || p == "1"
	}

	// Log config
	if level := os.Getenv("LEDGERSIM_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("LEDGERSIM_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
	if file := os.Getenv("LEDGERSIM_LOG_FILE"); file != "" {
		c.Log.File = file
	}

	// API config
	if listen := os.Getenv("LEDGERSIM_API_LISTEN"); listen != "" {
		c.API.Listen = listen
	}
}
