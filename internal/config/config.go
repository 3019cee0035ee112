// Package config holds the file-backed run configuration the CLI layers
// its flags on top of.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Daolyap/random.daolyap.dev/internal/engine"
	"github.com/Daolyap/random.daolyap.dev/internal/partition"
)

// Config is the YAML-serializable run configuration.
type Config struct {
	Scheme      string   `yaml:"scheme"`
	Mode        string   `yaml:"mode"`
	Workers     int      `yaml:"workers"`
	BatchSize   int      `yaml:"batch_size"`
	MaxAttempts uint64   `yaml:"max_attempts"`
	Wordlists   []string `yaml:"wordlists,omitempty"`
}

// Default returns the configuration used when no file or flag overrides
// a value. Workers follows the CPU count, capped at the pool limit.
func Default() Config {
	workers := runtime.NumCPU()
	if workers > engine.MaxWorkers {
		workers = engine.MaxWorkers
	}
	if workers < engine.MinWorkers {
		workers = engine.MinWorkers
	}
	return Config{
		Scheme:    "uuid_v4",
		Mode:      "random",
		Workers:   workers,
		BatchSize: 1000,
	}
}

// Load reads a YAML config file over the defaults and validates the
// result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the engine's knob bounds before anything reaches the
// core.
func (c Config) Validate() error {
	if c.Scheme == "" {
		return fmt.Errorf("scheme must be set")
	}
	if _, err := partition.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Workers < engine.MinWorkers || c.Workers > engine.MaxWorkers {
		return fmt.Errorf("workers %d outside [%d,%d]", c.Workers, engine.MinWorkers, engine.MaxWorkers)
	}
	if c.BatchSize < engine.MinBatchSize || c.BatchSize > engine.MaxBatchSize {
		return fmt.Errorf("batch_size %d outside [%d,%d]", c.BatchSize, engine.MinBatchSize, engine.MaxBatchSize)
	}
	return nil
}
