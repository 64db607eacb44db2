// Package config provides unified configuration loading for hopfield.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nvandessel/hopfield/internal/constants"
	"github.com/nvandessel/hopfield/internal/hopfield"
	"gopkg.in/yaml.v3"
)

// HopfieldConfig contains all hopfield configuration settings.
type HopfieldConfig struct {
	Grid    GridConfig    `json:"grid" yaml:"grid"`
	Noise   NoiseConfig   `json:"noise" yaml:"noise"`
	Recall  RecallConfig  `json:"recall" yaml:"recall"`
	Trials  TrialsConfig  `json:"trials" yaml:"trials"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// GridConfig sizes the reference pattern. The engine has Side*Side units.
type GridConfig struct {
	Side int `json:"side" yaml:"side"`
}

// NoiseConfig controls corruption of the reference pattern.
type NoiseConfig struct {
	// Fraction of units flipped per noisy copy, in [0, 1].
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// RecallConfig controls the relaxation loop.
type RecallConfig struct {
	// Iterations is the number of full sweeps. Default: 5.
	Iterations int `json:"iterations" yaml:"iterations"`

	// EarlyStop ends recall after the first sweep that changes nothing.
	EarlyStop bool `json:"early_stop" yaml:"early_stop"`
}

// TrialsConfig controls the demo harness.
type TrialsConfig struct {
	Count   int `json:"count" yaml:"count"`
	Workers int `json:"workers" yaml:"workers"`

	// Seed for the noise of trial 0; trial k uses Seed+k. 0 picks a
	// time-derived seed at run time.
	Seed int64 `json:"seed" yaml:"seed"`
}

// StoreConfig controls run history persistence.
type StoreConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoggingConfig configures hopfield's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the trial trace in .hopfield/trials.jsonl; "trace"
	// adds full patterns to it.
	Level string `json:"level" yaml:"level"`
}

// Default returns a HopfieldConfig with the demo defaults.
func Default() *HopfieldConfig {
	return &HopfieldConfig{
		Grid:  GridConfig{Side: constants.DefaultSide},
		Noise: NoiseConfig{Fraction: constants.DefaultNoiseFraction},
		Recall: RecallConfig{
			Iterations: hopfield.DefaultIterations,
		},
		Trials: TrialsConfig{
			Count:   constants.DefaultTrials,
			Workers: constants.DefaultWorkers,
		},
		Store:   StoreConfig{Enabled: true},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Path returns ~/.hopfield/config.yaml.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.StateDirName, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.hopfield/config.yaml -> environment variables
func Load() (*HopfieldConfig, error) {
	config := Default()

	if configPath, err := Path(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys missing
// from the file keep their defaults.
func LoadFromFile(path string) (*HopfieldConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *HopfieldConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *HopfieldConfig) Validate() error {
	if c.Grid.Side < 1 || c.Grid.Side > constants.MaxSide {
		return fmt.Errorf("grid.side must be between 1 and %d, got %d", constants.MaxSide, c.Grid.Side)
	}

	f := c.Noise.Fraction
	if math.IsNaN(f) || f < 0 || f > 1 {
		return fmt.Errorf("noise.fraction must be between 0 and 1, got %v", f)
	}

	if c.Recall.Iterations < 0 {
		return fmt.Errorf("recall.iterations must be non-negative, got %d", c.Recall.Iterations)
	}

	if c.Trials.Count < 1 {
		return fmt.Errorf("trials.count must be at least 1, got %d", c.Trials.Count)
	}

	if c.Trials.Workers < 1 {
		return fmt.Errorf("trials.workers must be at least 1, got %d", c.Trials.Workers)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies HOPFIELD_* environment variables. Values that
// fail to parse are ignored.
func applyEnvOverrides(config *HopfieldConfig) {
	if v := os.Getenv("HOPFIELD_GRID_SIDE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Grid.Side = n
		}
	}

	if v := os.Getenv("HOPFIELD_NOISE_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Noise.Fraction = f
		}
	}

	if v := os.Getenv("HOPFIELD_RECALL_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Recall.Iterations = n
		}
	}

	if v := os.Getenv("HOPFIELD_EARLY_STOP"); v != "" {
		config.Recall.EarlyStop = parseBool(v)
	}

	if v := os.Getenv("HOPFIELD_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Trials.Count = n
		}
	}

	if v := os.Getenv("HOPFIELD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Trials.Workers = n
		}
	}

	if v := os.Getenv("HOPFIELD_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Trials.Seed = n
		}
	}

	if v := os.Getenv("HOPFIELD_STORE_ENABLED"); v != "" {
		config.Store.Enabled = parseBool(v)
	}

	if v := os.Getenv("HOPFIELD_LOG_LEVEL"); v != "" {
		config.Logging.Level = strings.ToLower(v)
	}
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}
