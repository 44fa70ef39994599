// Package config loads the batch job configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"bag2csv/internal/flatten"
	"bag2csv/internal/model"
)

// Config describes one batch run: where to look for recordings, which
// topics to export, and how to merge the results.
type Config struct {
	// Root is the directory walked for recordings.
	Root string `yaml:"root"`
	// Conversions lists the topic exports applied to every recording.
	Conversions []model.Conversion `yaml:"conversions"`
	// Merge controls the per-group merge pass.
	Merge model.MergeRule `yaml:"merge"`
	// Workers bounds how many recordings convert in parallel. Zero or
	// negative means the default.
	Workers int `yaml:"workers"`
	// Separator joins prefix and field names in column keys. Empty means
	// direct concatenation.
	Separator string `yaml:"separator"`
	// Overwrite keeps the last value when two paths collapse to one
	// column key instead of failing the conversion.
	Overwrite bool `yaml:"overwrite"`
	// Compress writes .csv.zst instead of plain .csv.
	Compress bool `yaml:"compress"`
	LogLevel string `yaml:"logLevel"`
}

// DefaultWorkers bounds recording conversions when Workers is unset.
const DefaultWorkers = 4

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Root:     ".",
		Merge:    model.MergeRule{Match: "rosbag2", Output: "data.csv"},
		Workers:  DefaultWorkers,
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults. An empty path just
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parts that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	for i, conv := range c.Conversions {
		if conv.Topic == "" {
			return fmt.Errorf("conversion %d: topic is required", i)
		}
		if conv.Output == "" {
			return fmt.Errorf("conversion %d: output is required", i)
		}
	}
	if strings.ContainsAny(c.Separator, "[]") {
		return fmt.Errorf("separator %q collides with sequence indices", c.Separator)
	}
	if c.Merge.Output == "" {
		return fmt.Errorf("merge output name is required")
	}
	return nil
}

// Flattener returns the column-key flattener this configuration asks for.
func (c *Config) Flattener() *flatten.Flattener {
	policy := flatten.Reject
	if c.Overwrite {
		policy = flatten.Overwrite
	}
	return &flatten.Flattener{Sep: c.Separator, OnDuplicate: policy}
}

// SlogLevel maps the configured log level onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
