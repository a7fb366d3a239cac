// Package config provides configuration loading and management for the
// engine. It handles loading configuration from YAML files and provides
// default values for every tunable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the engine configuration loaded from YAML.
type Config struct {
	// Margin engine parameters
	Margin struct {
		// SpacingMM is the working-grid voxel spacing per axis in mm.
		SpacingMM [3]float64 `yaml:"spacingMM"`

		// PaddingMM pads the contour bounding box so dilation never
		// clips; sensible values are 30-50.
		PaddingMM float64 `yaml:"paddingMM"`

		// SliceGapFill is the largest empty-slice run closed between
		// two drawn slices of one column.
		SliceGapFill int `yaml:"sliceGapFill"`

		// Strategy names the structuring-element realization:
		// "exact" or "separable".
		Strategy string `yaml:"strategy"`

		// SimplifyTolerance is the contour simplification threshold
		// in voxels.
		SimplifyTolerance float64 `yaml:"simplifyTolerance"`
	} `yaml:"margin"`

	// Processing parameters
	Processing struct {
		// Workers bounds the goroutines used by volumetric passes.
		Workers int `yaml:"workers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose controls the level of progress output.
		Verbose bool `yaml:"verbose"`

		// SliceDumpDir is where slice snapshots are written when slice
		// dumping is requested.
		SliceDumpDir string `yaml:"sliceDumpDir"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Margin.SpacingMM = [3]float64{1.0, 1.0, 1.0}
	cfg.Margin.PaddingMM = 40.0
	cfg.Margin.SliceGapFill = 5
	cfg.Margin.Strategy = "separable"
	cfg.Margin.SimplifyTolerance = 0.5

	cfg.Processing.Workers = runtime.NumCPU()

	cfg.Output.Verbose = true
	cfg.Output.SliceDumpDir = "slice_dumps"

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
