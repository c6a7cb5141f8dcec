package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML job file. Values here sit between built-in
// defaults and CLI flags: defaults < file < flags.
type Config struct {
	OutputDir           string   `yaml:"output_dir"`
	Tiers               []string `yaml:"tiers"`
	MaxMatchesPerRegion int      `yaml:"max_matches_per_region"`
	Regions             []string `yaml:"regions"`
	HistoryCount        int      `yaml:"history_count"`
	SkipUpload          bool     `yaml:"skip_upload"`
}

// Default returns the built-in job configuration: apex tiers only, the full
// region roster, and a conservative per-region budget.
func Default() Config {
	return Config{
		OutputDir:           ".",
		Tiers:               []string{"CHALLENGER", "GRANDMASTER"},
		MaxMatchesPerRegion: 20,
		HistoryCount:        5,
	}
}

// Load reads a YAML job file over the defaults. Fields absent from the file
// keep their default values.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
