// Package config loads the shallot configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the contents of a .shallot.yaml file.
type Config struct {
	FeaturesDir string `yaml:"features_dir"`
	Database    string `yaml:"database"`
	Extension   string `yaml:"extension"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Filenames are searched in order when no explicit path is given.
var Filenames = []string{
	".shallot.yaml",
	".shallot.yml",
	"shallot.yaml",
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		FeaturesDir: "features",
		Database:    filepath.Join("features", "shallot.db"),
		Extension:   ".feature",
		LogLevel:    "warn",
		LogFormat:   "text",
	}
}

// Load reads the file at path, or searches dir for one of Filenames when
// path is empty. Missing keys keep their defaults.
func Load(path, dir string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	for _, name := range Filenames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return loadFile(candidate)
		}
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	if c.Extension == "" || c.Extension[0] != '.' {
		return fmt.Errorf("invalid extension %q: must start with a dot", c.Extension)
	}
	return nil
}
