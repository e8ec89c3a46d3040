package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, expands environment variables, and
// unmarshals into a normalized Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	cfg.Normalize()
	return &cfg, nil
}

// LoadOrDefault loads the config at path. An empty path falls back to
// steward.yaml in the data dir; a missing default file is not an error
// and yields a normalized zero config.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	fallback := filepath.Join(DefaultDataDir(), "steward.yaml")
	if _, err := os.Stat(fallback); err != nil {
		cfg := &Config{}
		cfg.Normalize()
		return cfg, nil
	}
	return Load(fallback)
}
