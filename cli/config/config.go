package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents a steward.yaml configuration file.
// All values are optional and act as defaults for steward flags.
// CLI flags always override config values.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Refresh RefreshConfig `yaml:"refresh"`
	Adapter AdapterConfig `yaml:"adapter"`
	Archive ArchiveConfig `yaml:"archive"`
}

// DataConfig holds local data paths for the substitute repository,
// settings document, and report exports.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	SnapshotPath string `yaml:"snapshot_path"`
	SettingsPath string `yaml:"settings_path"`
	ExportDir    string `yaml:"export_dir"`
	Seed         int64  `yaml:"seed"`
}

// RefreshConfig holds dashboard polling intervals.
type RefreshConfig struct {
	Status  Duration `yaml:"status"`
	Metrics Duration `yaml:"metrics"`
	Clients Duration `yaml:"clients"`
	Logs    Duration `yaml:"logs"`
}

// AdapterConfig holds notification adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// ArchiveConfig holds audit-archive defaults from the config file.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Dataset     string `yaml:"dataset"`
	Source      string `yaml:"source"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// DefaultDataDir returns the per-user steward data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".steward"
	}
	return filepath.Join(home, ".steward")
}

// Normalize fills derived paths from Data.Dir and applies refresh
// interval defaults. Explicit paths in the file are left untouched.
func (c *Config) Normalize() {
	if c.Data.Dir == "" {
		c.Data.Dir = DefaultDataDir()
	}
	if c.Data.SnapshotPath == "" {
		c.Data.SnapshotPath = filepath.Join(c.Data.Dir, "mock_state.msgpack")
	}
	if c.Data.SettingsPath == "" {
		c.Data.SettingsPath = filepath.Join(c.Data.Dir, "settings.json")
	}
	if c.Data.ExportDir == "" {
		c.Data.ExportDir = filepath.Join(c.Data.Dir, "reports")
	}

	if c.Refresh.Status.Duration == 0 {
		c.Refresh.Status.Duration = 5 * time.Second
	}
	if c.Refresh.Metrics.Duration == 0 {
		c.Refresh.Metrics.Duration = 5 * time.Second
	}
	if c.Refresh.Clients.Duration == 0 {
		c.Refresh.Clients.Duration = 10 * time.Second
	}
	if c.Refresh.Logs.Duration == 0 {
		c.Refresh.Logs.Duration = 15 * time.Second
	}
}
