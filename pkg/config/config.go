// Package config provides configuration loading and management for signaledit.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/signaledit/pkg/overlay"
	"github.com/anggasct/signaledit/pkg/signal"
)

// Config represents the complete signaledit configuration
type Config struct {
	Editor  EditorConfig  `yaml:"editor"`
	Map     MapConfig     `yaml:"map"`
	Edits   EditsConfig   `yaml:"edits"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// EditorConfig configures editing sessions
type EditorConfig struct {
	// DefaultCycleSeconds is the duration of cycles created by the editor
	DefaultCycleSeconds uint64 `yaml:"default_cycle_seconds"`
}

// MapConfig locates the map the editor works on
type MapConfig struct {
	// Path is a YAML map file
	Path string `yaml:"path"`
}

// EditsConfig locates persisted edit sets
type EditsConfig struct {
	// Dir holds edit sets as <dir>/<map>/<edits>.yaml
	Dir string `yaml:"dir"`
	// Name is the edit set to open
	Name string `yaml:"name"`
	// Pattern filters edit sets when listing
	Pattern string `yaml:"pattern"`
	// Debounce delays reloads of a watched edit set
	Debounce time.Duration `yaml:"debounce"`
}

// NATSConfig configures plan publishing
type NATSConfig struct {
	Enabled bool `yaml:"enabled"`
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to the intersection id
	SubjectPrefix string `yaml:"subject_prefix"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			DefaultCycleSeconds: 30,
		},
		Edits: EditsConfig{
			Dir:      "edits",
			Name:     overlay.NoEditsName,
			Pattern:  overlay.DefaultListPattern,
			Debounce: overlay.DefaultDebounce,
		},
		NATS: NATSConfig{
			Enabled:       false,
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: overlay.DefaultSubjectPrefix,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// CycleDuration returns the editor's default cycle duration
func (c *EditorConfig) CycleDuration() time.Duration {
	return time.Duration(c.DefaultCycleSeconds) * time.Second
}

// SlogLevel parses the configured level
func (c *LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks that the configuration is valid and reports every problem
func (c *Config) Validate() error {
	var p problems

	p.require(c.Editor.DefaultCycleSeconds > 0, "editor.default_cycle_seconds must be positive")
	p.require(c.Editor.DefaultCycleSeconds <= signal.MaxSeconds,
		"editor.default_cycle_seconds must be at most %d", signal.MaxSeconds)
	p.require(c.Edits.Dir != "", "edits.dir is required")
	p.require(c.Edits.Name != "", "edits.name is required")
	p.require(c.Edits.Debounce >= 0, "edits.debounce must not be negative")
	if c.NATS.Enabled {
		p.require(c.NATS.URL != "", "nats.url is required when nats is enabled")
		p.require(c.NATS.SubjectPrefix != "", "nats.subject_prefix is required when nats is enabled")
	}
	if c.Metrics.Enabled {
		p.require(c.Metrics.Addr != "", "metrics.addr is required when metrics are enabled")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		p.add(err)
	}

	return p.err()
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := readFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// loadLayer reads a file without defaults so that Merge only sees the keys it sets
func loadLayer(path string) (*Config, error) {
	config := &Config{}
	if err := readFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func readFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). A layer can switch NATS or metrics on but not off.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Editor.DefaultCycleSeconds != 0 {
		c.Editor.DefaultCycleSeconds = other.Editor.DefaultCycleSeconds
	}

	if other.Map.Path != "" {
		c.Map.Path = other.Map.Path
	}

	if other.Edits.Dir != "" {
		c.Edits.Dir = other.Edits.Dir
	}
	if other.Edits.Name != "" {
		c.Edits.Name = other.Edits.Name
	}
	if other.Edits.Pattern != "" {
		c.Edits.Pattern = other.Edits.Pattern
	}
	if other.Edits.Debounce != 0 {
		c.Edits.Debounce = other.Edits.Debounce
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
	if other.NATS.Enabled {
		c.NATS.Enabled = true
	}

	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
	if other.Metrics.Enabled {
		c.Metrics.Enabled = true
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
