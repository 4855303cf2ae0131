package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// MaxRecentSourceDirs bounds the recent source directory history
const MaxRecentSourceDirs = 10

// Config represents the application configuration
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults" toml:"defaults"`
	Paths    PathsConfig    `yaml:"paths" toml:"paths"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	History  HistoryConfig  `yaml:"history" toml:"history"`
}

// DefaultsConfig holds default values
type DefaultsConfig struct {
	Format       string `yaml:"format" toml:"format"`
	Jobs         int    `yaml:"jobs" toml:"jobs"` // 0 means CPU count
	SkipExisting bool   `yaml:"skip_existing" toml:"skip_existing"`
	Verbose      bool   `yaml:"verbose" toml:"verbose"`
	Quiet        bool   `yaml:"quiet" toml:"quiet"`
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	FFmpeg string `yaml:"ffmpeg" toml:"ffmpeg"`
}

// LoggingConfig controls diagnostic logging
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

// HistoryConfig holds remembered state
type HistoryConfig struct {
	RecentSourceDirs []string `yaml:"recent_source_dirs" toml:"recent_source_dirs"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Format: "",
			Jobs:   0,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// AppDir returns the application directory (~/.vid2audio)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vid2audio"
	}
	return filepath.Join(home, ".vid2audio")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.History.RecentSourceDirs = normalizeRecent(cfg.History.RecentSourceDirs)
	return cfg, nil
}

// LoadDefault loads config from default path
func LoadDefault() (*Config, error) {
	return Load(ConfigPath())
}

// Save writes config to file while holding an exclusive lock on path.lock
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock config: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(ConfigPath())
}

// AddRecentSourceDir records dir as the most recently used source directory.
// Duplicates are collapsed and the list is capped at MaxRecentSourceDirs.
func (c *Config) AddRecentSourceDir(dir string) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	dir = filepath.Clean(dir)

	// lru.New only fails for a non-positive size
	cache, _ := lru.New[string, struct{}](MaxRecentSourceDirs)
	// Oldest first so the most recent entries survive eviction
	recent := c.History.RecentSourceDirs
	for i := len(recent) - 1; i >= 0; i-- {
		cache.Add(recent[i], struct{}{})
	}
	cache.Add(dir, struct{}{})

	keys := cache.Keys() // oldest to newest
	out := make([]string, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		out = append(out, keys[i])
	}
	c.History.RecentSourceDirs = out
}

// ClearHistory forgets all recent source directories
func (c *Config) ClearHistory() {
	c.History.RecentSourceDirs = nil
}

func normalizeRecent(dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
		if len(out) == MaxRecentSourceDirs {
			break
		}
	}
	return out
}
