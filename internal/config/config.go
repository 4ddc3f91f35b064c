// ABOUTME: Healthtrack configuration loaded from YAML with environment overrides.
// ABOUTME: Resolves the database path and the default profile for the CLI.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/harperreed/healthtrack/internal/storage"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config stores healthtrack configuration.
type Config struct {
	// DataDir is the directory holding health_data.db.
	// Supports ~ expansion. Defaults to ~/.local/share/healthtrack.
	DataDir string `yaml:"data_dir,omitempty" env:"HEALTHTRACK_DATA_DIR"`

	// DBPath points at a database file directly and wins over DataDir.
	DBPath string `yaml:"db_path,omitempty" env:"HEALTHTRACK_DB"`

	// DefaultProfile is a profile name or id selected at startup.
	DefaultProfile string `yaml:"default_profile,omitempty" env:"HEALTHTRACK_PROFILE"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty" env:"HEALTHTRACK_LOG_LEVEL"`

	path string
	// file holds what the config file itself says; loaded is the view after
	// env overrides. Save writes file plus whatever changed since loaded.
	file   settings
	loaded settings
}

// settings is the persisted subset of Config.
type settings struct {
	DataDir        string `yaml:"data_dir,omitempty"`
	DBPath         string `yaml:"db_path,omitempty"`
	DefaultProfile string `yaml:"default_profile,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

func (c *Config) settings() settings {
	return settings{
		DataDir:        c.DataDir,
		DBPath:         c.DBPath,
		DefaultProfile: c.DefaultProfile,
		LogLevel:       c.LogLevel,
	}
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the database file path.
func (c *Config) GetDBPath() string {
	switch {
	case c.DBPath != "":
		return ExpandPath(c.DBPath)
	case c.DataDir != "":
		return filepath.Join(c.GetDataDir(), storage.DBFileName)
	default:
		return storage.DefaultDBPath()
	}
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// Path returns the file this config was loaded from or will be saved to.
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// ExpandPath expands a leading ~ to the user's home directory.
// Paths it cannot expand are returned unchanged.
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthtrack", "config.yaml")
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path and applies environment overrides.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(ExpandPath(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.file = cfg.settings()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config environment: %w", err)
	}

	cfg.path = ExpandPath(path)
	cfg.loaded = cfg.settings()
	return cfg, nil
}

// Save writes config to disk. Values that came from environment overrides
// are not persisted unless they were changed after loading.
func (c *Config) Save() error {
	path := c.Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	out := c.file
	cur := c.settings()
	keepChanged(&out.DataDir, cur.DataDir, c.loaded.DataDir)
	keepChanged(&out.DBPath, cur.DBPath, c.loaded.DBPath)
	keepChanged(&out.DefaultProfile, cur.DefaultProfile, c.loaded.DefaultProfile)
	keepChanged(&out.LogLevel, cur.LogLevel, c.loaded.LogLevel)

	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	c.file = out
	c.loaded = cur
	return nil
}

func keepChanged(dst *string, cur, loaded string) {
	if cur != loaded {
		*dst = cur
	}
}
