package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .storefront/).
	userConfigFile = ".storefront.yaml"

	// Default configuration values
	DefaultOnDeleteCategory = DeleteOrphan
	DefaultStrictPrice      = false
	DefaultLogLevel         = "warn"
)

// DeletePolicy decides what happens to a category's products when the
// category is deleted.
type DeletePolicy string

const (
	// DeleteOrphan leaves products in place, pointing at a missing category.
	DeleteOrphan DeletePolicy = "orphan"
	// DeleteCascade removes the category's products with it.
	DeleteCascade DeletePolicy = "cascade"
)

// Config represents user configuration from .storefront.yaml.
// This file is user-managed and never written by storefront.
type Config struct {
	// OnDeleteCategory is orphan or cascade.
	OnDeleteCategory DeletePolicy `yaml:"on_delete_category"`

	// StrictPrice rejects prices that are not decimal numbers.
	StrictPrice bool `yaml:"strict_price"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Email and PasswordHash, when both set, are the only credentials
	// login accepts. PasswordHash is a bcrypt hash.
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		OnDeleteCategory: DefaultOnDeleteCategory,
		StrictPrice:      DefaultStrictPrice,
		LogLevel:         DefaultLogLevel,
	}
}

// HasCredentials reports whether login is restricted to configured credentials.
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.PasswordHash != ""
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.OnDeleteCategory {
	case DeleteOrphan, DeleteCascade:
	default:
		return fmt.Errorf("on_delete_category must be orphan or cascade, got %q", c.OnDeleteCategory)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// LoadConfig loads .storefront.yaml if it exists, otherwise returns defaults.
// The config file is a sibling to .storefront/ (in the same directory).
// Partial config files are merged with defaults. An in-memory store
// always gets defaults.
func (s *Storage) LoadConfig() (*Config, error) {
	if s.root == "" {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(s.ConfigPath())
}

// LoadConfigFile loads a user config from path, merged over defaults.
// A missing file yields defaults.
func LoadConfigFile(path string) (*Config, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file - return defaults
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Parse YAML and merge with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	cfg.OnDeleteCategory = DeletePolicy(strings.ToLower(string(cfg.OnDeleteCategory)))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return UserConfigPath(s.root)
}

// UserConfigPath returns where the user config for a workspace in dir lives.
func UserConfigPath(dir string) string {
	return filepath.Join(dir, userConfigFile)
}
