// Package config loads the profile store configuration.
//
// Config file locations (priority order):
//  1. $EMDC_CONFIG
//  2. ./emdc-guide.yaml
//
// EMDC_DB_PATH and EMDC_TABLE_PREFIX override the file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mattmenger/emdc-guide/internal/utils"
)

// DatabaseConfig names the SQLite file and the prefix prepended to every
// profile table.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	TablePrefix string `yaml:"table_prefix"`
}

type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
}

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the path actually used, empty for defaults.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, path, nil
}

// FindConfigPath returns the first config file location that exists.
func FindConfigPath() string {
	if p := os.Getenv("EMDC_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat("./emdc-guide.yaml"); err == nil {
		return "./emdc-guide.yaml"
	}
	return ""
}

// DefaultConfig returns sensible defaults for a new installation. The
// copr_ prefix matches the community-profile table naming.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Database: DatabaseConfig{
			Path:        "./emdc-guide.db",
			TablePrefix: "copr_",
		},
	}
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = "./emdc-guide.db"
	}
	if c.Database.TablePrefix == "" {
		c.Database.TablePrefix = "copr_"
	}
}

func (c *Config) applyEnv() {
	c.Database.Path = utils.SafeEnv("EMDC_DB_PATH", c.Database.Path)
	c.Database.TablePrefix = utils.SafeEnv("EMDC_TABLE_PREFIX", c.Database.TablePrefix)
}
