// Package config resolves where botree keeps its data and the defaults
// the hosts start with.
//
// Paths follow the XDG Base Directory layout:
//   - Config: ~/.config/botree/config.yaml
//   - Data:   ~/.local/share/botree/botree.db
//
// BOTREE_DB overrides the database path.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	AppName = "botree"

	// DBEnvVar overrides the database path
	DBEnvVar = "BOTREE_DB"

	// DefaultDBName is the database file inside DataDir
	DefaultDBName = "botree.db"
)

// TreeConfig holds the depths trees are loaded with
type TreeConfig struct {
	Expand  int `yaml:"expand"`  // levels built eagerly, -1 for all
	Display int `yaml:"display"` // levels showing relationships, -1 for all
}

// Config is the contents of config.yaml
type Config struct {
	DB      string     `yaml:"db,omitempty"`
	Fixture string     `yaml:"fixture,omitempty"` // YAML graph the TUI opens instead of the store
	Watch   bool       `yaml:"watch,omitempty"`
	Tree    TreeConfig `yaml:"tree"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() Config {
	return Config{
		Tree: TreeConfig{
			Expand:  2,
			Display: -1,
		},
	}
}

// ConfigDir returns the XDG config directory for botree
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the XDG data directory for botree
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, AppName)
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads config.yaml from the config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	cfg.DB = expandHome(cfg.DB)
	cfg.Fixture = expandHome(cfg.Fixture)
	return cfg, nil
}

// SaveTo writes cfg to path, creating the directory
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects depths below -1
func (c Config) Validate() error {
	if c.Tree.Expand < -1 {
		return fmt.Errorf("tree.expand must be -1 or more, got %d", c.Tree.Expand)
	}
	if c.Tree.Display < -1 {
		return fmt.Errorf("tree.display must be -1 or more, got %d", c.Tree.Display)
	}
	return nil
}

// DBPath returns the database path: BOTREE_DB, then the config file's db
// entry, then botree.db in DataDir.
func (c Config) DBPath() string {
	if env := os.Getenv(DBEnvVar); env != "" {
		return env
	}
	if c.DB != "" {
		return c.DB
	}
	return filepath.Join(DataDir(), DefaultDBName)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
