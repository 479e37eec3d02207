// Package config resolves the daemon's on-disk locations and optional
// user overrides.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional ~/.interminai/config.yaml file. Every field has
// a zero value that falls back to the built-in default.
type Config struct {
	SocketDir    string `yaml:"socket_dir"`
	DefaultRows  int    `yaml:"default_rows"`
	DefaultCols  int    `yaml:"default_cols"`
}

// ConfigDir returns the interminai configuration directory (~/.interminai/).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".interminai")
	}
	return filepath.Join(home, ".interminai")
}

// SocketDir returns the directory named sockets are created in, honoring
// an override in the optional config file.
func SocketDir() string {
	cfg, _ := Load()
	if cfg != nil && cfg.SocketDir != "" {
		return cfg.SocketDir
	}
	return filepath.Join(ConfigDir(), "sockets")
}

// Load reads ~/.interminai/config.yaml. A missing file is not an error:
// it returns a zero-value Config so callers fall back to defaults.
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(ConfigDir(), "config.yaml"))
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
