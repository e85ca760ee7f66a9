package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFilePath returns ~/.config/seltext/config.yaml
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "seltext", "config.yaml")
}

// LoadFile merges a YAML file into cfg. Keys missing from the file keep
// their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

// Load builds the configuration from defaults, then the YAML file, then the
// environment. An explicit path (or SELTEXT_CONFIG) must exist; the default
// file is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SELTEXT_CONFIG")
	}

	switch {
	case path != "":
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	default:
		if _, err := os.Stat(DefaultFilePath()); err == nil {
			if err := LoadFile(cfg, DefaultFilePath()); err != nil {
				return nil, err
			}
		}
	}

	LoadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return os.WriteFile(path, data, 0644)
}
