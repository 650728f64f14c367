package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Config stores connection details for the Hue bridge
type Config struct {
	// IP address of the bridge
	BridgeIP string `json:"bridge_ip"`
	// Application key, nil until the application is registered
	Key *string `json:"key"`
}

// HasKey reports whether an application key is configured
func (c *Config) HasKey() bool {
	return c.Key != nil && *c.Key != ""
}

// SetKey stores a newly obtained application key
func (c *Config) SetKey(key string) {
	c.Key = &key
}

// KeyOrEmpty returns the key, or "" when none is configured
func (c *Config) KeyOrEmpty() string {
	if c.Key == nil {
		return ""
	}
	return *c.Key
}

// Store loads and saves the configuration file
type Store struct {
	Path string
}

// DefaultPath returns the configuration file location.
// HUE_CONTROL_CONFIG overrides it; otherwise it lives under XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if p := os.Getenv("HUE_CONTROL_CONFIG"); p != "" {
		return p, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "hue-control", "config.json"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hue-control", "config.json"), nil
}

// NewDefaultStore returns a Store at DefaultPath
func NewDefaultStore() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	return &Store{Path: path}, nil
}

// Load reads the configuration from disk.
// A missing file yields an empty configuration.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", s.Path).Msg("No config file, starting empty")
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}

	log.Debug().Str("path", s.Path).Str("bridge_ip", cfg.BridgeIP).Bool("has_key", cfg.HasKey()).Msg("Loaded config")
	return &cfg, nil
}

// Save writes the configuration to disk as indented JSON
func (s *Store) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, append(data, '\n'), 0600)
}
