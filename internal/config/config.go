// Package config loads and saves the CLI's YAML defaults file, the way the
// teacher repo's internal/config.go does for its own provider settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig mirrors the CLI's --embedder/--embedder-model/--embedder-dim flags so
// a user can persist them instead of passing them every invocation.
type EmbedderConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

type Config struct {
	Database   string         `yaml:"database"`
	Format     string         `yaml:"format"`
	AutoCommit bool           `yaml:"auto_commit"`
	Embedder   EmbedderConfig `yaml:"embedder"`
}

func Default() *Config {
	return &Config{
		Database:   "thoughts.indra",
		Format:     "json",
		AutoCommit: true,
		Embedder: EmbedderConfig{
			Provider:  "mock",
			Dimension: 8,
		},
	}
}

// Load reads path, returning defaults if it does not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
