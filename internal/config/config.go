package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file the CLI looks for.
const FileName = "formatos.yaml"

// Config represents the top-level formatos.yaml configuration.
type Config struct {
	DataDir string       `yaml:"data_dir"`
	Import  ImportConfig `yaml:"import"`
}

// ImportConfig controls spreadsheet import compatibility.
type ImportConfig struct {
	// LegacyKindInference accepts format files without a Node Kind
	// column, inferring each row's kind from column occupancy.
	LegacyKindInference bool `yaml:"legacy_kind_inference"`
}

// StorePath returns the location of the collection store document.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "store.json")
}

// Load reads a formatos.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with defaults for a new project rooted at dir.
func Default(dir string) *Config {
	return &Config{
		DataDir: dir,
		Import: ImportConfig{
			LegacyKindInference: false,
		},
	}
}
