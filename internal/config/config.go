// Package config reads and writes the project file rmk.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of an rmk project.
const FileName = "rmk.yaml"

// Config represents the top-level rmk.yaml configuration.
type Config struct {
	Company  CompanyConfig `yaml:"company"`
	Currency string        `yaml:"currency"`
	Locale   string        `yaml:"locale"` // BCP 47 tag used to format amounts, e.g. "pl" or "en-US"
	Import   ImportConfig  `yaml:"import"`
	Git      GitConfig     `yaml:"git"`
}

// CompanyConfig identifies the company whose costs are tracked.
type CompanyConfig struct {
	Name  string `yaml:"name"`
	TaxID string `yaml:"tax_id,omitempty"`
}

// ImportConfig controls `rmk import`.
type ImportConfig struct {
	Format string `yaml:"format"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Path returns the location of rmk.yaml inside repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads an rmk.yaml file from disk. Missing optional fields take their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
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

// Default returns a Config with sensible defaults for a new project.
func Default(companyName string) *Config {
	return &Config{
		Company:  CompanyConfig{Name: companyName},
		Currency: "PLN",
		Locale:   "pl",
		Import:   ImportConfig{Format: "rmk"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "rmk",
			AuthorEmail: "rmk@localhost",
		},
	}
}
