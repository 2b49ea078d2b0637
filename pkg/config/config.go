// Package config handles loading and managing Crease configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/crease/crease/pkg/scoring"
)

// Removal policies for deleting a delivery from the ledger.
const (
	RemovalLatestOnly = "latest-only"
	RemovalRenumber   = "renumber"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the top-level configuration for Crease.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Views   ViewsConfig   `yaml:"views"`
	Render  RenderConfig  `yaml:"render"`
}

// ScoringConfig overrides the performance scoring weights. Bands and
// milestones given in the file replace the defaults wholesale.
type ScoringConfig struct {
	scoring.Weights `yaml:",inline"`
}

// LedgerConfig controls delivery ledger behavior.
type LedgerConfig struct {
	RemovalPolicy string `yaml:"removal_policy"` // latest-only or renumber
}

// ViewsConfig sizes the derived views.
type ViewsConfig struct {
	RecentBalls        int `yaml:"recent_balls"`
	VisualizationBalls int `yaml:"visualization_balls"`
}

// RenderConfig controls terminal rendering.
type RenderConfig struct {
	Color            string `yaml:"color"` // auto, always or never
	ShowBreakdown    bool   `yaml:"show_breakdown"`
	ShowPartnerships bool   `yaml:"show_partnerships"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{Weights: scoring.Defaults()},
		Ledger: LedgerConfig{
			RemovalPolicy: RemovalLatestOnly,
		},
		Views: ViewsConfig{
			RecentBalls:        10,
			VisualizationBalls: 20,
		},
		Render: RenderConfig{
			Color:            ColorAuto,
			ShowPartnerships: true,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks enumerated values and scoring bands.
func (c *Config) Validate() error {
	switch c.Ledger.RemovalPolicy {
	case RemovalLatestOnly, RemovalRenumber:
	default:
		return fmt.Errorf("ledger.removal_policy: unknown policy %q", c.Ledger.RemovalPolicy)
	}
	switch c.Render.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("render.color: unknown mode %q", c.Render.Color)
	}
	if c.Views.RecentBalls < 0 || c.Views.VisualizationBalls < 0 {
		return fmt.Errorf("views: ball counts must be >= 0")
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}

// FindConfigFile looks for .crease/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".crease", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
