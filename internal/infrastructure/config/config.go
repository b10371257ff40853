package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/stresschart/internal/adapters/otel"
	"github.com/emiliopalmerini/stresschart/internal/util"
)

// Database holds run archive configuration.
type Database struct {
	URL       string `envconfig:"STRESSCHART_DATABASE_URL"`
	AuthToken string `envconfig:"STRESSCHART_DATABASE_AUTH_TOKEN"`
}

// Generation holds the defaults for synthetic data generation.
type Generation struct {
	Seed           int64 `envconfig:"STRESSCHART_SEED" default:"42"`
	PopulationSize int   `envconfig:"STRESSCHART_POPULATION_SIZE" default:"1000"`
	CohortSize     int   `envconfig:"STRESSCHART_COHORT_SIZE" default:"15"`
}

// Config is the full application configuration. Command-line flags override it.
type Config struct {
	Database   Database
	Generation Generation
	OTel       otel.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Generation); err != nil {
		return nil, fmt.Errorf("generation config: %w", err)
	}
	if err := envconfig.Process("", &cfg.OTel); err != nil {
		return nil, fmt.Errorf("otel config: %w", err)
	}
	return &cfg, nil
}

// DatabaseURL returns the configured URL, defaulting to a local file in the XDG data directory.
func (c *Config) DatabaseURL() (string, error) {
	if c.Database.URL != "" {
		return c.Database.URL, nil
	}
	dir, err := util.GetXDGDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return "file:" + filepath.Join(dir, "runs.db"), nil
}
