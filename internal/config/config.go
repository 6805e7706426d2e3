package config

import (
	"fmt"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for haven-server.
// Environment variables are parsed from the HAVEN_ prefix,
// e.g. HAVEN_HTTP_PORT, HAVEN_STORE_DRIVER.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store selection: auto | localfile | sqlite | postgres | memory.
	// "auto" resolves to localfile under DataDir.
	StoreDriver string `envconfig:"STORE_DRIVER" default:"auto"`
	DataDir     string `envconfig:"DATA_DIR" default:"./data"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Image generation service. An empty URL disables image generation;
	// ingestion then stores records without an image.
	ImageServiceURL     string `envconfig:"IMAGE_SERVICE_URL" default:""`
	ImageStyle          string `envconfig:"IMAGE_STYLE" default:"symbolic"`
	ImageSize           string `envconfig:"IMAGE_SIZE" default:"1024x1024"`
	ImageTimeoutSeconds int    `envconfig:"IMAGE_TIMEOUT_SECONDS" default:"30"`

	// Webhook ingestion. Calls arrive without an authenticated session, so
	// records are attributed to WebhookUserID. WebhookSecret, when set,
	// requires the provider to send the same value in X-Webhook-Secret.
	WebhookUserID string `envconfig:"WEBHOOK_USER_ID" default:"anonymous"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET" default:""`

	// AllowDestructiveOps gates the bulk-clear endpoint. Testing only.
	AllowDestructiveOps bool `envconfig:"ALLOW_DESTRUCTIVE_OPS" default:"false"`

	// Health probing
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates StoreDriver and derives the concrete driver when
// set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = "localfile"
	}

	allowed := map[string]bool{"localfile": true, "sqlite": true, "postgres": true, "memory": true}
	if !allowed[c.StoreDriver] {
		return fmt.Errorf("unsupported HAVEN_STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.StoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("HAVEN_POSTGRES_DSN required for postgres store")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("HAVEN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing: in-memory store,
// no image service, destructive ops allowed.
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		HTTPPort:                  8080,
		StoreDriver:               "memory",
		DataDir:                   ".",
		ImageTimeoutSeconds:       1,
		WebhookUserID:             "anonymous",
		AllowDestructiveOps:       true,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// LocalFilePath returns the path of the localfile store blob.
func (c *Config) LocalFilePath() string { return filepath.Join(c.DataDir, "haven-records.json") }

// SQLitePath returns the path of the sqlite store database.
func (c *Config) SQLitePath() string { return filepath.Join(c.DataDir, "haven.db") }
