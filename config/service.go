package config

import (
	"fmt"

	"github.com/kbukum/sportkit/bulk"
	"github.com/kbukum/sportkit/cache"
	"github.com/kbukum/sportkit/fetch"
	"github.com/kbukum/sportkit/logger"
	"github.com/kbukum/sportkit/version"
)

// ServiceConfig contains the fields every sportkit service needs. Embed it
// in a larger config struct with `yaml:",inline" mapstructure:",squash"`.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// Config aggregates every tunable of the acquisition pipeline: the
// resilient fetcher, the memoizing cache, and the bulk orchestrator.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Fetch fetch.Config `yaml:"fetch" mapstructure:"fetch"`
	Cache cache.Config `yaml:"cache" mapstructure:"cache"`
	Bulk  bulk.Options `yaml:"bulk" mapstructure:"bulk"`
}

// ApplyDefaults fills in zero values across all sections.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Fetch.ApplyDefaults()
	c.Cache.ApplyDefaults()
	c.Bulk.ApplyDefaults()
}

// Validate checks all sections and reports the first violation.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return fmt.Errorf("config.fetch: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("config.cache: %w", err)
	}
	if err := c.Bulk.Validate(); err != nil {
		return fmt.Errorf("config.bulk: %w", err)
	}
	return nil
}
