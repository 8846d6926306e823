package cache

import (
	"fmt"
	"time"
)

// TTLConfig holds per-category expiry durations. Categories are derived
// from the operation name embedded in a cache key; see ResolveTTL.
type TTLConfig struct {
	// Season covers season and weekly schedule data.
	Season time.Duration `yaml:"season" mapstructure:"season"`
	// Team covers team metadata.
	Team time.Duration `yaml:"team" mapstructure:"team"`
	// PlayerStats covers per-player and per-week statistics.
	PlayerStats time.Duration `yaml:"player_stats" mapstructure:"player_stats"`
	// BoxScore covers completed-game and box-score data.
	BoxScore time.Duration `yaml:"box_score" mapstructure:"box_score"`
	// Live covers anything tagged live.
	Live time.Duration `yaml:"live" mapstructure:"live"`
	// Default is the fallback for unrecognized operations.
	Default time.Duration `yaml:"default" mapstructure:"default"`
}

// ApplyDefaults fills in zero-value TTLs.
func (c *TTLConfig) ApplyDefaults() {
	if c.Season <= 0 {
		c.Season = 6 * time.Hour
	}
	if c.Team <= 0 {
		c.Team = 12 * time.Hour
	}
	if c.PlayerStats <= 0 {
		c.PlayerStats = 30 * time.Minute
	}
	if c.BoxScore <= 0 {
		c.BoxScore = 15 * time.Minute
	}
	if c.Live <= 0 {
		c.Live = 30 * time.Second
	}
	if c.Default <= 0 {
		c.Default = 5 * time.Minute
	}
}

// Validate checks that all TTLs are positive.
func (c *TTLConfig) Validate() error {
	for name, d := range map[string]time.Duration{
		"season": c.Season, "team": c.Team, "player_stats": c.PlayerStats,
		"box_score": c.BoxScore, "live": c.Live, "default": c.Default,
	} {
		if d <= 0 {
			return fmt.Errorf("cache: ttl.%s must be positive", name)
		}
	}
	return nil
}

// Config configures the memoizing cache.
type Config struct {
	// Namespace is the fixed prefix for generated keys.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`

	// MaxSize is the aggregate size budget in bytes for stored values.
	MaxSize int64 `yaml:"max_size" mapstructure:"max_size"`

	// TTL holds the per-category expiry durations.
	TTL TTLConfig `yaml:"ttl" mapstructure:"ttl"`

	// EnableWarming controls whether Warm pre-populates entries.
	EnableWarming bool `yaml:"enable_warming" mapstructure:"enable_warming"`
}

// DefaultConfig returns sensible defaults: 64 MiB budget, ESPN namespace.
func DefaultConfig() Config {
	cfg := Config{
		Namespace: "ESPN",
		MaxSize:   64 << 20,
	}
	cfg.TTL.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Namespace == "" {
		c.Namespace = "ESPN"
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 64 << 20
	}
	c.TTL.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("cache: max_size must be positive")
	}
	return c.TTL.Validate()
}
