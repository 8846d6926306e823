package fetch

import (
	"fmt"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the resilient fetcher.
type Config struct {
	// BaseURL is the base URL prepended to all relative endpoints.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// MaxAttempts is the maximum number of attempts per fetch (including
	// the first). Defaults to 3.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`

	// InitialBackoff is the base retry delay. Defaults to 500ms.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`

	// MaxBackoff caps the retry delay. Defaults to 10s.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`

	// Jitter enables randomized perturbation of retry delays.
	Jitter bool `yaml:"jitter" mapstructure:"jitter"`

	// JitterFactor is the relative jitter range (0.0 to 1.0).
	JitterFactor float64 `yaml:"jitter_factor" mapstructure:"jitter_factor"`

	// RetryOnTimeout determines whether timed-out requests are retried.
	RetryOnTimeout bool `yaml:"retry_on_timeout" mapstructure:"retry_on_timeout"`

	// RetryableStatusCodes are statuses treated as transient and retried.
	RetryableStatusCodes []int `yaml:"retryable_status_codes" mapstructure:"retryable_status_codes"`

	// BreakerFailureStatusCodes are statuses that surface immediately and
	// count toward the circuit breaker's failure ratio.
	BreakerFailureStatusCodes []int `yaml:"breaker_failure_status_codes" mapstructure:"breaker_failure_status_codes"`

	// SamplingWindow is the breaker's rolling outcome window. Defaults to 60s.
	SamplingWindow time.Duration `yaml:"sampling_window" mapstructure:"sampling_window"`

	// MinimumThroughput is the sample count the breaker requires before it
	// trusts the failure ratio. Defaults to 5.
	MinimumThroughput int `yaml:"minimum_throughput" mapstructure:"minimum_throughput"`

	// OpenDuration is how long the breaker stays open. Defaults to 30s.
	OpenDuration time.Duration `yaml:"open_duration" mapstructure:"open_duration"`

	// RateLimit is the request rate toward the upstream in requests per
	// second. Defaults to 5.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`

	// RateBurst is the rate limiter's burst size. Defaults to 10.
	RateBurst int `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.Jitter && c.JitterFactor <= 0 {
		c.JitterFactor = 0.1
	}
	if len(c.RetryableStatusCodes) == 0 {
		c.RetryableStatusCodes = []int{408, 429, 502, 503, 504}
	}
	if len(c.BreakerFailureStatusCodes) == 0 {
		c.BreakerFailureStatusCodes = []int{500}
	}
	if c.SamplingWindow <= 0 {
		c.SamplingWindow = 60 * time.Second
	}
	if c.MinimumThroughput <= 0 {
		c.MinimumThroughput = 5
	}
	if c.OpenDuration <= 0 {
		c.OpenDuration = 30 * time.Second
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 5.0
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 10
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("fetch: timeout must be positive")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("fetch: max_attempts must be positive")
	}
	if c.JitterFactor < 0 || c.JitterFactor > 1 {
		return fmt.Errorf("fetch: jitter_factor must be in [0, 1]")
	}
	for _, code := range c.RetryableStatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("fetch: invalid retryable status code %d", code)
		}
	}
	for _, code := range c.BreakerFailureStatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("fetch: invalid breaker failure status code %d", code)
		}
	}
	return nil
}
