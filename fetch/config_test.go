package fetch

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Timeout)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
	if len(cfg.RetryableStatusCodes) == 0 {
		t.Error("expected default retryable status codes")
	}
	if len(cfg.BreakerFailureStatusCodes) == 0 {
		t.Error("expected default breaker failure status codes")
	}
	if cfg.RateLimit <= 0 {
		t.Error("expected a default rate limit")
	}
}

func TestConfig_DefaultsPreserveExplicitValues(t *testing.T) {
	cfg := Config{
		Timeout:     5 * time.Second,
		MaxAttempts: 7,
	}
	cfg.ApplyDefaults()

	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
	}
	if cfg.MaxAttempts != 7 {
		t.Errorf("expected 7 attempts, got %d", cfg.MaxAttempts)
	}
}

func TestConfig_ValidateRejectsBadJitterFactor(t *testing.T) {
	cfg := Config{JitterFactor: 1.5}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for jitter factor > 1")
	}
}

func TestConfig_ValidateRejectsBadStatusCode(t *testing.T) {
	cfg := Config{RetryableStatusCodes: []int{999}}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid status code")
	}
}
