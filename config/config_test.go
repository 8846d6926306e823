package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "sportkit"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("Environment = %q, want development", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "sportkit", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("service name propagates to logging", func(t *testing.T) {
		cfg := ServiceConfig{Name: "sportkit"}
		cfg.ApplyDefaults()
		if cfg.Logging.ServiceName != "sportkit" {
			t.Errorf("Logging.ServiceName = %q, want sportkit", cfg.Logging.ServiceName)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", ServiceConfig{Name: "svc", Environment: "development"}, ""},
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestConfigDefaultsAreValid(t *testing.T) {
	cfg := Config{}
	cfg.Name = "sportkit"
	cfg.Bulk.MaxRetries = 0
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaulted Config failed validation: %v", err)
	}
	if cfg.Fetch.MaxAttempts == 0 {
		t.Error("fetch defaults were not applied")
	}
	if cfg.Cache.Namespace == "" {
		t.Error("cache defaults were not applied")
	}
	if cfg.Bulk.MaxConcurrency == 0 {
		t.Error("bulk defaults were not applied")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	body := `
name: sportkit
environment: production
logging:
  level: warn
  format: json
fetch:
  base_url: https://example.test/api
  timeout: 10s
  max_attempts: 4
cache:
  namespace: NFL
  ttl:
    live: 20s
bulk:
  max_concurrency: 8
  batch_size: 25
  max_memory_threshold: 1048576
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	var cfg Config
	if err := Load("sportkit", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Name != "sportkit" || cfg.Environment != "production" {
		t.Errorf("base = %q/%q", cfg.Name, cfg.Environment)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Fetch.BaseURL != "https://example.test/api" {
		t.Errorf("Fetch.BaseURL = %q", cfg.Fetch.BaseURL)
	}
	if cfg.Fetch.Timeout != 10*time.Second || cfg.Fetch.MaxAttempts != 4 {
		t.Errorf("fetch = timeout %v, attempts %d", cfg.Fetch.Timeout, cfg.Fetch.MaxAttempts)
	}
	if cfg.Cache.Namespace != "NFL" {
		t.Errorf("Cache.Namespace = %q, want NFL", cfg.Cache.Namespace)
	}
	if cfg.Cache.TTL.Live != 20*time.Second {
		t.Errorf("Cache.TTL.Live = %v, want 20s", cfg.Cache.TTL.Live)
	}
	if cfg.Bulk.MaxConcurrency != 8 || cfg.Bulk.BatchSize != 25 {
		t.Errorf("bulk = %+v", cfg.Bulk)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config failed validation: %v", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: sportkit\nfetch:\n  base_url: https://file.test\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Setenv("FETCH_BASE_URL", "https://env.test")

	var cfg Config
	if err := Load("sportkit", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Fetch.BaseURL != "https://env.test" {
		t.Errorf("Fetch.BaseURL = %q, want the env override", cfg.Fetch.BaseURL)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("CACHE_NAMESPACE=CFB\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	var cfg Config
	if err := Load("sportkit", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Namespace != "CFB" {
		t.Errorf("Cache.Namespace = %q, want CFB", cfg.Cache.Namespace)
	}
	os.Unsetenv("CACHE_NAMESPACE")
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("FETCH_BASE_URL")
	want := map[string]bool{
		"fetch_base_url": true,
		"fetch.base.url": true,
		"fetch.base_url": true,
	}
	for _, v := range got {
		delete(want, v)
	}
	if len(want) != 0 {
		t.Errorf("envKeyVariants() missing %v (got %v)", want, got)
	}

	if got := envKeyVariants("PATH"); len(got) != 1 || got[0] != "path" {
		t.Errorf("envKeyVariants(PATH) = %v", got)
	}
}

type fakeFS struct {
	files map[string]bool
}

func (f fakeFS) Exists(path string) bool { return f.files[path] }
func (f fakeFS) LoadEnv(string) error    { return nil }

func TestFindConfigFileOrder(t *testing.T) {
	fs := fakeFS{files: map[string]bool{
		"./config.yml":              true,
		"./cmd/sportkit/config.yml": true,
	}}
	if got := findConfigFile(fs, "sportkit"); got != "./cmd/sportkit/config.yml" {
		t.Errorf("findConfigFile() = %q, want the cmd-local file first", got)
	}

	fs = fakeFS{files: map[string]bool{"./config.yml": true}}
	if got := findConfigFile(fs, "sportkit"); got != "./config.yml" {
		t.Errorf("findConfigFile() = %q, want ./config.yml", got)
	}

	fs = fakeFS{files: map[string]bool{}}
	if got := findConfigFile(fs, "sportkit"); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}
}
