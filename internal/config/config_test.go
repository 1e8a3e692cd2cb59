package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Search.MinScore != 0.4 || cfg.Cart.Backend != BackendMemory || cfg.Port != "8080" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envFrom(map[string]string{
		"PORT":                   "9000",
		"SEARCH_MIN_SCORE":       "0.65",
		"SEARCH_MAX_SUGGESTIONS": "5",
		"CART_BACKEND":           "redis",
		"REDIS_ADDR":             "cache:6379",
		"REDIS_DB":               "2",
		"METRICS_ENABLED":        "true",
		"RATE_LIMIT_PER_MIN":     "120",
	}))
	if err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if cfg.Port != "9000" || cfg.Search.MinScore != 0.65 || cfg.Search.MaxSuggestions != 5 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Cart.Backend != BackendRedis || cfg.Cart.RedisAddr != "cache:6379" || cfg.Cart.RedisDB != 2 {
		t.Fatalf("cart=%+v", cfg.Cart)
	}
	if !cfg.Metrics.Enabled || cfg.RateLimitPerMin != 120 {
		t.Fatalf("cfg=%+v", cfg)
	}

	mc := cfg.MatcherConfig()
	if mc.MinScore != 0.65 || mc.MaxSuggestions != 5 {
		t.Fatalf("matcher=%+v", mc)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envFrom(map[string]string{
		"SEARCH_MIN_SCORE": "high",
		"REDIS_DB":         "one",
		"METRICS_ENABLED":  "maybe",
	}))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, key := range []string{"SEARCH_MIN_SCORE", "REDIS_DB", "METRICS_ENABLED"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not mention %s", err, key)
		}
	}
}

func TestApplyEnv_NaNMinScoreRejected(t *testing.T) {
	cfg := Default()
	if err := applyEnv(&cfg, envFrom(map[string]string{"SEARCH_MIN_SCORE": "NaN"})); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected NaN min_score to be rejected")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min score above one", func(c *Config) { c.Search.MinScore = 1.5 }},
		{"negative min score", func(c *Config) { c.Search.MinScore = -0.1 }},
		{"nan min score", func(c *Config) { c.Search.MinScore = math.NaN() }},
		{"negative suggestions", func(c *Config) { c.Search.MaxSuggestions = -1 }},
		{"unknown backend", func(c *Config) { c.Cart.Backend = "mongo" }},
		{"postgres without url", func(c *Config) { c.Cart.Backend = BackendPostgres }},
		{"catalog from db without url", func(c *Config) { c.Catalog.FromDB = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
port: "7000"
search:
  min_score: 0.5
  max_suggestions: 2
cart:
  backend: postgres
  database_url: postgres://localhost/shop
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SEARCH_MIN_SCORE", "0.7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7000" || cfg.Search.MaxSuggestions != 2 || cfg.Cart.Backend != BackendPostgres {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Search.MinScore != 0.7 {
		t.Fatalf("env override lost: min_score=%v", cfg.Search.MinScore)
	}
	if cfg.Search.Workers != Default().Search.Workers {
		t.Fatalf("default lost: workers=%d", cfg.Search.Workers)
	}
}
