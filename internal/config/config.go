// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"BuildSupply/internal/search"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port     string        `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Search   SearchConfig  `yaml:"search"`
	Cart     CartConfig    `yaml:"cart"`
	Metrics  MetricsConfig `yaml:"metrics"`

	RateLimitPerMin int `yaml:"rate_limit_per_min"`
}

// CatalogConfig selects where products come from: File if set, else the
// products table when FromDB is true, else the built-in catalog.
type CatalogConfig struct {
	File   string `yaml:"file"`
	FromDB bool   `yaml:"from_db"`
}

type SearchConfig struct {
	MinScore       float64 `yaml:"min_score"`
	MaxSuggestions int     `yaml:"max_suggestions"`
	Workers        int     `yaml:"workers"`
}

type CartConfig struct {
	Backend       string `yaml:"backend"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

func Default() Config {
	sc := search.DefaultConfig()
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Search: SearchConfig{
			MinScore:       sc.MinScore,
			MaxSuggestions: sc.MaxSuggestions,
			Workers:        sc.Workers,
		},
		Cart: CartConfig{
			Backend:     BackendMemory,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "buildsupply:",
		},
	}
}

// Load reads CONFIG_FILE when set, then applies environment overrides and
// validates the result.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	var errs []string
	num := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q: not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q: not a boolean", key, v))
				return
			}
			*dst = b
		}
	}

	str("PORT", &cfg.Port)
	str("LOG_LEVEL", &cfg.LogLevel)

	str("CATALOG_FILE", &cfg.Catalog.File)
	flag("CATALOG_FROM_DB", &cfg.Catalog.FromDB)

	if v := getenv("SEARCH_MIN_SCORE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("SEARCH_MIN_SCORE=%q: not a number", v))
		} else {
			cfg.Search.MinScore = f
		}
	}
	num("SEARCH_MAX_SUGGESTIONS", &cfg.Search.MaxSuggestions)
	num("SEARCH_WORKERS", &cfg.Search.Workers)

	str("CART_BACKEND", &cfg.Cart.Backend)
	str("DATABASE_URL", &cfg.Cart.DatabaseURL)
	str("REDIS_ADDR", &cfg.Cart.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Cart.RedisPassword)
	num("REDIS_DB", &cfg.Cart.RedisDB)
	str("REDIS_PREFIX", &cfg.Cart.RedisPrefix)

	flag("METRICS_ENABLED", &cfg.Metrics.Enabled)
	str("METRICS_TOKEN", &cfg.Metrics.Token)

	num("RATE_LIMIT_PER_MIN", &cfg.RateLimitPerMin)

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c Config) Validate() error {
	if math.IsNaN(c.Search.MinScore) || c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("search.min_score must be within [0,1], got %v", c.Search.MinScore)
	}
	if c.Search.MaxSuggestions < 0 {
		return fmt.Errorf("search.max_suggestions must not be negative")
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("rate_limit_per_min must not be negative")
	}

	switch c.Cart.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Cart.DatabaseURL == "" {
			return fmt.Errorf("cart backend %q requires DATABASE_URL", c.Cart.Backend)
		}
	case BackendRedis:
		if c.Cart.RedisAddr == "" {
			return fmt.Errorf("cart backend %q requires REDIS_ADDR", c.Cart.Backend)
		}
	default:
		return fmt.Errorf("unknown cart backend %q", c.Cart.Backend)
	}

	if c.Catalog.FromDB && c.Cart.DatabaseURL == "" {
		return fmt.Errorf("catalog.from_db requires DATABASE_URL")
	}
	return nil
}

// MatcherConfig converts to the matcher's settings.
func (c Config) MatcherConfig() search.Config {
	return search.Config{
		MinScore:       c.Search.MinScore,
		MaxSuggestions: c.Search.MaxSuggestions,
		Workers:        c.Search.Workers,
	}
}
