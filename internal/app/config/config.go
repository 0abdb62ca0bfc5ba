// Package config assembles process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pair_dashboard/internal/platform/externalapi/binance"
	"pair_dashboard/internal/platform/logging"
	"pair_dashboard/internal/platform/redis"
)

// CacheBackend selects where fetched results are kept.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
	CacheNone   CacheBackend = "none"
)

const defaultHTTPAddr = ":8080"

// Config is the full process configuration.
type Config struct {
	HTTPAddr    string
	// CORSOrigins lists browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string
	Market      binance.Config
	Cache       CacheConfig
	Redis       redis.Config
	Log         logging.Config
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Backend CacheBackend
	// TTL overrides the backend default expiry when positive.
	TTL time.Duration
}

// LoadDotEnv loads path into the environment when it exists.
// Variables already set in the environment win.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		slog.Debug(".env not found; using system environment variables", "path", path)
	}
}

// Load reads Config from environment variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		Market:   binance.LoadConfig(),
		Cache: CacheConfig{
			Backend: CacheBackend(strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND")))),
		},
		Redis: redis.LoadConfig(),
		Log:   logging.LoadConfig(),
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if raw := strings.TrimSpace(os.Getenv("CACHE_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("CACHE_TTL: invalid duration %q", raw)
		}
		cfg.Cache.TTL = d
	}
	return cfg, nil
}

// Validate checks the backend selections.
func (c Config) Validate() error {
	switch c.Market.Backend {
	case binance.BackendSDK, binance.BackendREST:
	default:
		return fmt.Errorf("MARKET_BACKEND: unknown backend %q (want sdk or rest)", c.Market.Backend)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("CACHE_BACKEND: unknown backend %q (want memory, redis or none)", c.Cache.Backend)
	}
	return nil
}
