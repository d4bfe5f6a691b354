// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetShutdownTimeout() time.Duration
}

// RateLimitConfig provides per-IP rate limiting settings.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig interface {
	IsMetricsEnabled() bool
}

// EnergyLabelConfig provides settings for EP-Online energy label API.
type EnergyLabelConfig interface {
	GetEPOnlineAPIKey() string
	GetEPOnlineBaseURL() string
	IsEnergyLabelEnabled() bool
	GetEnergyLabelCacheTTL() time.Duration
}

// CacheConfig provides settings for the shared Redis cache.
type CacheConfig interface {
	GetRedisURL() string
	IsRedisEnabled() bool
}

// AnalysisConfig provides settings for the analysis module.
type AnalysisConfig interface {
	GetBatchConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	ShutdownTimeout     time.Duration
	DatabaseURL         string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	RateLimitRPS        float64
	RateLimitBurst      int
	MetricsEnabled      bool
	EPOnlineAPIKey      string
	EPOnlineBaseURL     string
	EnergyLabelCacheTTL time.Duration
	RedisURL            string
	BatchConcurrency    int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string               { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool             { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string          { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool           { return c.CORSAllowCreds }
func (c *Config) GetShutdownTimeout() time.Duration { return c.ShutdownTimeout }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// MetricsConfig implementation
func (c *Config) IsMetricsEnabled() bool { return c.MetricsEnabled }

// EnergyLabelConfig implementation
func (c *Config) GetEPOnlineAPIKey() string             { return c.EPOnlineAPIKey }
func (c *Config) GetEPOnlineBaseURL() string            { return c.EPOnlineBaseURL }
func (c *Config) IsEnergyLabelEnabled() bool            { return c.EPOnlineAPIKey != "" }
func (c *Config) GetEnergyLabelCacheTTL() time.Duration { return c.EnergyLabelCacheTTL }

// CacheConfig implementation
func (c *Config) GetRedisURL() string  { return c.RedisURL }
func (c *Config) IsRedisEnabled() bool { return c.RedisURL != "" }

// AnalysisConfig implementation
func (c *Config) GetBatchConcurrency() int { return c.BatchConcurrency }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if len(corsOrigins) == 0 || containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:     mustDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:        mustFloat(getEnv("RATE_LIMIT_RPS", "5")),
		RateLimitBurst:      mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		MetricsEnabled:      strings.EqualFold(getEnv("METRICS_ENABLED", "true"), "true"),
		EPOnlineAPIKey:      getEnv("EP_ONLINE_API_KEY", ""),
		EPOnlineBaseURL:     getEnv("EP_ONLINE_BASE_URL", "https://public.ep-online.nl"),
		EnergyLabelCacheTTL: mustDuration(getEnv("ENERGY_LABEL_CACHE_TTL", "24h")),
		RedisURL:            getEnv("REDIS_URL", ""),
		BatchConcurrency:    mustInt(getEnv("BATCH_CONCURRENCY", "8")),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if cfg.BatchConcurrency < 1 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be at least 1")
	}
	if cfg.EnergyLabelCacheTTL <= 0 {
		return nil, fmt.Errorf("ENERGY_LABEL_CACHE_TTL must be a positive duration")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
