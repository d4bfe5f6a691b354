// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"propscout_backend/platform/config"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RateLimitConfig
	config.MetricsConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP, rate limit and metrics settings).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (e.g., DB ping). Nil means always ready.
	Health HealthChecker
	// Metrics is the Prometheus registry. Nil disables /metrics.
	Metrics *metrics.Registry
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
