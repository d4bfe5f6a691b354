// Package energylabel provides the energy label bounded context module.
// This file defines the module that encapsulates all energy label setup.
package energylabel

import (
	"propscout_backend/internal/energylabel/client"
	"propscout_backend/internal/energylabel/handler"
	"propscout_backend/internal/energylabel/service"
	"propscout_backend/internal/energylabel/transport"
	apphttp "propscout_backend/internal/http"
	"propscout_backend/platform/cache"
	"propscout_backend/platform/config"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"
	"propscout_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "energylabel"

// Module is the energy label bounded context module.
type Module struct {
	service *service.Service
	cache   *cache.Cache[[]transport.EnergyLabel]
	handler *handler.Handler
}

// NewModule creates and initializes the energy label module. Without an API
// key the module stays mounted but answers 503 (graceful degradation).
// remote may be nil to cache in-process only.
func NewModule(cfg config.EnergyLabelConfig, remote redis.UniversalClient, m *metrics.Registry, val *validator.Validator, log *logger.Logger) *Module {
	if !cfg.IsEnergyLabelEnabled() {
		log.Info("energy label module disabled: EP_ONLINE_API_KEY not configured")
		return &Module{handler: handler.New(nil, val)}
	}

	apiClient := client.New(cfg.GetEPOnlineBaseURL(), cfg.GetEPOnlineAPIKey(), func(name, from, to string) {
		log.Warn("circuit breaker state change", "breaker", name, "from", from, "to", to)
		m.SetBreakerState(name, to)
	}, log)
	m.SetBreakerState("ep-online", apiClient.BreakerState())

	labelCache := cache.New[[]transport.EnergyLabel](cachePrefix, remote, log)
	svc := service.New(apiClient, labelCache, cfg.GetEnergyLabelCacheTTL(), m, log)

	log.Info("energy label module initialized", "base_url", cfg.GetEPOnlineBaseURL(), "shared_cache", remote != nil)

	return &Module{
		service: svc,
		cache:   labelCache,
		handler: handler.New(svc, val),
	}
}

// Service returns the energy label service for external use.
// Returns nil if the module is disabled.
func (m *Module) Service() *service.Service {
	if m == nil {
		return nil
	}
	return m.service
}

// IsEnabled returns true if the energy label module is configured and enabled.
func (m *Module) IsEnabled() bool {
	return m != nil && m.service != nil
}

// Close releases the in-process cache.
func (m *Module) Close() {
	if m != nil && m.cache != nil {
		m.cache.Close()
	}
}

func (m *Module) Name() string {
	return "energylabel"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/energy-labels"))
}

var (
	_ apphttp.Module     = (*Module)(nil)
	_ EnergyLabelService = (*service.Service)(nil)
)
