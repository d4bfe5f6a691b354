// Package analysis provides the property analysis bounded context module.
package analysis

import (
	"fmt"

	"propscout_backend/internal/analysis/handler"
	"propscout_backend/internal/analysis/ports"
	"propscout_backend/internal/analysis/repository"
	"propscout_backend/internal/analysis/service"
	"propscout_backend/internal/analysis/transport"
	apphttp "propscout_backend/internal/http"
	"propscout_backend/platform/config"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"
	"propscout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analysis bounded context module.
type Module struct {
	service *service.Service
	handler *handler.Handler
}

// Deps are the optional collaborators of the module. Nil fields disable the
// matching feature.
type Deps struct {
	Pool        *pgxpool.Pool
	EnergyLabel ports.EnergyLabelProvider
	Metrics     *metrics.Registry
}

// NewModule creates and initializes the analysis module.
func NewModule(cfg config.AnalysisConfig, deps Deps, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterValidations(val); err != nil {
		return nil, fmt.Errorf("register analysis validations: %w", err)
	}

	opts := []service.Option{
		service.WithConcurrency(cfg.GetBatchConcurrency()),
		service.WithMetrics(deps.Metrics),
	}
	if deps.Pool != nil {
		opts = append(opts, service.WithRepository(repository.New(deps.Pool)))
	} else {
		log.Info("analysis storage disabled: DATABASE_URL not configured")
	}
	if deps.EnergyLabel != nil {
		opts = append(opts, service.WithEnergyLabels(deps.EnergyLabel))
	}

	svc := service.New(val, log, opts...)

	return &Module{
		service: svc,
		handler: handler.New(svc),
	}, nil
}

// Service returns the analysis service, e.g. for the CLI.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) Name() string {
	return "analysis"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/analysis")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
