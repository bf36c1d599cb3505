package api

import (
	"bandcoach/internal/config"
	"bandcoach/internal/infrastructure"
	"bandcoach/internal/pipeline"
	"bandcoach/internal/rubrics"
	"bandcoach/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// evaluation pipeline runtime.
type Runtime struct {
	*infrastructure.Infrastructure
	Pipeline   *pipeline.Runtime
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger. The rubric
// registry is loaded once here; a malformed embedded rubric fails assembly.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	registry, err := rubrics.Load()
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pipeline: &pipeline.Runtime{
			Generator: pipeline.NewAgentGenerator(cfg.AgentConfig()),
			Rubrics:   registry,
			Retry:     cfg.Pipeline.RetryPolicy(),
			Logger:    logger,
		},
		Pagination: cfg.API.Pagination,
	}, nil
}
