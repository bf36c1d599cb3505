package api

import (
	"bandcoach/internal/assess"
	"bandcoach/internal/config"
	"bandcoach/internal/evaluations"
	"bandcoach/internal/questions"
	"bandcoach/internal/vision"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Assess      assess.System
	Questions   questions.System
	Evaluations evaluations.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	questionsSystem := questions.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	evaluationsSystem := evaluations.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	visionSystem := vision.New(cfg.VisionConfig(), runtime.Logger)

	assessSystem := assess.New(
		runtime.Pipeline,
		visionSystem,
		questionsSystem,
		evaluationsSystem,
		runtime.Logger,
	)

	return &Domain{
		Assess:      assessSystem,
		Questions:   questionsSystem,
		Evaluations: evaluationsSystem,
	}
}
