package api

import (
	"net/http"

	"bandcoach/internal/config"
	"bandcoach/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Assess.Handler().Routes(),
		domain.Questions.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Evaluations.Handler().Routes(),
	)
}
