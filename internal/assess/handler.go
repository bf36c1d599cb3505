package assess

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bandcoach/pkg/handlers"
	"bandcoach/pkg/routes"
)

// Handler provides the HTTP endpoint for essay assessment.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "assess"),
	}
}

// Routes returns the route group definition for assessment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/assess",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Assess},
		},
	}
}

// Assess accepts a JSON submission and returns the evaluation result.
// Pipeline-level failures still return 200 with the error report in the
// body; only validation and infrastructure failures map to error statuses.
func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	result, err := h.sys.Assess(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
