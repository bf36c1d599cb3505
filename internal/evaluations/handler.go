package evaluations

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"bandcoach/pkg/handlers"
	"bandcoach/pkg/routes"
)

// Handler provides HTTP endpoints for evaluation history operations.
// Evaluations are written by the assessment flow; the HTTP surface is
// read and delete only.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "evaluations"),
	}
}

// Routes returns the route group definition for evaluation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/evaluations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/question/{questionId}", Handler: h.ForQuestion},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// Find returns a single evaluation by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// ForQuestion returns all evaluations recorded against a question, newest first.
func (h *Handler) ForQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := uuid.Parse(r.PathValue("questionId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	es, err := h.sys.ForQuestion(r.Context(), questionID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, es)
}

// Delete removes an evaluation by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
