package project

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"project-launchpad/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/projects", h.ListProjects)
	router.Post("/projects", h.AddProject)
}

// ListProjects serves GET /projects. ?open=true restricts to open projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("open") == "true"

	h.logger.InfoContext(r.Context(), "fetching projects", "open_only", openOnly)
	projects, err := h.service.ListProjects(r.Context(), openOnly)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, projects)
}

func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	var input ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating project", "title", input.Title, "company_id", input.CompanyID)
	created, err := h.service.AddProject(r.Context(), input)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}
