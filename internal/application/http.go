package application

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
	router.Get("/applications", h.ListApplications)
	router.Post("/applications", h.SubmitApplication)
}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching applications")

	applications, err := h.service.ListApplications(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, applications)
}

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "submitting application",
		"email", req.Student.Email, "project_id", req.Application.ProjectID)
	submitted, err := h.service.SubmitApplication(r.Context(), req.Student, req.Application)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, submitted)
}
