package company

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
	router.Get("/companies", h.ListCompanies)
	router.Post("/companies", h.AddCompany)
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching companies")

	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, companies)
}

func (h *Handler) AddCompany(w http.ResponseWriter, r *http.Request) {
	var input CompanyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request")
		return
	}

	h.logger.InfoContext(r.Context(), "creating company", "name", input.Name)
	created, err := h.service.AddCompany(r.Context(), input)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}
