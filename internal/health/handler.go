package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"project-launchpad/internal/httputil"
	"project-launchpad/internal/metrics"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 2 * time.Second

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	metrics *metrics.HealthMetrics
}

func NewHandler(logger *slog.Logger, m *metrics.HealthMetrics, checks map[string]Checker) *Handler {
	return &Handler{
		checks:  checks,
		logger:  logger,
		metrics: m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	failed := h.Check(r.Context())
	if len(failed) > 0 {
		h.logger.WarnContext(r.Context(), "readiness check failed", "checks", failed)
		httputil.RespondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Checks: failed})
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}

// Check runs every checker and returns the failures by name.
func (h *Handler) Check(ctx context.Context) map[string]string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := make(map[string]string)
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		start := time.Now()
		err := h.checks[name](checkCtx)
		cancel()

		h.metrics.RecordDependencyCheck(ctx, name, time.Since(start), err)
		if err != nil {
			failed[name] = err.Error()
		}
	}
	return failed
}
