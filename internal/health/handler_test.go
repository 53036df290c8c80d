package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"project-launchpad/internal/health"
	"project-launchpad/internal/logger"
	"project-launchpad/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func ok(context.Context) error { return nil }

func down(context.Context) error { return errors.New("connection refused") }

func serve(t *testing.T, h *health.Handler, path string) (int, health.HealthResponse) {
	t.Helper()
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp health.HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w.Code, resp
}

func TestHandler(t *testing.T) {
	t.Run("HealthIgnoresDependencies", func(t *testing.T) {
		h := health.NewHandler(logger.Discard(), metrics.NewMock().Health, map[string]health.Checker{"database": down})

		code, resp := serve(t, h, "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("ReadyWhenAllChecksPass", func(t *testing.T) {
		h := health.NewHandler(logger.Discard(), metrics.NewMock().Health, map[string]health.Checker{"database": ok, "cache": ok})

		code, resp := serve(t, h, "/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", resp.Status)
	})

	t.Run("NotReadyListsFailures", func(t *testing.T) {
		h := health.NewHandler(logger.Discard(), metrics.NewMock().Health, map[string]health.Checker{"database": down, "cache": ok})

		code, resp := serve(t, h, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, map[string]string{"database": "connection refused"}, resp.Checks)
	})
}

func TestReport(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		check  health.Checker
		status grpc_health_v1.HealthCheckResponse_ServingStatus
	}{
		{"Serving", ok, grpc_health_v1.HealthCheckResponse_SERVING},
		{"NotServing", down, grpc_health_v1.HealthCheckResponse_NOT_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := grpchealth.NewServer()
			h := health.NewHandler(logger.Discard(), metrics.NewMock().Health, map[string]health.Checker{"database": tt.check})

			h.Report(ctx, server)

			resp, err := server.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}
