package health

import (
	"context"
	"time"

	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Report sets the overall serving status of server from one round of checks.
func (h *Handler) Report(ctx context.Context, server *grpchealth.Server) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if failed := h.Check(ctx); len(failed) > 0 {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		h.logger.WarnContext(ctx, "dependency unavailable", "checks", failed)
	}
	server.SetServingStatus("", status)
}

// Watch reports every interval until ctx is done.
func (h *Handler) Watch(ctx context.Context, server *grpchealth.Server, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Report(ctx, server)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Report(ctx, server)
		}
	}
}
