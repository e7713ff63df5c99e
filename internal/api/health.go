package api

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the gRPC health service name reported next to the
// overall ("") status.
const HealthServiceName = "fleetcost.Calculator"

// HealthChecker serves the standard gRPC health protocol and keeps its
// status in line with a readiness probe.
type HealthChecker struct {
	server *grpc.Server
	health *health.Server
	ready  func(ctx context.Context) error
	logger zerolog.Logger
}

// NewHealthChecker creates a checker that reports NOT_SERVING until the
// first successful probe.
func NewHealthChecker(ready func(ctx context.Context) error, logger zerolog.Logger) *HealthChecker {
	hc := &HealthChecker{
		server: grpc.NewServer(),
		health: health.NewServer(),
		ready:  ready,
		logger: logger.With().Str("component", "grpc-health").Logger(),
	}
	hc.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(hc.server, hc.health)
	return hc
}

// Serve blocks serving on lis until Stop.
func (hc *HealthChecker) Serve(lis net.Listener) error {
	hc.logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC health server listening")
	return hc.server.Serve(lis)
}

// Stop marks the service as not serving and stops the gRPC server gracefully.
func (hc *HealthChecker) Stop() {
	hc.health.Shutdown()
	hc.server.GracefulStop()
}

// Probe runs the readiness check once and updates the reported status.
func (hc *HealthChecker) Probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := hc.ready(probeCtx); err != nil {
		hc.logger.Warn().Err(err).Msg("readiness probe failed")
		hc.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	hc.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Run probes every interval until ctx is done.
func (hc *HealthChecker) Run(ctx context.Context, interval time.Duration) error {
	hc.Probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			hc.Probe(ctx)
		}
	}
}

func (hc *HealthChecker) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	hc.health.SetServingStatus("", status)
	hc.health.SetServingStatus(HealthServiceName, status)
}
