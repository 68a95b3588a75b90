package internal

import (
	"net"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const healthInterval = 10 * time.Second

func NewHealthHandler(readiness map[string]healthcheck.Check) healthcheck.Handler {
	handler := healthcheck.NewHandler()
	handler.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	for name, check := range readiness {
		handler.AddReadinessCheck(name, check)
	}
	return handler
}

// ServingStatus is SERVING only when every readiness check passes.
func ServingStatus(readiness map[string]healthcheck.Check) grpc_health_v1.HealthCheckResponse_ServingStatus {
	for name, check := range readiness {
		if err := check(); err != nil {
			zap.S().Warnw("Readiness check failed", "check", name, "error", err)
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

type HealthServer struct {
	server *grpc.Server
	health *health.Server
	addr   net.Addr
	done   chan struct{}
}

// StartHealthServer serves the gRPC health protocol on addr and refreshes
// its status from the readiness checks.
func StartHealthServer(addr string, readiness map[string]healthcheck.Check) (*HealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	hs := &HealthServer{
		server: grpc.NewServer(),
		health: health.NewServer(),
		addr:   lis.Addr(),
		done:   make(chan struct{}),
	}
	grpc_health_v1.RegisterHealthServer(hs.server, hs.health)
	hs.health.SetServingStatus("", ServingStatus(readiness))

	go func() {
		if err := hs.server.Serve(lis); err != nil {
			zap.S().Errorf("gRPC health server stopped: %v", err)
		}
	}()
	go hs.watch(readiness)

	zap.S().Infof("gRPC health server listening at %v", lis.Addr())
	return hs, nil
}

func (hs *HealthServer) watch(readiness map[string]healthcheck.Check) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hs.health.SetServingStatus("", ServingStatus(readiness))
		case <-hs.done:
			return
		}
	}
}

func (hs *HealthServer) Addr() string {
	return hs.addr.String()
}

func (hs *HealthServer) Stop() {
	close(hs.done)
	hs.health.Shutdown()
	hs.server.GracefulStop()
}
