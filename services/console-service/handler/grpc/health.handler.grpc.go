package grpcServer

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name the console registers its health under.
const Service = "pharmatrace.console"

// Pinger is anything the console depends on that can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer reports SERVING only while every dependency answers.
type HealthServer struct {
	*health.Server
	deps     map[string]Pinger
	interval time.Duration
	log      *zap.Logger
}

func NewHealthServer(deps map[string]Pinger, interval time.Duration, log *zap.Logger) *HealthServer {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	hs := &HealthServer{Server: health.NewServer(), deps: deps, interval: interval, log: log}
	hs.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

// Register attaches the health service to s.
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.Server)
}

// Probe pings every dependency once and updates the serving status.
func (h *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	for name, dep := range h.deps {
		pctx, cancel := context.WithTimeout(ctx, h.interval/2)
		err := dep.Ping(pctx)
		cancel()
		if err != nil {
			h.log.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.SetServingStatus(Service, st)
	h.SetServingStatus("", st)
	return st
}

// Run probes on every tick until ctx ends, then marks everything down.
func (h *HealthServer) Run(ctx context.Context) {
	h.Probe(ctx)
	t := time.NewTicker(h.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			h.Shutdown()
			return
		case <-t.C:
			h.Probe(ctx)
		}
	}
}
