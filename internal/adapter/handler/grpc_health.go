package handler

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealth serves the standard gRPC health service on a second listener,
// for deployment probes that speak gRPC rather than HTTP.
type GRPCHealth struct {
	server *grpc.Server
	health *health.Server
}

func NewGRPCHealth() *GRPCHealth {
	g := &GRPCHealth{
		server: grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(g.server, g.health)
	g.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return g
}

func (g *GRPCHealth) Serve(lis net.Listener) error {
	return g.server.Serve(lis)
}

// Shutdown flips the status to NOT_SERVING and drains in-flight RPCs.
func (g *GRPCHealth) Shutdown() {
	g.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	g.server.GracefulStop()
}
