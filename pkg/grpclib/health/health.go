package health

import (
	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server
type Server struct {
	server *healthgrpc.Server
}

// NewServer creates health server using default grpc health server.
func NewServer() *Server {
	return &Server{
		server: healthgrpc.NewServer(),
	}
}

// InitService marks serviceName as SERVING.
func (h *Server) InitService(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// SetServing flips serviceName between SERVING and NOT_SERVING,
// e.g. when a dependency probe fails.
func (h *Server) SetServing(serviceName string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus(serviceName, status)
}

// Shutdown sets all serving status to NOT_SERVING.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Register registers health server.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}
