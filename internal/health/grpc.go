package health

import (
	"context"

	"github.com/appetiteclub/apt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer exposes the standard grpc.health.v1 service for the comandas
// surfaces. Every service reports SERVING between Start and Stop.
type GRPCServer struct {
	server   *health.Server
	services []string
	logger   apt.Logger
}

func NewGRPCServer(logger apt.Logger, services ...string) *GRPCServer {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	s := &GRPCServer{
		server:   health.NewServer(),
		services: services,
		logger:   logger,
	}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// RegisterGRPCService registers the health service with the gRPC server.
func (s *GRPCServer) RegisterGRPCService(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, s.server)
}

func (s *GRPCServer) Start(ctx context.Context) error {
	s.set(healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("gRPC health serving", "services", len(s.services))
	return nil
}

// Stop flips every service to NOT_SERVING and ignores later updates.
func (s *GRPCServer) Stop(ctx context.Context) error {
	s.server.Shutdown()
	return nil
}

// Check reports the status of service without going through the network.
func (s *GRPCServer) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.server.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func (s *GRPCServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.server.SetServingStatus("", status)
	for _, name := range s.services {
		s.server.SetServingStatus(name, status)
	}
}
