// Package health поднимает gRPC-сервер со стандартным сервисом проверки
// здоровья grpc.health.v1.Health.
package health

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Service — имя сервиса в ответах Check.
const Service = "gymhub"

// Server — gRPC-сервер проверки здоровья.
type Server struct {
	grpc   *grpc.Server
	health *grpchealth.Server
	log    *slog.Logger
}

// New создаёт сервер. До вызова SetServing статус NOT_SERVING.
func New(log *slog.Logger) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: grpchealth.NewServer(),
		log:    log,
	}
	grpc_health_v1.RegisterHealthServer(s.grpc, s.health)
	s.SetServing(false)
	return s
}

// SetServing переключает статус всего сервера и сервиса gymhub.
func (s *Server) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(Service, status)
}

// Serve обслуживает lis до вызова Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("gRPC health server starting", slog.String("address", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil {
		return fmt.Errorf("health.Serve: %w", err)
	}
	return nil
}

// ListenAndServe слушает addr по TCP.
func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("health.ListenAndServe: %w", err)
	}
	return s.Serve(lis)
}

// Stop переводит статус в NOT_SERVING и останавливает сервер.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
