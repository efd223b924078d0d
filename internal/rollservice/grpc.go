package rollservice

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// UnaryLogger returns an interceptor that logs every call with its method,
// status code and duration. Failures are logged at warn level.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			logger.Warn("rpc failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("rpc served", fields...)
		}
		return resp, err
	}
}

// GRPCServer bundles a grpc.Server carrying RollService with its health
// service.
type GRPCServer struct {
	*grpc.Server
	health *health.Server
}

// NewGRPCServer creates a grpc.Server with RollService and the standard
// health service registered. Both report SERVING.
//
// Precondition: svc and logger must be non-nil.
func NewGRPCServer(svc RollServiceServer, logger *zap.Logger) *GRPCServer {
	gs := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger(logger)))
	RegisterRollServiceServer(gs, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &GRPCServer{Server: gs, health: hs}
}

// Shutdown marks the health service NOT_SERVING and drains in-flight calls.
func (g *GRPCServer) Shutdown() {
	g.health.Shutdown()
	g.GracefulStop()
}

// Listener runs a GRPCServer on a TCP address. It satisfies server.Service.
type Listener struct {
	addr   string
	server *GRPCServer
	logger *zap.Logger
}

// NewListener creates a Listener for addr.
//
// Precondition: addr is a "host:port" address; gs and logger are non-nil.
func NewListener(addr string, gs *GRPCServer, logger *zap.Logger) *Listener {
	return &Listener{addr: addr, server: gs, logger: logger}
}

// Start listens on the configured address and serves until Stop.
func (l *Listener) Start() error {
	lis, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", l.addr, err)
	}
	l.logger.Info("gRPC server listening",
		zap.String("addr", lis.Addr().String()),
	)
	return l.server.Serve(lis)
}

// Stop gracefully stops the server.
func (l *Listener) Stop() {
	l.server.Shutdown()
}
