package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stylish/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDMetadataKey mirrors the X-Request-ID HTTP header.
const requestIDMetadataKey = "x-request-id"

// requestIDInterceptor puts the caller's request id, or a fresh one, into
// the context used for logging.
func (s *GRPCServer) requestIDInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(requestIDMetadataKey); len(values) > 0 {
			id = values[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	return handler(logging.WithRequestID(ctx, id), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	if err != nil {
		s.logger.Warn(ctx, "rpc failed", "method", info.FullMethod, "code", code.String(), "latency", time.Since(start), "error", err)
		return resp, err
	}

	s.logger.Debug(ctx, "rpc completed", "method", info.FullMethod, "code", code.String(), "latency", time.Since(start))
	return resp, nil
}
