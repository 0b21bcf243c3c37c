package interceptors

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"rove/pkg/logger"
	"rove/pkg/ratelimit"
)

// ServerConfig настройки серверной цепочки интерсепторов
type ServerConfig struct {
	ServiceName  string
	RateLimiter  ratelimit.Limiter
	KeyExtractor ratelimit.KeyExtractor
}

// UnaryServerInterceptors собирает цепочку unary интерсепторов:
// recovery -> logging -> metrics -> ratelimit
func UnaryServerInterceptors(cfg *ServerConfig) grpc.UnaryServerInterceptor {
	chain := []grpc.UnaryServerInterceptor{
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(recoverToStatus)),
		LoggingInterceptor(),
		MetricsInterceptor(),
	}

	if cfg.RateLimiter != nil {
		chain = append(chain, RateLimitInterceptor(cfg.RateLimiter, cfg.KeyExtractor))
	}

	return chainUnaryInterceptors(chain...)
}

// StreamServerInterceptors собирает цепочку stream интерсепторов
func StreamServerInterceptors(cfg *ServerConfig) grpc.StreamServerInterceptor {
	return chainStreamInterceptors(
		recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(recoverToStatus)),
		StreamLoggingInterceptor(),
	)
}

func recoverToStatus(p any) error {
	logger.Log.Error("Recovered from panic in handler", "panic", p)
	return status.Errorf(codes.Internal, "internal error")
}
