package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor logs every RPC with its procedure, principal, duration
// and, on failure, the Connect code and message.
func LoggingInterceptor(logger *slog.Logger) connect.Interceptor {
	return &loggingInterceptor{logger: logger}
}

type loggingInterceptor struct {
	logger *slog.Logger
}

func (i *loggingInterceptor) log(ctx context.Context, procedure string, start time.Time, err error) {
	principal := GetPrincipal(ctx) // empty if pre-auth
	duration := time.Since(start).Milliseconds()

	if err == nil {
		i.logger.InfoContext(ctx, "RPC ok",
			"procedure", procedure,
			"principal", principal,
			"duration_ms", duration,
		)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal {
		i.logger.WarnContext(ctx, "RPC error",
			"procedure", procedure,
			"code", connectErr.Code(),
			"error", connectErr.Message(),
			"principal", principal,
			"duration_ms", duration,
		)
		return
	}
	i.logger.ErrorContext(ctx, "RPC error",
		"procedure", procedure,
		"error", err,
		"principal", principal,
		"duration_ms", duration,
	)
}

func (i *loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		i.log(ctx, req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (i *loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		err := next(ctx, conn)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		i.log(ctx, conn.Spec().Procedure, start, err)
		return err
	}
}
