package middleware

import (
	"time"

	"retrack-app/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger tags every request with an X-Request-ID and logs it once the
// handler has finished.
func RequestLogger(ctx *fiber.Ctx) error {
	start := time.Now()

	requestID := ctx.Get(fiber.HeaderXRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Set(fiber.HeaderXRequestID, requestID)
	ctx.Locals("requestID", requestID)

	err := ctx.Next()

	status := ctx.Response().StatusCode()
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", ctx.Method()),
		zap.String("path", ctx.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch {
	case status >= 500:
		logger.L().Error("request", fields...)
	case status >= 400:
		logger.L().Warn("request", fields...)
	default:
		logger.L().Info("request", fields...)
	}
	return err
}
