package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/logger"
)

// RequestLoggerMiddleware logs one structured entry per request with method,
// path, status, latency and a request id. The id is taken from the incoming
// X-Request-ID header when present, otherwise generated.
func RequestLoggerMiddleware(zapLogger *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Set("request_id", requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			zapLogger.Info("request completed",
				logger.String("request_id", requestID),
				logger.String("method", c.Request().Method),
				logger.String("path", c.Request().URL.Path),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency", time.Since(start)),
				logger.String("client_ip", c.RealIP()),
			)

			return err
		}
	}
}
