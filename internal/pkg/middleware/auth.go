package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	jwtpkg "github.com/jetfront/jetfront/internal/pkg/jwt"
	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/utils"
)

// BearerAuthMiddleware creates a middleware that authenticates requests with
// a signed bearer credential. When no signing key is configured the gate runs
// in disabled mode and admits every request; this is a development opt-in and
// is logged at startup.
func BearerAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	if config.Key == "" {
		logger.Warn("JWT key not configured, authentication gate is DISABLED")
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.ValidateToken(parts[1], config)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			c.Set("token_subject", claims.Subject)

			return next(c)
		}
	}
}
