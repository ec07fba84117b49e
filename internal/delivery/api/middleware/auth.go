package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware recognises bearer tokens. It never requires one: requests without a bearer
// token pass through anonymously, requests with an invalid one are rejected.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate validates a presented bearer token and stores its claims on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, service.BearerScheme) {
			return next(c)
		}

		claims, err := m.tokenSvc.ValidateToken(authHeader)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected bearer token", slog.String("path", c.Request().URL.Path), slog.Any("error", err))

			return errors.WithStack(err)
		}

		deliverycontext.SetClaims(c, claims)

		return next(c)
	}
}

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(c echo.Context) (*service.Claims, bool) {
	return deliverycontext.GetClaims(c)
}
