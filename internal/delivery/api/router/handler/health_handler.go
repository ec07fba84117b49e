package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "accounts/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 2 * time.Second

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checker ReadinessChecker
	logger  *slog.Logger
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(checker ReadinessChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports 503 while the database does not answer.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Warn("Readiness check failed", slog.Any("error", err))

		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
