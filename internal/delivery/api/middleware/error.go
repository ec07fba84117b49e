package middleware

import (
	"log/slog"
	"net/http"

	"accounts/internal/delivery/api/response"
	deliverycontext "accounts/internal/delivery/context"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware turns handler errors into failure envelopes.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	data := response.DataOf(err)
	log := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		code := appErr.HTTPCode()
		if code >= http.StatusInternalServerError {
			log.Error("Request failed",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
				slog.String("method", c.Request().Method),
			)
		}

		_ = response.Failure(c, code, clientMessage(appErr), data)

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Failure(c, httpErr.Code, message, data)

		return
	}

	log.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.Failure(c, http.StatusInternalServerError, domainerrors.ErrInternalError.Message(), data)
}

// clientMessage appends details to client errors. Server and auth failures never expose them.
func clientMessage(appErr domainerrors.AppError) string {
	code := appErr.HTTPCode()
	if appErr.Details() == "" || code >= http.StatusInternalServerError ||
		code == http.StatusUnauthorized || code == http.StatusForbidden {
		return appErr.Message()
	}

	return appErr.Message() + ": " + appErr.Details()
}
