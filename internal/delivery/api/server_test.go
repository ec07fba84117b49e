package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"accounts/config"
	apimiddleware "accounts/internal/delivery/api/middleware"
	"accounts/internal/delivery/api/response"
	"accounts/internal/delivery/api/router"
	"accounts/internal/delivery/api/router/handler"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/service"
	"accounts/internal/errors"
	mockSvc "accounts/internal/mocks/service"
	mockUsecase "accounts/internal/mocks/usecase"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	if f == nil {
		return nil
	}

	return f(ctx)
}

type serverFixtures struct {
	echo         *echo.Echo
	uc           *mockUsecase.MockAccountUsecase
	tokenService *mockSvc.MockTokenService
	auth         *apimiddleware.AuthMiddleware
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"

	return cfg
}

func newServerFixtures(t *testing.T) serverFixtures {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := mockUsecase.NewMockAccountUsecase(t)
	tokenService := mockSvc.NewMockTokenService(t)
	auth := apimiddleware.NewAuthMiddleware(tokenService, logger)

	e := NewEcho(newTestConfig(), logger, router.RouterParams{
		AccountHandler: handler.NewAccountHandler(uc),
		HealthHandler:  handler.NewHealthHandler(pingFunc(nil), logger),
		AuthMiddleware: auth,
	})

	return serverFixtures{echo: e, uc: uc, tokenService: tokenService, auth: auth}
}

func (fx serverFixtures) do(t *testing.T, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	var env response.Envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func TestServer_AuthStateMachine(t *testing.T) {
	t.Run("no header is anonymous", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.uc.EXPECT().ListAccounts(mock.Anything).Return([]*usecase.AccountOutput{}, nil)

		rec, env := fx.do(t, http.MethodGet, "/user/all", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "200", env.Code)
	})

	t.Run("other scheme is anonymous", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.uc.EXPECT().ListAccounts(mock.Anything).Return([]*usecase.AccountOutput{}, nil)

		_, env := fx.do(t, http.MethodGet, "/user/all", "", map[string]string{echo.HeaderAuthorization: "Basic dGVzdDp0ZXN0"})

		assert.Equal(t, "200", env.Code)
		fx.tokenService.AssertNotCalled(t, "ValidateToken", mock.Anything)
	})

	t.Run("invalid bearer is rejected", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.tokenService.EXPECT().ValidateToken("Bearer forged").
			Return(nil, errors.Wrap(domainerrors.ErrTokenInvalid, "signature is invalid"))

		rec, env := fx.do(t, http.MethodGet, "/user/all", "", map[string]string{echo.HeaderAuthorization: "Bearer forged"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "401", env.Code)
		assert.Equal(t, response.StatusError, env.Status)
		assert.Equal(t, "Unauthorized: invalid token", env.Msg)
		fx.uc.AssertNotCalled(t, "ListAccounts", mock.Anything)
	})

	t.Run("valid bearer stores claims", func(t *testing.T) {
		fx := newServerFixtures(t)
		claims := &service.Claims{UserID: 1, Role: "USER"}
		fx.tokenService.EXPECT().ValidateToken("Bearer good").Return(claims, nil)

		var seen *service.Claims
		fx.echo.GET("/probe", func(c echo.Context) error {
			seen, _ = apimiddleware.ClaimsFromContext(c)

			return response.Success(c, "ok", nil)
		}, fx.auth.Authenticate)

		_, env := fx.do(t, http.MethodGet, "/probe", "", map[string]string{echo.HeaderAuthorization: "Bearer good"})

		assert.Equal(t, "200", env.Code)
		assert.Same(t, claims, seen)
	})
}

func TestServer_ErrorEnvelopes(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.uc.EXPECT().GetAccount(mock.Anything, 9).Return(nil, domainerrors.ErrAccountNotFound.WrapMessage("account not found"))

		rec, env := fx.do(t, http.MethodGet, "/user/9", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, response.Envelope{Code: "404", Status: "error", Msg: "User not found"}, env)
	})

	t.Run("delete failure reports false", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.uc.EXPECT().DeleteAccount(mock.Anything, 9).Return(errors.Join(domainerrors.ErrAccountDeleteFailed, errors.New("connection reset")))

		_, env := fx.do(t, http.MethodDelete, "/user/9", "", nil)

		assert.Equal(t, response.Envelope{Code: "500", Status: "error", Msg: "Error deleting user", Data: false}, env)
	})

	t.Run("validation failure shows details", func(t *testing.T) {
		fx := newServerFixtures(t)

		_, env := fx.do(t, http.MethodPost, "/user/create", `{"username":"test"}`, nil)

		assert.Equal(t, "400", env.Code)
		assert.Equal(t, "Invalid request body: password is required; email is required; role is required", env.Msg)
	})

	t.Run("unknown route", func(t *testing.T) {
		fx := newServerFixtures(t)

		rec, env := fx.do(t, http.MethodGet, "/nowhere", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "404", env.Code)
	})

	t.Run("unhandled error hides cause", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.uc.EXPECT().ListAccounts(mock.Anything).Return(nil, errors.New("pq: password authentication failed"))

		_, env := fx.do(t, http.MethodGet, "/user/all", "", nil)

		assert.Equal(t, "500", env.Code)
		assert.Equal(t, "Internal server error", env.Msg)
	})

	t.Run("panic becomes 500", func(t *testing.T) {
		fx := newServerFixtures(t)
		fx.uc.EXPECT().ListAccounts(mock.Anything).RunAndReturn(func(context.Context) ([]*usecase.AccountOutput, error) {
			panic("boom")
		})

		rec, env := fx.do(t, http.MethodGet, "/user/all", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "500", env.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		fx := newServerFixtures(t)
		body := `{"username":"` + strings.Repeat("a", 2048) + `"}`

		_, env := fx.do(t, http.MethodPost, "/user/create", body, nil)

		assert.Equal(t, "413", env.Code)
	})
}

func TestServer_OperationalEndpoints(t *testing.T) {
	fx := newServerFixtures(t)

	rec, _ := fx.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec, _ = fx.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = fx.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts_http_requests_total")
}
