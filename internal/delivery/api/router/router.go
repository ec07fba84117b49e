// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"accounts/internal/delivery/api/middleware"
	"accounts/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	HealthHandler  *handler.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	healthHandler  *handler.HealthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		healthHandler:  params.HealthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Health)
	e.GET("/ready", r.healthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Bearer tokens are checked on every account route but none requires one.
	userGroup := e.Group("/user", r.authMiddleware.Authenticate)
	{
		userGroup.POST("/create", r.accountHandler.CreateAccount)
		userGroup.GET("/all", r.accountHandler.ListAccounts)
		userGroup.POST("/login", r.accountHandler.Login)
		userGroup.GET("/:id", r.accountHandler.GetAccount)
		userGroup.PUT("/:id", r.accountHandler.UpdateAccount)
		userGroup.DELETE("/:id", r.accountHandler.DeleteAccount)
	}
}
