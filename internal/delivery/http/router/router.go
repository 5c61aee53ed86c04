// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"chatter/internal/delivery/http/middleware"
	"chatter/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	PostHandler         *handler.PostHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	postHandler         *handler.PostHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		postHandler:         params.PostHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Handle)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account routes; confirmation and login are reachable without a token
	userGroup := e.Group("/user")
	{
		userGroup.POST("/", r.userHandler.Register)
		userGroup.POST("/confirm/:token", r.userHandler.Confirm)
		userGroup.POST("/login", r.userHandler.Login)
	}

	// Post routes; reads are public, writes require authentication
	postGroup := e.Group("/post")
	{
		postGroup.GET("/", r.postHandler.List)
		postGroup.GET("/:post_id", r.postHandler.Get)
		postGroup.GET("/:post_id/comment", r.postHandler.ListComments)

		postGroup.POST("/", r.postHandler.Create, r.authMiddleware.Authenticate)
		postGroup.POST("/comment", r.postHandler.CreateComment, r.authMiddleware.Authenticate)
		postGroup.POST("/like", r.postHandler.Like, r.authMiddleware.Authenticate)
	}
}
