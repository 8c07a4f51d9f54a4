package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/http/handler"
	httpmiddleware "github.com/taskhive/taskhive/internal/http/middleware"
	"github.com/taskhive/taskhive/internal/middleware"
)

// NewRouter wires Gin routes and middleware. Registration, login, refresh,
// and the public reads bypass the session gate; everything else sits behind
// it.
func NewRouter(cfg config.Config, logger *zap.Logger, authHandler *handler.AuthHandler, categoryHandler *handler.CategoryHandler, todoHandler *handler.TodoHandler, session *httpmiddleware.Session, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/refresh", authHandler.Refresh)

		api.GET("/categories", categoryHandler.List)
		api.GET("/category/:id", categoryHandler.Get)
		api.POST("/category", session.Require, categoryHandler.Create)
		api.PUT("/category/:id", session.Require, categoryHandler.Update)
		api.DELETE("/category/:id", session.Require, categoryHandler.Delete)

		api.GET("/todos", todoHandler.List)
		api.GET("/todouser", session.Require, todoHandler.ListByUser)
		api.GET("/todocategory", session.Require, todoHandler.ListByCategory)
		api.POST("/todo", session.Require, todoHandler.Create)
		api.PUT("/todo/:id", session.Require, todoHandler.Update)
		api.DELETE("/todo/:id", session.Require, todoHandler.Delete)
	}

	return r
}
