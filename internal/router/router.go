package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agentdemo/internal/config"
	"agentdemo/internal/handler"
	"agentdemo/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware. Bearer
// auth is attached only when a JWT secret is configured.
func Setup(cfg *config.Config, uploadH *handler.UploadHandler, log *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))

	r.GET("/healthz", uploadH.Health)

	v1 := r.Group("/api/v1")
	if cfg.Auth.JWTSecret != "" {
		v1.Use(middleware.BearerAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	}
	v1.POST("/uploads", uploadH.Upload)

	return r
}
