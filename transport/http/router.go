package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/gamelan/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(handlers *Handlers, authService *service.AuthService, logger *slog.Logger, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger), CORS())

	router.GET("/", handlers.Index)
	router.GET("/healthz", handlers.Health)

	api := router.Group("/api")
	{
		api.GET("/session", handlers.Session)
		api.GET("/metadata", handlers.Metadata)
		api.POST("/text-to-speech", RequireSession(authService), handlers.Synthesize)
	}

	// Alias kept for clients using the provider-neutral route name
	router.POST("/tts/synthesize", RequireSession(authService), handlers.Synthesize)

	return router
}
