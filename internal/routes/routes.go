package routes

import (
	"github.com/gin-gonic/gin"

	"presencebot/internal/config"
	"presencebot/internal/handlers"
	"presencebot/internal/middleware"
)

func SetupRoutes(r *gin.Engine, cfg config.APIConfig, presenceHandler *handlers.PresenceHandler) *gin.Engine {
	// ---- public
	r.GET("/healthz", presenceHandler.Healthz)

	// ---- key-guarded
	api := r.Group("/api", middleware.APIKeyGuard(cfg.Key, cfg.PublicRead))
	{
		api.GET("/presence", presenceHandler.GetPresence)
	}

	return r
}
