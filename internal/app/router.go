package app

import (
	"github.com/gin-gonic/gin"

	"github.com/questcoder/questcoder-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:         "questcoder-backend",
		AllowOrigins:        cfg.AllowOrigins,
		AuthMiddleware:      middlewareset.Auth,
		AuthHandler:         handlerset.Auth,
		ProgressHandler:     handlerset.Progress,
		GamificationHandler: handlerset.Gamification,
		LeaderboardHandler:  handlerset.Leaderboard,
		CatalogHandler:      handlerset.Catalog,
		NotificationHandler: handlerset.Notification,
		SSEHandler:          handlerset.SSE,
	})
}
