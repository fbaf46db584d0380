package app

import (
	"github.com/questcoder/questcoder-backend/internal/handlers"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/realtime"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Progress     *handlers.ProgressHandler
	Gamification *handlers.GamificationHandler
	Leaderboard  *handlers.LeaderboardHandler
	Catalog      *handlers.CatalogHandler
	Notification *handlers.NotificationHandler
	SSE          *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:         handlers.NewAuthHandler(serviceset.Auth),
		Progress:     handlers.NewProgressHandler(serviceset.Progress),
		Gamification: handlers.NewGamificationHandler(serviceset.Gamification),
		Leaderboard:  handlers.NewLeaderboardHandler(serviceset.Leaderboard),
		Catalog:      handlers.NewCatalogHandler(serviceset.Catalog),
		Notification: handlers.NewNotificationHandler(serviceset.Notification),
		SSE:          handlers.NewSSEHandler(log, hub),
	}
}
