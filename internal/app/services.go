package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/realtime"
	"github.com/questcoder/questcoder-backend/internal/realtime/bus"
	"github.com/questcoder/questcoder-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Gamification services.GamificationService
	Progress     services.ProgressService
	Leaderboard  services.LeaderboardService
	Catalog      services.CatalogService
	Notification services.NotificationService
	Notifier     services.GamificationNotifier
	Bus          bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter
	var msgBus bus.Bus
	if cfg.RedisEnabled {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			return Services{}, fmt.Errorf("init redis bus: %w", err)
		}
		msgBus = b
		emitter = &services.RedisEmitter{Bus: b}
	} else {
		emitter = &services.HubEmitter{Hub: hub}
	}

	notifier := services.NewGamificationNotifier(log, emitter, reposet.Notification)

	gamification := services.NewGamificationService(
		db, log,
		reposet.ActivityLog,
		reposet.UserProgress,
		reposet.PatternProgress,
		reposet.UserGamification,
		reposet.Badge,
	)
	leaderboard := services.NewLeaderboardService(log, reposet.UserGamification, notifier)
	progress := services.NewProgressService(
		log,
		reposet.Problem,
		reposet.ActivityLog,
		reposet.PatternProgress,
		gamification,
		leaderboard,
		notifier,
	)
	auth := services.NewAuthService(
		db, log,
		reposet.User,
		reposet.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	catalog := services.NewCatalogService(log, reposet.Pattern, reposet.Problem)
	notification := services.NewNotificationService(log, reposet.Notification)

	return Services{
		Auth:         auth,
		Gamification: gamification,
		Progress:     progress,
		Leaderboard:  leaderboard,
		Catalog:      catalog,
		Notification: notification,
		Notifier:     notifier,
		Bus:          msgBus,
	}, nil
}
