package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/questcoder/questcoder-backend/internal/handlers"
	"github.com/questcoder/questcoder-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName         string
	AllowOrigins        []string
	AuthMiddleware      *middleware.AuthMiddleware
	AuthHandler         *handlers.AuthHandler
	ProgressHandler     *handlers.ProgressHandler
	GamificationHandler *handlers.GamificationHandler
	LeaderboardHandler  *handlers.LeaderboardHandler
	CatalogHandler      *handlers.CatalogHandler
	NotificationHandler *handlers.NotificationHandler
	SSEHandler          *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// Catalog
	protected.GET("/patterns", cfg.CatalogHandler.ListPatterns)
	protected.GET("/patterns/:name/problems", cfg.CatalogHandler.ListPatternProblems)

	// Problems
	protected.POST("/problems/:id/solve", cfg.ProgressHandler.MarkSolved)
	protected.POST("/problems/:id/unsolve", cfg.ProgressHandler.MarkUnsolved)
	protected.GET("/progress/patterns", cfg.ProgressHandler.GetPatternProgress)

	// Gamification
	protected.GET("/gamification/summary", cfg.GamificationHandler.GetSummary)
	protected.GET("/gamification/streak/calendar", cfg.GamificationHandler.GetStreakCalendar)
	protected.GET("/gamification/badges", cfg.GamificationHandler.ListBadges)

	// Leaderboard
	protected.GET("/leaderboard", cfg.LeaderboardHandler.GetLeaderboard)
	protected.GET("/leaderboard/rank", cfg.LeaderboardHandler.GetRank)

	// Notifications
	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.POST("/notifications/read", cfg.NotificationHandler.MarkRead)
	protected.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)

	return router
}
