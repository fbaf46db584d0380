package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questcoder/questcoder-backend/internal/requestdata"
	"github.com/questcoder/questcoder-backend/internal/services"
)

type GamificationHandler struct {
	gamificationService services.GamificationService
}

func NewGamificationHandler(gamificationService services.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

// GET /api/gamification/summary
func (gh *GamificationHandler) GetSummary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	summary, err := gh.gamificationService.GetSummary(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "summary_failed", err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

// GET /api/gamification/streak/calendar?days=30
func (gh *GamificationHandler) GetStreakCalendar(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	calendar, err := gh.gamificationService.GetStreakCalendar(c.Request.Context(), rd.UserID, days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "calendar_failed", err)
		return
	}
	RespondOK(c, gin.H{"calendar": calendar})
}

// GET /api/gamification/badges
func (gh *GamificationHandler) ListBadges(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	badges, err := gh.gamificationService.ListBadges(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "badges_failed", err)
		return
	}
	RespondOK(c, gin.H{"badges": badges})
}
