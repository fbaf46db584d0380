package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questcoder/questcoder-backend/internal/requestdata"
	"github.com/questcoder/questcoder-backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GET /api/leaderboard?limit=50
func (lh *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := lh.leaderboardService.TopByXP(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "leaderboard_failed", err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}

// GET /api/leaderboard/rank
func (lh *LeaderboardHandler) GetRank(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	rank, err := lh.leaderboardService.RankFor(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "rank_failed", err)
		return
	}
	RespondOK(c, gin.H{"rank": rank})
}
