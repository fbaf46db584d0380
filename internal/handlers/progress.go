package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/requestdata"
	"github.com/questcoder/questcoder-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// POST /api/problems/:id/solve
func (ph *ProgressHandler) MarkSolved(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	problemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_problem_id", err)
		return
	}
	outcome, err := ph.progressService.MarkSolved(c.Request.Context(), rd.UserID, problemID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadySolved) {
			RespondError(c, http.StatusConflict, "already_solved", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "solve_failed", err)
		return
	}
	RespondOK(c, gin.H{"outcome": outcome})
}

// POST /api/problems/:id/unsolve
func (ph *ProgressHandler) MarkUnsolved(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	problemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_problem_id", err)
		return
	}
	outcome, err := ph.progressService.MarkUnsolved(c.Request.Context(), rd.UserID, problemID)
	if err != nil {
		if errors.Is(err, services.ErrNotSolved) {
			RespondError(c, http.StatusConflict, "not_solved", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "unsolve_failed", err)
		return
	}
	RespondOK(c, gin.H{"outcome": outcome})
}

// GET /api/progress/patterns
func (ph *ProgressHandler) GetPatternProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	rows, err := ph.progressService.GetPatternProgress(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "pattern_progress_failed", err)
		return
	}
	RespondOK(c, gin.H{"patterns": rows})
}
