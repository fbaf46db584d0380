package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/requestdata"
	"github.com/questcoder/questcoder-backend/internal/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /api/notifications?unread=true&limit=50
func (nh *NotificationHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := nh.notificationService.List(c.Request.Context(), rd.UserID, unreadOnly, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "notifications_failed", err)
		return
	}
	RespondOK(c, gin.H{"notifications": rows})
}

// POST /api/notifications/read
func (nh *NotificationHandler) MarkRead(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := nh.notificationService.MarkRead(c.Request.Context(), rd.UserID, req.IDs); err != nil {
		RespondError(c, http.StatusInternalServerError, "mark_read_failed", err)
		return
	}
	RespondOK(c, gin.H{"marked": len(req.IDs)})
}

// POST /api/notifications/read-all
func (nh *NotificationHandler) MarkAllRead(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if err := nh.notificationService.MarkAllRead(c.Request.Context(), rd.UserID); err != nil {
		RespondError(c, http.StatusInternalServerError, "mark_all_read_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "all read"})
}
