package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/realtime"
	"github.com/questcoder/questcoder-backend/internal/requestdata"
)

// SSEHandler owns the stream endpoint plus channel management. Clients are
// tracked by the id handed out on connect; subscribe/unsubscribe address
// that id from regular POST requests while the stream stays open.
type SSEHandler struct {
	log     *logger.Logger
	hub     *realtime.SSEHub
	mu      sync.RWMutex
	clients map[uuid.UUID]*realtime.SSEClient
}

func NewSSEHandler(baseLog *logger.Logger, hub *realtime.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     baseLog.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[uuid.UUID]*realtime.SSEClient),
	}
}

// GET /api/sse/stream
func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	client := sh.hub.NewSSEClient(rd.UserID)

	// Every connection gets the user's own channel; everything else is
	// opt-in via subscribe.
	sh.hub.AddChannel(client, realtime.UserChannel(rd.UserID))

	sh.mu.Lock()
	sh.clients[client.ID] = client
	sh.mu.Unlock()
	defer func() {
		sh.mu.Lock()
		delete(sh.clients, client.ID)
		sh.mu.Unlock()
		sh.hub.CloseClient(client)
	}()

	// Tell the frontend its client id first so it can manage
	// subscriptions for this stream.
	client.Outbound <- realtime.SSEMessage{
		Channel: realtime.UserChannel(rd.UserID),
		Event:   "connected",
		Data:    map[string]any{"client_id": client.ID},
	}

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}

// POST /api/sse/subscribe
func (sh *SSEHandler) Subscribe(c *gin.Context) {
	sh.updateSubscription(c, true)
}

// POST /api/sse/unsubscribe
func (sh *SSEHandler) Unsubscribe(c *gin.Context) {
	sh.updateSubscription(c, false)
}

func (sh *SSEHandler) updateSubscription(c *gin.Context, subscribe bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	var req struct {
		ClientID uuid.UUID `json:"client_id"`
		Channel  string    `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := validateChannel(req.Channel, rd.UserID); err != nil {
		RespondError(c, http.StatusForbidden, "channel_forbidden", err)
		return
	}

	sh.mu.RLock()
	client, ok := sh.clients[req.ClientID]
	sh.mu.RUnlock()
	if !ok || client.UserID != rd.UserID {
		RespondError(c, http.StatusNotFound, "unknown_client", fmt.Errorf("no open stream for client"))
		return
	}

	if subscribe {
		sh.hub.AddChannel(client, req.Channel)
	} else {
		sh.hub.RemoveChannel(client, req.Channel)
	}
	RespondOK(c, gin.H{"channel": req.Channel, "subscribed": subscribe})
}

// validateChannel keeps users out of other users' private channels. Shared
// channels (pattern, leaderboard, group, challenge) are open to any
// authenticated client.
func validateChannel(channel string, userID uuid.UUID) error {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return fmt.Errorf("channel required")
	}
	if strings.HasPrefix(channel, "user_") {
		if channel != realtime.UserChannel(userID) {
			return fmt.Errorf("cannot subscribe to another user's channel")
		}
		return nil
	}
	for _, prefix := range []string{"pattern_", "leaderboard_", "group_", "challenge_"} {
		if strings.HasPrefix(channel, prefix) {
			return nil
		}
	}
	return fmt.Errorf("unknown channel kind")
}
