package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/gamification"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/realtime"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

// emitTimeout bounds every best-effort emission so a slow channel degrades
// to a dropped notification, not a stalled request.
const emitTimeout = 2 * time.Second

// GamificationNotifier is the fan-out layer: it turns one outcome into
// channel-addressed events, in the order the celebration UI depends on.
// Dispatch is fire-and-forget; a delivery failure is logged and never
// rolls anything back.
type GamificationNotifier interface {
	DispatchOutcome(ctx context.Context, userID uuid.UUID, outcome *gamification.Outcome)

	XPGained(userID uuid.UUID, xpGained, totalXP int)
	LevelUp(userID uuid.UUID, newLevel, totalXP int)
	BadgeUnlocked(userID uuid.UUID, badge gamification.BadgeSpec)
	StreakUpdate(userID uuid.UUID, streak gamification.StreakState)
	StreakMilestone(userID uuid.UUID, length int)
	PatternCompleted(userID uuid.UUID, patternID uuid.UUID, patternName string)
	LeaderboardUpdate(kind string, entries any)
	RankUpdate(userID uuid.UUID, rank int)
}

type gamificationNotifier struct {
	log              *logger.Logger
	emit             SSEEmitter
	notificationRepo repos.NotificationRepo
}

func NewGamificationNotifier(baseLog *logger.Logger, emit SSEEmitter, notificationRepo repos.NotificationRepo) GamificationNotifier {
	return &gamificationNotifier{
		log:              baseLog.With("service", "GamificationNotifier"),
		emit:             emit,
		notificationRepo: notificationRepo,
	}
}

// DispatchOutcome emits the outcome's events in the contract order:
// xp_gained, level_up, one badge_unlocked per badge, streak_update, then
// streak_milestone when an extension landed on a milestone length.
func (n *gamificationNotifier) DispatchOutcome(ctx context.Context, userID uuid.UUID, outcome *gamification.Outcome) {
	if n == nil || outcome == nil || userID == uuid.Nil {
		return
	}
	n.XPGained(userID, outcome.XPGained, outcome.TotalXP)
	if outcome.LeveledUp {
		n.LevelUp(userID, outcome.NewLevel, outcome.TotalXP)
	}
	for _, badge := range outcome.NewBadges {
		n.BadgeUnlocked(userID, badge)
	}
	n.StreakUpdate(userID, outcome.Streak)
	if outcome.Streak.Extended && gamification.IsMilestone(outcome.Streak.Current) {
		n.StreakMilestone(userID, outcome.Streak.Current)
	}
}

func (n *gamificationNotifier) send(msg realtime.SSEMessage) {
	if n == nil || n.emit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
	defer cancel()
	n.emit.Emit(ctx, msg)
}

// persist stores a notification row for events the user should see even
// when no live connection was open. Failures are logged, never surfaced.
func (n *gamificationNotifier) persist(userID uuid.UUID, kind, title, message string, data any) {
	if n == nil || n.notificationRepo == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		raw = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
	defer cancel()
	_, err = n.notificationRepo.Create(ctx, nil, []*types.Notification{{
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    raw,
	}})
	if err != nil {
		n.log.Warn("failed to persist notification", "user_id", userID, "type", kind, "error", err)
	}
}

func (n *gamificationNotifier) XPGained(userID uuid.UUID, xpGained, totalXP int) {
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventXPGained,
		Data: map[string]any{
			"xp_gained": xpGained,
			"total_xp":  totalXP,
		},
	})
}

func (n *gamificationNotifier) LevelUp(userID uuid.UUID, newLevel, totalXP int) {
	data := map[string]any{
		"new_level": newLevel,
		"total_xp":  totalXP,
	}
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventLevelUp,
		Data:    data,
	})
	n.persist(userID, "level_up", "Level up!",
		fmt.Sprintf("You reached level %d", newLevel), data)
}

func (n *gamificationNotifier) BadgeUnlocked(userID uuid.UUID, badge gamification.BadgeSpec) {
	data := map[string]any{"badge": badge}
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventBadgeUnlocked,
		Data:    data,
	})
	n.persist(userID, "badge_unlocked", "Badge unlocked!",
		fmt.Sprintf("You earned the %s badge", badge.Name), data)
}

func (n *gamificationNotifier) StreakUpdate(userID uuid.UUID, streak gamification.StreakState) {
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventStreakUpdate,
		Data:    map[string]any{"streak": streak},
	})
}

func (n *gamificationNotifier) StreakMilestone(userID uuid.UUID, length int) {
	data := map[string]any{
		"length":  length,
		"message": fmt.Sprintf("%d-day streak! Keep it going!", length),
	}
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventStreakMilestone,
		Data:    data,
	})
	n.persist(userID, "streak_milestone", "Streak milestone!",
		fmt.Sprintf("You hit a %d-day streak", length), data)
}

// PatternCompleted goes to the user and to the pattern's channel so
// pattern-scoped widgets refresh.
func (n *gamificationNotifier) PatternCompleted(userID uuid.UUID, patternID uuid.UUID, patternName string) {
	data := map[string]any{
		"user_id":      userID,
		"pattern_id":   patternID,
		"pattern_name": patternName,
	}
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventPatternDone,
		Data:    data,
	})
	if patternID != uuid.Nil {
		n.send(realtime.SSEMessage{
			Channel: realtime.PatternChannel(patternID),
			Event:   realtime.SSEEventPatternDone,
			Data:    data,
		})
	}
	n.persist(userID, "pattern_completed", "Pattern completed!",
		fmt.Sprintf("You completed the %s pattern", patternName), data)
}

func (n *gamificationNotifier) LeaderboardUpdate(kind string, entries any) {
	n.send(realtime.SSEMessage{
		Channel: realtime.LeaderboardChannel(kind),
		Event:   realtime.SSEEventLeaderboard,
		Data:    map[string]any{"kind": kind, "entries": entries},
	})
}

func (n *gamificationNotifier) RankUpdate(userID uuid.UUID, rank int) {
	n.send(realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventRankUpdate,
		Data:    map[string]any{"rank": rank},
	})
}
