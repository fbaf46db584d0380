package realtime

import (
	"fmt"

	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventXPGained        SSEEvent = "xp_gained"
	SSEEventLevelUp         SSEEvent = "level_up"
	SSEEventBadgeUnlocked   SSEEvent = "badge_unlocked"
	SSEEventStreakUpdate    SSEEvent = "streak_update"
	SSEEventStreakMilestone SSEEvent = "streak_milestone"
	SSEEventPatternDone     SSEEvent = "pattern_completed"
	SSEEventLeaderboard     SSEEvent = "leaderboard_update"
	SSEEventRankUpdate      SSEEvent = "rank_update"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// Channel keys. Every event is addressed to one of these.
func UserChannel(userID uuid.UUID) string       { return fmt.Sprintf("user_%s", userID) }
func PatternChannel(patternID uuid.UUID) string { return fmt.Sprintf("pattern_%s", patternID) }
func LeaderboardChannel(kind string) string     { return fmt.Sprintf("leaderboard_%s", kind) }
func GroupChannel(groupID uuid.UUID) string     { return fmt.Sprintf("group_%s", groupID) }
func ChallengeChannel(id uuid.UUID) string      { return fmt.Sprintf("challenge_%s", id) }
