package gamification

// Outcome captures every delta from a single orchestration pass. It is
// transient: built in memory, handed to the notifier, then discarded.
type Outcome struct {
	XPGained      int         `json:"xp_gained"`
	TotalXP       int         `json:"total_xp"`
	PreviousLevel int         `json:"previous_level"`
	NewLevel      int         `json:"new_level"`
	LeveledUp     bool        `json:"leveled_up"`
	NewBadges     []BadgeSpec `json:"newly_earned_badges,omitempty"`
	Streak        StreakState `json:"streak"`

	// PatternCompleted names the pattern this action finished, if any.
	PatternCompleted string `json:"pattern_completed,omitempty"`
}

type StreakState struct {
	Current  int  `json:"current"`
	Longest  int  `json:"longest"`
	Extended bool `json:"extended"`
	Broken   bool `json:"broken"`
}
