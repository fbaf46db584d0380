package gamification

import (
	"time"
)

type CriteriaType string

const (
	CriteriaProblemsSolved    CriteriaType = "problems_solved"
	CriteriaStreakDays        CriteriaType = "streak_days"
	CriteriaPatternsCompleted CriteriaType = "patterns_completed"
	CriteriaDifficultySolved  CriteriaType = "difficulty_solved"
	CriteriaDailyProblems     CriteriaType = "daily_problems"
	CriteriaLevelReached      CriteriaType = "level_reached"
	CriteriaXPEarned          CriteriaType = "xp_earned"
)

type Criteria struct {
	Type  CriteriaType `json:"type" yaml:"type"`
	Value int          `json:"value" yaml:"value"`

	// additionalData per criteria type.
	Difficulty             string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	RequireAllDifficulties bool   `json:"require_all_difficulties,omitempty" yaml:"require_all_difficulties,omitempty"`
}

// BadgeSpec is one catalog entry. Identifier is the immutable award key;
// only Active toggles after seeding.
type BadgeSpec struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category string   `json:"category" yaml:"category"`
	Criteria Criteria `json:"criteria" yaml:"criteria"`
	XPReward int      `json:"xp_reward" yaml:"xp_reward"`
	Rarity   string   `json:"rarity" yaml:"rarity"`
	Active   bool     `json:"active" yaml:"active"`
}

// PatternState tracks per-pattern completion: Completed of Total problems.
type PatternState struct {
	Total     int
	Completed int
}

func (p PatternState) Done() bool { return p.Total > 0 && p.Completed >= p.Total }

// Snapshot is the point-in-time view a badge predicate evaluates against.
// Evaluation never mutates it.
type Snapshot struct {
	Entries       []ActivityEntry
	Patterns      map[string]PatternState
	CurrentStreak int
	CurrentLevel  int
	TotalXP       int
	AsOf          time.Time
	Location      *time.Location
}

func (s *Snapshot) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return DayLocation
}

func (s *Snapshot) solvedCount() int {
	n := 0
	for _, e := range s.Entries {
		if e.Valid() && e.Type == ActivityProblemSolved {
			n++
		}
	}
	return n
}

func (s *Snapshot) solvedByDifficulty(difficulty string) int {
	n := 0
	for _, e := range s.Entries {
		if e.Valid() && e.Type == ActivityProblemSolved && e.Difficulty() == difficulty {
			n++
		}
	}
	return n
}

func (s *Snapshot) solvedToday() int {
	today := truncateToDay(s.AsOf, s.loc())
	n := 0
	for _, e := range s.Entries {
		if !e.Valid() || e.Type != ActivityProblemSolved {
			continue
		}
		if truncateToDay(e.Date, s.loc()).Equal(today) {
			n++
		}
	}
	return n
}

func (s *Snapshot) patternsCompleted() int {
	n := 0
	for _, p := range s.Patterns {
		if p.Done() {
			n++
		}
	}
	return n
}

// Eligible evaluates a single badge predicate against the snapshot. Pure:
// no side effects, idempotent on an unchanged snapshot. Unknown criteria
// types evaluate false rather than erroring so a bad catalog row cannot
// fail the pass.
func Eligible(b BadgeSpec, s *Snapshot) bool {
	if !b.Active {
		return false
	}
	switch b.Criteria.Type {
	case CriteriaProblemsSolved:
		if b.Criteria.RequireAllDifficulties {
			return s.solvedByDifficulty(DifficultyEasy) > 0 &&
				s.solvedByDifficulty(DifficultyMedium) > 0 &&
				s.solvedByDifficulty(DifficultyHard) > 0
		}
		return s.solvedCount() >= b.Criteria.Value
	case CriteriaStreakDays:
		return s.CurrentStreak >= b.Criteria.Value
	case CriteriaPatternsCompleted:
		return s.patternsCompleted() >= b.Criteria.Value
	case CriteriaDifficultySolved:
		if b.Criteria.Difficulty == "" {
			return false
		}
		return s.solvedByDifficulty(b.Criteria.Difficulty) >= b.Criteria.Value
	case CriteriaDailyProblems:
		return s.solvedToday() >= b.Criteria.Value
	case CriteriaLevelReached:
		return s.CurrentLevel >= b.Criteria.Value
	case CriteriaXPEarned:
		return s.TotalXP >= b.Criteria.Value
	}
	return false
}

// FindNewlyEarned returns badges eligible now and not already earned, in
// catalog order. A badge in earned is never re-evaluated.
func FindNewlyEarned(catalog []BadgeSpec, earned map[string]bool, s *Snapshot) []BadgeSpec {
	var out []BadgeSpec
	for _, b := range catalog {
		if earned[b.ID] {
			continue
		}
		if Eligible(b, s) {
			out = append(out, b)
		}
	}
	return out
}

// AwardLoop runs the award fixpoint: badge XP rewards feed back into the
// snapshot's total XP and level, which can make xp_earned / level_reached
// badges eligible in turn. Iterations are capped at the catalog size so a
// misconfigured catalog still terminates. Returns the badges awarded this
// pass, in catalog order, plus the XP they contributed.
func AwardLoop(catalog []BadgeSpec, earned map[string]bool, s *Snapshot) (awarded []BadgeSpec, rewardXP int) {
	seen := make(map[string]bool, len(earned))
	for id := range earned {
		seen[id] = true
	}
	for i := 0; i < len(catalog); i++ {
		batch := FindNewlyEarned(catalog, seen, s)
		if len(batch) == 0 {
			break
		}
		for _, b := range batch {
			seen[b.ID] = true
			awarded = append(awarded, b)
			rewardXP += b.XPReward
			s.TotalXP += b.XPReward
		}
		s.CurrentLevel = LevelForXP(s.TotalXP)
	}
	return awarded, rewardXP
}
