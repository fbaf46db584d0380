package gamification

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityProblemSolved    ActivityType = "problem_solved"
	ActivityProblemUnsolved  ActivityType = "problem_unsolved"
	ActivityPatternCompleted ActivityType = "pattern_completed"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// ActivityEntry is the in-memory view of one ledger row. Metadata carries
// difficulty and platform for solve entries; absent keys make the entry
// ineligible for criteria that key on them, never an error.
type ActivityEntry struct {
	Type        ActivityType
	ProblemID   *uuid.UUID
	PatternName string
	Date        time.Time
	Metadata    map[string]string
}

func (e ActivityEntry) Difficulty() string { return e.Metadata["difficulty"] }
func (e ActivityEntry) Platform() string   { return e.Metadata["platform"] }

// Valid reports whether the entry carries enough to participate in rule
// evaluation. Malformed entries are skipped, not fatal.
func (e ActivityEntry) Valid() bool {
	switch e.Type {
	case ActivityProblemSolved, ActivityProblemUnsolved, ActivityPatternCompleted:
	default:
		return false
	}
	return !e.Date.IsZero()
}

// CountMalformed returns how many entries would be skipped during
// evaluation, so callers can log a warning per pass instead of per row.
func CountMalformed(entries []ActivityEntry) int {
	n := 0
	for _, e := range entries {
		if !e.Valid() {
			n++
		}
	}
	return n
}
