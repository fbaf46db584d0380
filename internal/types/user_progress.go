package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/gamification"
)

// UserProgress aggregates a user's streak counters and last-solve marker.
// The activity ledger rows live in activity_log_entry; pattern completion
// state lives in pattern_progress. Version backs optimistic commits.
type UserProgress struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CurrentStreak int            `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak int            `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastSolvedAt  *time.Time     `gorm:"column:last_solved_at" json:"last_solved_at,omitempty"`
	Version       int            `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserProgress) TableName() string { return "user_progress" }

// PatternProgress tracks one user's completion state within one pattern.
// CompletedProblems holds the solved problem ids as a JSON array.
type PatternProgress struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_pattern,unique" json:"user_id"`
	User              *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PatternName       string         `gorm:"column:pattern_name;not null;index:idx_user_pattern,unique" json:"pattern_name"`
	TotalProblems     int            `gorm:"column:total_problems;not null;default:0" json:"total_problems"`
	CompletedProblems datatypes.JSON `gorm:"type:jsonb;column:completed_problems" json:"completed_problems,omitempty"`
	CompletedAt       *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (PatternProgress) TableName() string { return "pattern_progress" }

func (p *PatternProgress) CompletedIDs() []uuid.UUID {
	var out []uuid.UUID
	if len(p.CompletedProblems) > 0 {
		_ = json.Unmarshal(p.CompletedProblems, &out)
	}
	return out
}

func (p *PatternProgress) SetCompletedIDs(ids []uuid.UUID) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	p.CompletedProblems = raw
}

func (p *PatternProgress) State() gamification.PatternState {
	return gamification.PatternState{
		Total:     p.TotalProblems,
		Completed: len(p.CompletedIDs()),
	}
}

// PatternStates builds the snapshot view keyed by pattern name.
func PatternStates(rows []*PatternProgress) map[string]gamification.PatternState {
	out := make(map[string]gamification.PatternState, len(rows))
	for _, r := range rows {
		out[r.PatternName] = r.State()
	}
	return out
}
