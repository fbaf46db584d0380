package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/questcoder/questcoder-backend/internal/gamification"
)

// ActivityLogEntry is one immutable row of a user's activity ledger.
// Append-only; the only writer besides the solve/unsolve routes is the
// run-once platform backfill.
type ActivityLogEntry struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_user_date" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type        string         `gorm:"column:type;not null;index" json:"type"`
	ProblemID   *uuid.UUID     `gorm:"type:uuid;index" json:"problem_id,omitempty"`
	PatternName string         `gorm:"column:pattern_name" json:"pattern_name,omitempty"`
	Date        time.Time      `gorm:"column:date;not null;index:idx_activity_user_date" json:"date"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ActivityLogEntry) TableName() string { return "activity_log_entry" }

// ToActivity converts the row to the evaluation view. Metadata that fails
// to decode is treated as absent, never as an error.
func (e *ActivityLogEntry) ToActivity() gamification.ActivityEntry {
	var meta map[string]string
	if len(e.Metadata) > 0 {
		_ = json.Unmarshal(e.Metadata, &meta)
	}
	return gamification.ActivityEntry{
		Type:        gamification.ActivityType(e.Type),
		ProblemID:   e.ProblemID,
		PatternName: e.PatternName,
		Date:        e.Date,
		Metadata:    meta,
	}
}

// ToActivities converts a ledger slice preserving insertion order.
func ToActivities(rows []*ActivityLogEntry) []gamification.ActivityEntry {
	out := make([]gamification.ActivityEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToActivity())
	}
	return out
}
