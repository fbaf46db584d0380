package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserGamification holds the XP/level counters. CurrentLevel is always the
// recomputation of TotalXP through the level curve; it is never written
// independently. Version backs optimistic commits.
type UserGamification struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TotalXP      int            `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	CurrentLevel int            `gorm:"column:current_level;not null;default:1" json:"current_level"`
	Version      int            `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserGamification) TableName() string { return "user_gamification" }

// EarnedBadge records one badge award. Append-only, unique per user+badge.
type EarnedBadge struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_user_badge,unique" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	BadgeID  string    `gorm:"column:badge_id;not null;index:idx_user_badge,unique" json:"badge_id"`
	EarnedAt time.Time `gorm:"column:earned_at;not null;default:now()" json:"earned_at"`
}

func (EarnedBadge) TableName() string { return "earned_badge" }
