package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Problem struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Slug       string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Difficulty string         `gorm:"column:difficulty;not null;index" json:"difficulty"`
	Platform   string         `gorm:"column:platform;not null;index" json:"platform"`
	Link       string         `gorm:"column:link" json:"link,omitempty"`
	PatternID  *uuid.UUID     `gorm:"type:uuid;index" json:"pattern_id,omitempty"`
	Pattern    *Pattern       `gorm:"constraint:OnDelete:SET NULL;foreignKey:PatternID;references:ID" json:"pattern,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Problem) TableName() string { return "problem" }

type Pattern struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	Problems    []Problem      `gorm:"foreignKey:PatternID;references:ID" json:"problems,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Pattern) TableName() string { return "pattern" }
