package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/questcoder/questcoder-backend/internal/gamification"
)

// Badge is one catalog row, seeded at boot. Immutable after seeding except
// for IsActive.
type Badge struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Category      string         `gorm:"column:category;not null;index" json:"category"`
	CriteriaType  string         `gorm:"column:criteria_type;not null" json:"criteria_type"`
	CriteriaValue int            `gorm:"column:criteria_value;not null;default:0" json:"criteria_value"`
	CriteriaData  datatypes.JSON `gorm:"type:jsonb;column:criteria_data" json:"criteria_data,omitempty"`
	XPReward      int            `gorm:"column:xp_reward;not null;default:0" json:"xp_reward"`
	Rarity        string         `gorm:"column:rarity;not null" json:"rarity"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	SortOrder     int            `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Badge) TableName() string { return "badge" }

type badgeCriteriaData struct {
	Difficulty             string `json:"difficulty,omitempty"`
	RequireAllDifficulties bool   `json:"require_all_difficulties,omitempty"`
}

// ToSpec converts the catalog row to the rule engine's view. Unparseable
// criteria data degrades to an empty additionalData, which the engine
// treats as never-eligible for criteria that require it.
func (b *Badge) ToSpec() gamification.BadgeSpec {
	var data badgeCriteriaData
	if len(b.CriteriaData) > 0 {
		_ = json.Unmarshal(b.CriteriaData, &data)
	}
	return gamification.BadgeSpec{
		ID:       b.ID,
		Name:     b.Name,
		Category: b.Category,
		Criteria: gamification.Criteria{
			Type:                   gamification.CriteriaType(b.CriteriaType),
			Value:                  b.CriteriaValue,
			Difficulty:             data.Difficulty,
			RequireAllDifficulties: data.RequireAllDifficulties,
		},
		XPReward: b.XPReward,
		Rarity:   b.Rarity,
		Active:   b.IsActive,
	}
}

// ToSpecs converts catalog rows preserving catalog order.
func ToSpecs(rows []*Badge) []gamification.BadgeSpec {
	out := make([]gamification.BadgeSpec, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToSpec())
	}
	return out
}
