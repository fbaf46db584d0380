package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/questcoder/questcoder-backend/internal/gamification"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type badgeSeedFile struct {
	Badges []gamification.BadgeSpec `yaml:"badges"`
}

// SeedBadgeCatalog loads the YAML badge catalog and upserts it into the
// database. Runs once at boot; existing rows keep their criteria.
func SeedBadgeCatalog(ctx context.Context, baseLog *logger.Logger, badgeRepo repos.BadgeRepo, path string) error {
	log := baseLog.With("service", "BadgeSeed")
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read badge catalog %s: %w", path, err)
	}
	var file badgeSeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse badge catalog %s: %w", path, err)
	}
	if len(file.Badges) == 0 {
		return fmt.Errorf("badge catalog %s is empty", path)
	}

	rows := make([]*types.Badge, 0, len(file.Badges))
	for i, spec := range file.Badges {
		if spec.ID == "" {
			return fmt.Errorf("badge catalog entry %d has no id", i)
		}
		// A row the engine can never satisfy fails boot instead of
		// sitting dead in the catalog.
		if spec.Criteria.Type == gamification.CriteriaDifficultySolved && spec.Criteria.Difficulty == "" {
			return fmt.Errorf("badge %s: difficulty_solved criteria needs a difficulty", spec.ID)
		}
		if spec.Criteria.RequireAllDifficulties && spec.Criteria.Type != gamification.CriteriaProblemsSolved {
			return fmt.Errorf("badge %s: require_all_difficulties only applies to problems_solved", spec.ID)
		}
		row, err := badgeRowFromSpec(spec, i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := badgeRepo.Seed(ctx, nil, rows); err != nil {
		return fmt.Errorf("seed badge catalog: %w", err)
	}
	log.Info("badge catalog seeded", "path", path, "badges", len(rows))
	return nil
}

func badgeRowFromSpec(spec gamification.BadgeSpec, sortOrder int) (*types.Badge, error) {
	row := &types.Badge{
		ID:            spec.ID,
		Name:          spec.Name,
		Category:      spec.Category,
		CriteriaType:  string(spec.Criteria.Type),
		CriteriaValue: spec.Criteria.Value,
		XPReward:      spec.XPReward,
		Rarity:        spec.Rarity,
		IsActive:      spec.Active,
		SortOrder:     sortOrder,
	}
	if spec.Criteria.Difficulty != "" || spec.Criteria.RequireAllDifficulties {
		data, err := json.Marshal(map[string]interface{}{
			"difficulty":               spec.Criteria.Difficulty,
			"require_all_difficulties": spec.Criteria.RequireAllDifficulties,
		})
		if err != nil {
			return nil, fmt.Errorf("encode criteria data for badge %s: %w", spec.ID, err)
		}
		row.CriteriaData = data
	}
	return row, nil
}
