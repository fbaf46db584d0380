package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/questcoder/questcoder-backend/internal/gamification"
)

func solveActivity(date time.Time, difficulty string) gamification.ActivityEntry {
	return gamification.ActivityEntry{
		Type:     gamification.ActivityProblemSolved,
		Date:     date,
		Metadata: map[string]string{"difficulty": difficulty},
	}
}

func TestSeedBadgeCatalogFromShippedFile(t *testing.T) {
	log := testLogger(t)
	badges := &fakeBadgeRepo{}
	if err := SeedBadgeCatalog(context.Background(), log, badges, filepath.Join("..", "..", "configs", "badges.yaml")); err != nil {
		t.Fatalf("SeedBadgeCatalog: %v", err)
	}
	if len(badges.rows) == 0 {
		t.Fatalf("no badges seeded")
	}

	var wellRounded *gamification.BadgeSpec
	for _, row := range badges.rows {
		if row.ID == "well_rounded" {
			spec := row.ToSpec()
			wellRounded = &spec
		}
	}
	if wellRounded == nil {
		t.Fatalf("well_rounded missing from seeded catalog")
	}
	if wellRounded.Criteria.Type != gamification.CriteriaProblemsSolved || !wellRounded.Criteria.RequireAllDifficulties {
		t.Fatalf("well_rounded criteria = %+v, want problems_solved with require_all_difficulties", wellRounded.Criteria)
	}

	now := time.Now().In(gamification.DayLocation)
	snap := &gamification.Snapshot{
		Entries: []gamification.ActivityEntry{
			solveActivity(now, gamification.DifficultyEasy),
			solveActivity(now, gamification.DifficultyMedium),
		},
		AsOf: now,
	}
	if gamification.Eligible(*wellRounded, snap) {
		t.Fatalf("well_rounded eligible without a Hard solve")
	}
	snap.Entries = append(snap.Entries, solveActivity(now, gamification.DifficultyHard))
	if !gamification.Eligible(*wellRounded, snap) {
		t.Fatalf("well_rounded not eligible with a solve at each difficulty")
	}
}

func TestSeedRejectsDifficultySolvedWithoutDifficulty(t *testing.T) {
	log := testLogger(t)
	path := filepath.Join(t.TempDir(), "badges.yaml")
	catalog := `badges:
  - id: broken_row
    name: Broken Row
    category: skill
    criteria:
      type: difficulty_solved
      value: 5
    xp_reward: 100
    rarity: common
    active: true
`
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if err := SeedBadgeCatalog(context.Background(), log, &fakeBadgeRepo{}, path); err == nil {
		t.Fatalf("difficulty_solved row without a difficulty seeded cleanly, want boot failure")
	}
}

func TestSeedRejectsMisplacedRequireAllDifficulties(t *testing.T) {
	log := testLogger(t)
	path := filepath.Join(t.TempDir(), "badges.yaml")
	catalog := `badges:
  - id: broken_row
    name: Broken Row
    category: skill
    criteria:
      type: difficulty_solved
      value: 5
      difficulty: Easy
      require_all_difficulties: true
    xp_reward: 100
    rarity: common
    active: true
`
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if err := SeedBadgeCatalog(context.Background(), log, &fakeBadgeRepo{}, path); err == nil {
		t.Fatalf("require_all_difficulties outside problems_solved seeded cleanly, want boot failure")
	}
}
