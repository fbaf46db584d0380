package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/gamification"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

type fakeActivityRepo struct {
	rows []*types.ActivityLogEntry
}

func (f *fakeActivityRepo) Append(ctx context.Context, tx *gorm.DB, row *types.ActivityLogEntry) (*types.ActivityLogEntry, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeActivityRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivityLogEntry, error) {
	var out []*types.ActivityLogEntry
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.ActivityLogEntry, error) {
	var out []*types.ActivityLogEntry
	for _, r := range f.rows {
		if r.UserID == userID && !r.Date.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) IsSolved(ctx context.Context, tx *gorm.DB, userID, problemID uuid.UUID) (bool, error) {
	solved := false
	for _, r := range f.rows {
		if r.UserID != userID || r.ProblemID == nil || *r.ProblemID != problemID {
			continue
		}
		switch r.Type {
		case string(gamification.ActivityProblemSolved):
			solved = true
		case string(gamification.ActivityProblemUnsolved):
			solved = false
		}
	}
	return solved, nil
}

func (f *fakeActivityRepo) GetMissingPlatform(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ActivityLogEntry, error) {
	return nil, nil
}

func (f *fakeActivityRepo) SetMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, metadata datatypes.JSON) error {
	return nil
}

type fakeProgressRepo struct {
	row           *types.UserProgress
	conflictsLeft int
	commits       int
}

func (f *fakeProgressRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error) {
	if f.row == nil {
		f.row = &types.UserProgress{ID: uuid.New(), UserID: userID}
	}
	cp := *f.row
	return &cp, nil
}

func (f *fakeProgressRepo) CommitVersioned(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repos.ErrVersionConflict
	}
	f.commits++
	row.Version++
	cp := *row
	f.row = &cp
	return nil
}

type fakePatternRepo struct {
	rows []*types.PatternProgress
}

func (f *fakePatternRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PatternProgress, error) {
	var out []*types.PatternProgress
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePatternRepo) GetByUserAndPattern(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patternName string) (*types.PatternProgress, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.PatternName == patternName {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakePatternRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.PatternProgress) error {
	for i, r := range f.rows {
		if r.UserID == row.UserID && r.PatternName == row.PatternName {
			f.rows[i] = row
			return nil
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeGamRepo struct {
	row           *types.UserGamification
	earned        map[string]bool
	conflictsLeft int
	commits       int
}

func (f *fakeGamRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserGamification, error) {
	if f.row == nil {
		f.row = &types.UserGamification{ID: uuid.New(), UserID: userID, CurrentLevel: 1}
	}
	cp := *f.row
	return &cp, nil
}

func (f *fakeGamRepo) CommitVersioned(ctx context.Context, tx *gorm.DB, row *types.UserGamification) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repos.ErrVersionConflict
	}
	f.commits++
	row.Version++
	cp := *row
	f.row = &cp
	return nil
}

func (f *fakeGamRepo) GetEarnedBadgeIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error) {
	out := make(map[string]bool, len(f.earned))
	for id := range f.earned {
		out[id] = true
	}
	return out, nil
}

func (f *fakeGamRepo) AppendEarned(ctx context.Context, tx *gorm.DB, rows []*types.EarnedBadge) error {
	if f.earned == nil {
		f.earned = map[string]bool{}
	}
	for _, r := range rows {
		f.earned[r.BadgeID] = true
	}
	return nil
}

func (f *fakeGamRepo) TopByXP(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserGamification, error) {
	if f.row == nil {
		return nil, nil
	}
	return []*types.UserGamification{f.row}, nil
}

func (f *fakeGamRepo) RankByXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	return 1, nil
}

type fakeBadgeRepo struct {
	rows []*types.Badge
}

func (f *fakeBadgeRepo) ListCatalog(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error) {
	return f.rows, nil
}

func (f *fakeBadgeRepo) Seed(ctx context.Context, tx *gorm.DB, rows []*types.Badge) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeBadgeRepo) SetActive(ctx context.Context, tx *gorm.DB, badgeID string, active bool) error {
	for _, r := range f.rows {
		if r.ID == badgeID {
			r.IsActive = active
		}
	}
	return nil
}

type orchestratorFixture struct {
	svc      GamificationService
	activity *fakeActivityRepo
	progress *fakeProgressRepo
	patterns *fakePatternRepo
	gam      *fakeGamRepo
	badges   *fakeBadgeRepo
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	f := &orchestratorFixture{
		activity: &fakeActivityRepo{},
		progress: &fakeProgressRepo{},
		patterns: &fakePatternRepo{},
		gam:      &fakeGamRepo{},
		badges:   &fakeBadgeRepo{},
	}
	f.svc = NewGamificationService(testDB(t), testLogger(t), f.activity, f.progress, f.patterns, f.gam, f.badges)
	return f
}

func badgeRow(id string, criteriaType string, value, xp int) *types.Badge {
	return &types.Badge{
		ID:            id,
		Name:          id,
		Category:      "test",
		CriteriaType:  criteriaType,
		CriteriaValue: value,
		XPReward:      xp,
		Rarity:        "common",
		IsActive:      true,
	}
}

func solveEntry(userID uuid.UUID, date time.Time, difficulty string) *types.ActivityLogEntry {
	pid := uuid.New()
	return &types.ActivityLogEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      string(gamification.ActivityProblemSolved),
		ProblemID: &pid,
		Date:      date,
		Metadata:  []byte(`{"difficulty":"` + difficulty + `"}`),
	}
}

func TestRunOrchestrationFirstSolve(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.badges.rows = []*types.Badge{badgeRow("first_steps", "problems_solved", 1, 50)}
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveEasy,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration: %v", err)
	}
	if out.Streak.Current != 1 || !out.Streak.Extended {
		t.Fatalf("streak = %+v, want current 1 extended", out.Streak)
	}
	if out.XPGained != gamification.XPSolveEasy+50 {
		t.Fatalf("XPGained = %d, want %d", out.XPGained, gamification.XPSolveEasy+50)
	}
	if len(out.NewBadges) != 1 || out.NewBadges[0].ID != "first_steps" {
		t.Fatalf("NewBadges = %+v, want first_steps", out.NewBadges)
	}
	if !f.gam.earned["first_steps"] {
		t.Fatalf("first_steps not committed to earned set")
	}
	if f.gam.row.TotalXP != out.TotalXP {
		t.Fatalf("committed XP %d != outcome XP %d", f.gam.row.TotalXP, out.TotalXP)
	}
}

func TestRunOrchestrationStreakMilestone(t *testing.T) {
	f := newOrchestratorFixture(t)
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	for i := 6; i >= 0; i-- {
		f.activity.rows = append(f.activity.rows, solveEntry(userID, now.AddDate(0, 0, -i), "Medium"))
	}
	f.progress.row = &types.UserProgress{ID: uuid.New(), UserID: userID, CurrentStreak: 6, LongestStreak: 6}

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveMedium,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration: %v", err)
	}
	if out.Streak.Current != 7 {
		t.Fatalf("Streak.Current = %d, want 7", out.Streak.Current)
	}
	if !out.Streak.Extended {
		t.Fatalf("streak should report extended")
	}
	if !gamification.IsMilestone(out.Streak.Current) {
		t.Fatalf("7 should be a milestone length")
	}
	if out.Streak.Longest != 7 {
		t.Fatalf("Streak.Longest = %d, want 7", out.Streak.Longest)
	}
}

func TestRunOrchestrationStreakBrokenAfterGap(t *testing.T) {
	f := newOrchestratorFixture(t)
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	// A 14-day run that ended five days ago, then today's solve.
	for i := 18; i >= 5; i-- {
		f.activity.rows = append(f.activity.rows, solveEntry(userID, now.AddDate(0, 0, -i), "Easy"))
	}
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))
	f.progress.row = &types.UserProgress{ID: uuid.New(), UserID: userID, CurrentStreak: 14, LongestStreak: 14}

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveEasy,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration: %v", err)
	}
	if out.Streak.Current != 1 {
		t.Fatalf("Streak.Current = %d, want 1 after gap", out.Streak.Current)
	}
	if !out.Streak.Broken {
		t.Fatalf("streak should report broken")
	}
	if out.Streak.Longest != 14 {
		t.Fatalf("Streak.Longest = %d, want 14 retained", out.Streak.Longest)
	}
}

func TestRunOrchestrationLevelUpOnce(t *testing.T) {
	f := newOrchestratorFixture(t)
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Medium"))
	f.gam.row = &types.UserGamification{ID: uuid.New(), UserID: userID, TotalXP: 480, CurrentLevel: 4}

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: 30,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration: %v", err)
	}
	if out.TotalXP != 510 {
		t.Fatalf("TotalXP = %d, want 510", out.TotalXP)
	}
	if !out.LeveledUp || out.NewLevel != 5 || out.PreviousLevel != 4 {
		t.Fatalf("level transition = %d -> %d (leveled %v), want 4 -> 5 once",
			out.PreviousLevel, out.NewLevel, out.LeveledUp)
	}
}

func TestRunOrchestrationBadgeAtExactThreshold(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.badges.rows = []*types.Badge{{
		ID:            "array_specialist",
		Name:          "Array Specialist",
		Category:      "skill",
		CriteriaType:  "difficulty_solved",
		CriteriaValue: 20,
		CriteriaData:  []byte(`{"difficulty":"Easy"}`),
		XPReward:      100,
		Rarity:        "uncommon",
		IsActive:      true,
	}}
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	for i := 0; i < 20; i++ {
		f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))
	}

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveEasy,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration: %v", err)
	}
	if len(out.NewBadges) != 1 || out.NewBadges[0].ID != "array_specialist" {
		t.Fatalf("NewBadges = %+v, want array_specialist at exactly 20", out.NewBadges)
	}
	if out.XPGained != gamification.XPSolveEasy+100 {
		t.Fatalf("XPGained = %d, want solve + badge reward", out.XPGained)
	}
}

func TestRunOrchestrationEarnedBadgeNotReawarded(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.badges.rows = []*types.Badge{badgeRow("first_steps", "problems_solved", 1, 50)}
	f.gam.earned = map[string]bool{"first_steps": true}
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveEasy,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration: %v", err)
	}
	if len(out.NewBadges) != 0 {
		t.Fatalf("NewBadges = %+v, earned badge must never be re-awarded", out.NewBadges)
	}
}

func TestRunOrchestrationRetriesOnVersionConflict(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.progress.conflictsLeft = 1
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))

	out, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveEasy,
		At:      now,
	})
	if err != nil {
		t.Fatalf("RunOrchestration should succeed after retry: %v", err)
	}
	if out == nil || out.TotalXP != gamification.XPSolveEasy {
		t.Fatalf("outcome = %+v, want committed pass", out)
	}
	if f.progress.commits != 1 {
		t.Fatalf("progress commits = %d, want exactly 1", f.progress.commits)
	}
}

func TestRunOrchestrationGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.progress.conflictsLeft = 100
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))

	_, err := f.svc.RunOrchestration(context.Background(), userID, TriggeringAction{
		Type:    gamification.ActivityProblemSolved,
		XPDelta: gamification.XPSolveEasy,
		At:      now,
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if f.gam.commits != 0 {
		t.Fatalf("gamification commits = %d, want 0 when pass never lands", f.gam.commits)
	}
}

func TestGetStreakCalendarWindow(t *testing.T) {
	f := newOrchestratorFixture(t)
	userID := uuid.New()
	now := time.Now().In(gamification.DayLocation)
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now, "Easy"))
	f.activity.rows = append(f.activity.rows, solveEntry(userID, now.AddDate(0, 0, -2), "Easy"))

	cal, err := f.svc.GetStreakCalendar(context.Background(), userID, 7)
	if err != nil {
		t.Fatalf("GetStreakCalendar: %v", err)
	}
	if len(cal) != 7 {
		t.Fatalf("calendar has %d days, want 7", len(cal))
	}
	today := now.Format("2006-01-02")
	if !cal[today] {
		t.Fatalf("today should be active in calendar")
	}
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if cal[yesterday] {
		t.Fatalf("yesterday should be inactive")
	}
}
