package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/gamification"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

// commitRetries bounds how often a pass is replayed after losing an
// optimistic-versioned commit to a concurrent action from the same user.
const commitRetries = 3

// TriggeringAction describes the user action a pass runs for. The ledger
// entry for it has already been appended by the caller.
type TriggeringAction struct {
	Type        gamification.ActivityType
	ProblemID   *uuid.UUID
	PatternName string
	XPDelta     int
	At          time.Time
}

type GamificationService interface {
	// RunOrchestration executes one atomic pass: streak, XP, badge award
	// loop, commit. The outcome is computed fully in memory first; a
	// failed commit surfaces as an error with no state change and no
	// events.
	RunOrchestration(ctx context.Context, userID uuid.UUID, action TriggeringAction) (*gamification.Outcome, error)

	GetSummary(ctx context.Context, userID uuid.UUID) (*GamificationSummary, error)
	GetStreakCalendar(ctx context.Context, userID uuid.UUID, days int) (map[string]bool, error)
	ListBadges(ctx context.Context, userID uuid.UUID) ([]BadgeStatus, error)
}

type GamificationSummary struct {
	TotalXP       int        `json:"total_xp"`
	CurrentLevel  int        `json:"current_level"`
	XPForNext     int        `json:"xp_for_next_level"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastSolvedAt  *time.Time `json:"last_solved_at,omitempty"`
	EarnedBadges  []string   `json:"earned_badges"`
}

type BadgeStatus struct {
	Badge    gamification.BadgeSpec `json:"badge"`
	Earned   bool                   `json:"earned"`
	EarnedAt *time.Time             `json:"earned_at,omitempty"`
}

type gamificationService struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo repos.ActivityLogRepo
	progressRepo repos.UserProgressRepo
	patternRepo  repos.PatternProgressRepo
	gamRepo      repos.UserGamificationRepo
	badgeRepo    repos.BadgeRepo
}

func NewGamificationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	activityRepo repos.ActivityLogRepo,
	progressRepo repos.UserProgressRepo,
	patternRepo repos.PatternProgressRepo,
	gamRepo repos.UserGamificationRepo,
	badgeRepo repos.BadgeRepo,
) GamificationService {
	return &gamificationService{
		db:           db,
		log:          baseLog.With("service", "GamificationService"),
		activityRepo: activityRepo,
		progressRepo: progressRepo,
		patternRepo:  patternRepo,
		gamRepo:      gamRepo,
		badgeRepo:    badgeRepo,
	}
}

func (s *gamificationService) RunOrchestration(ctx context.Context, userID uuid.UUID, action TriggeringAction) (*gamification.Outcome, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	var lastErr error
	for attempt := 0; attempt < commitRetries; attempt++ {
		outcome, err := s.runOnce(ctx, userID, action)
		if err == nil {
			return outcome, nil
		}
		if !errors.Is(err, repos.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		s.log.Debug("orchestration pass lost optimistic commit, retrying", "user_id", userID, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("orchestration commit contention for user %s: %w", userID, lastErr)
}

func (s *gamificationService) runOnce(ctx context.Context, userID uuid.UUID, action TriggeringAction) (*gamification.Outcome, error) {
	asOf := action.At
	if asOf.IsZero() {
		asOf = time.Now().In(gamification.DayLocation)
	}

	progress, err := s.progressRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	gam, err := s.gamRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user gamification: %w", err)
	}
	ledgerRows, err := s.activityRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load activity ledger: %w", err)
	}
	patternRows, err := s.patternRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load pattern progress: %w", err)
	}
	earnedIDs, err := s.gamRepo.GetEarnedBadgeIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load earned badges: %w", err)
	}
	catalogRows, err := s.badgeRepo.ListCatalog(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load badge catalog: %w", err)
	}
	catalog := types.ToSpecs(catalogRows)

	entries := types.ToActivities(ledgerRows)
	if skipped := gamification.CountMalformed(entries); skipped > 0 {
		s.log.Warn("skipping malformed ledger entries during evaluation", "user_id", userID, "skipped", skipped)
	}

	// Defensive clamp: a stored longest below current is a bug signal,
	// not a request failure.
	if progress.LongestStreak < progress.CurrentStreak {
		s.log.Warn("streak invariant violation detected, clamping",
			"user_id", userID, "current", progress.CurrentStreak, "longest", progress.LongestStreak)
		progress.LongestStreak = progress.CurrentStreak
	}

	// 1. Streak over the updated ledger.
	index := gamification.NewDayIndex(entries, gamification.DayLocation)
	streak := gamification.UpdateStreak(index, asOf, progress.CurrentStreak, progress.LongestStreak)

	// 2. Base XP for the action.
	xp := gamification.ApplyXP(gam.TotalXP, action.XPDelta)

	// 3. Badge award loop on the post-streak, post-XP snapshot. Rewards
	// feed back into XP until no badge flips, bounded by catalog size.
	snap := &gamification.Snapshot{
		Entries:       entries,
		Patterns:      types.PatternStates(patternRows),
		CurrentStreak: streak.Current,
		CurrentLevel:  xp.NewLevel,
		TotalXP:       xp.TotalXP,
		AsOf:          asOf,
		Location:      gamification.DayLocation,
	}
	newBadges, rewardXP := gamification.AwardLoop(catalog, earnedIDs, snap)

	finalLevel := gamification.LevelForXP(snap.TotalXP)
	outcome := &gamification.Outcome{
		XPGained:      action.XPDelta + rewardXP,
		TotalXP:       snap.TotalXP,
		PreviousLevel: xp.PreviousLevel,
		NewLevel:      finalLevel,
		LeveledUp:     finalLevel > xp.PreviousLevel,
		NewBadges:     newBadges,
		Streak: gamification.StreakState{
			Current:  streak.Current,
			Longest:  streak.Longest,
			Extended: streak.Extended,
			Broken:   streak.Broken,
		},
	}
	if action.Type == gamification.ActivityPatternCompleted {
		outcome.PatternCompleted = action.PatternName
	}

	// 4. Commit atomically. Nothing above touched storage, so a failure
	// here leaves no partial XP or phantom badges.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress.CurrentStreak = streak.Current
		progress.LongestStreak = streak.Longest
		if action.Type == gamification.ActivityProblemSolved || action.Type == gamification.ActivityPatternCompleted {
			at := asOf
			progress.LastSolvedAt = &at
		}
		if err := s.progressRepo.CommitVersioned(ctx, tx, progress); err != nil {
			return err
		}

		gam.TotalXP = outcome.TotalXP
		gam.CurrentLevel = outcome.NewLevel
		if err := s.gamRepo.CommitVersioned(ctx, tx, gam); err != nil {
			return err
		}

		if len(newBadges) > 0 {
			rows := make([]*types.EarnedBadge, 0, len(newBadges))
			for _, b := range newBadges {
				rows = append(rows, &types.EarnedBadge{UserID: userID, BadgeID: b.ID, EarnedAt: asOf})
			}
			if err := s.gamRepo.AppendEarned(ctx, tx, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *gamificationService) GetSummary(ctx context.Context, userID uuid.UUID) (*GamificationSummary, error) {
	progress, err := s.progressRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	gam, err := s.gamRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user gamification: %w", err)
	}
	earnedIDs, err := s.gamRepo.GetEarnedBadgeIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load earned badges: %w", err)
	}
	earned := make([]string, 0, len(earnedIDs))
	for id := range earnedIDs {
		earned = append(earned, id)
	}
	return &GamificationSummary{
		TotalXP:       gam.TotalXP,
		CurrentLevel:  gam.CurrentLevel,
		XPForNext:     gamification.XPForLevel(gam.CurrentLevel + 1),
		CurrentStreak: progress.CurrentStreak,
		LongestStreak: progress.LongestStreak,
		LastSolvedAt:  progress.LastSolvedAt,
		EarnedBadges:  earned,
	}, nil
}

// GetStreakCalendar serves the day->active map for the trailing window,
// indexing only the rows inside it.
func (s *gamificationService) GetStreakCalendar(ctx context.Context, userID uuid.UUID, days int) (map[string]bool, error) {
	if days <= 0 || days > 366 {
		days = 30
	}
	now := time.Now().In(gamification.DayLocation)
	since := now.AddDate(0, 0, -days)
	rows, err := s.activityRepo.GetByUserSince(ctx, nil, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load activity window: %w", err)
	}
	index := gamification.NewDayIndex(types.ToActivities(rows), gamification.DayLocation)
	return index.Calendar(now, days), nil
}

func (s *gamificationService) ListBadges(ctx context.Context, userID uuid.UUID) ([]BadgeStatus, error) {
	catalogRows, err := s.badgeRepo.ListCatalog(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load badge catalog: %w", err)
	}
	earnedIDs, err := s.gamRepo.GetEarnedBadgeIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load earned badges: %w", err)
	}
	out := make([]BadgeStatus, 0, len(catalogRows))
	for _, row := range catalogRows {
		out = append(out, BadgeStatus{
			Badge:  row.ToSpec(),
			Earned: earnedIDs[row.ID],
		})
	}
	return out, nil
}
