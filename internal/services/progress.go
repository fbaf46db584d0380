package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/questcoder/questcoder-backend/internal/gamification"
	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
	"github.com/questcoder/questcoder-backend/internal/types"
)

var (
	ErrAlreadySolved = errors.New("problem already marked solved")
	ErrNotSolved     = errors.New("problem is not marked solved")
)

// ProgressService owns the solve/unsolve entry points. Each call appends
// to the activity ledger, maintains pattern completion, runs one
// gamification pass, and only then fans events out.
type ProgressService interface {
	MarkSolved(ctx context.Context, userID, problemID uuid.UUID) (*gamification.Outcome, error)
	MarkUnsolved(ctx context.Context, userID, problemID uuid.UUID) (*gamification.Outcome, error)
	GetPatternProgress(ctx context.Context, userID uuid.UUID) ([]*types.PatternProgress, error)
}

type progressService struct {
	log          *logger.Logger
	problemRepo  repos.ProblemRepo
	activityRepo repos.ActivityLogRepo
	patternRepo  repos.PatternProgressRepo
	gamification GamificationService
	leaderboard  LeaderboardService
	notifier     GamificationNotifier
}

func NewProgressService(
	baseLog *logger.Logger,
	problemRepo repos.ProblemRepo,
	activityRepo repos.ActivityLogRepo,
	patternRepo repos.PatternProgressRepo,
	gamService GamificationService,
	leaderboard LeaderboardService,
	notifier GamificationNotifier,
) ProgressService {
	return &progressService{
		log:          baseLog.With("service", "ProgressService"),
		problemRepo:  problemRepo,
		activityRepo: activityRepo,
		patternRepo:  patternRepo,
		gamification: gamService,
		leaderboard:  leaderboard,
		notifier:     notifier,
	}
}

func (s *progressService) MarkSolved(ctx context.Context, userID, problemID uuid.UUID) (*gamification.Outcome, error) {
	problem, err := s.problemRepo.GetByID(ctx, nil, problemID)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	now := time.Now().In(gamification.DayLocation)

	// The ledger is the source of truth for solved state, pattern
	// membership or not. A repeat solve fails before it can append a
	// second ledger row for the same problem.
	solved, err := s.activityRepo.IsSolved(ctx, nil, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("check solved state: %w", err)
	}
	if solved {
		return nil, ErrAlreadySolved
	}

	patternName := ""
	if problem.Pattern != nil {
		patternName = problem.Pattern.Name
	}

	var patternCompleted bool
	if problem.PatternID != nil {
		pp, err := s.patternRepo.GetByUserAndPattern(ctx, nil, userID, patternName)
		if err != nil {
			return nil, fmt.Errorf("load pattern progress: %w", err)
		}
		if pp == nil {
			pp = &types.PatternProgress{UserID: userID, PatternName: patternName}
		}
		ids := pp.CompletedIDs()
		present := false
		for _, id := range ids {
			if id == problemID {
				present = true
				break
			}
		}
		if !present {
			ids = append(ids, problemID)
		}
		total, err := s.problemRepo.CountByPattern(ctx, nil, *problem.PatternID)
		if err != nil {
			return nil, fmt.Errorf("count pattern problems: %w", err)
		}
		pp.TotalProblems = total
		pp.SetCompletedIDs(ids)
		if total > 0 && len(ids) >= total && pp.CompletedAt == nil {
			at := now
			pp.CompletedAt = &at
			patternCompleted = true
		}
		if err := s.patternRepo.Upsert(ctx, nil, pp); err != nil {
			return nil, fmt.Errorf("save pattern progress: %w", err)
		}
	}

	entry := &types.ActivityLogEntry{
		UserID:      userID,
		Type:        string(gamification.ActivityProblemSolved),
		ProblemID:   &problemID,
		PatternName: patternName,
		Date:        now,
		Metadata:    solveMetadata(problem),
	}
	if _, err := s.activityRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	xpDelta := gamification.BaseSolveXP(problem.Difficulty)
	action := TriggeringAction{
		Type:      gamification.ActivityProblemSolved,
		ProblemID: &problemID,
		XPDelta:   xpDelta,
		At:        now,
	}
	if patternCompleted {
		completion := &types.ActivityLogEntry{
			UserID:      userID,
			Type:        string(gamification.ActivityPatternCompleted),
			PatternName: patternName,
			Date:        now,
		}
		if _, err := s.activityRepo.Append(ctx, nil, completion); err != nil {
			return nil, fmt.Errorf("append completion entry: %w", err)
		}
		action.Type = gamification.ActivityPatternCompleted
		action.PatternName = patternName
		action.XPDelta += gamification.XPPatternCompletion
	}

	outcome, err := s.gamification.RunOrchestration(ctx, userID, action)
	if err != nil {
		return nil, err
	}

	s.notifier.DispatchOutcome(ctx, userID, outcome)
	if patternCompleted && problem.PatternID != nil {
		s.notifier.PatternCompleted(userID, *problem.PatternID, patternName)
	}
	s.leaderboard.NotifyChange(ctx, userID)
	return outcome, nil
}

func (s *progressService) MarkUnsolved(ctx context.Context, userID, problemID uuid.UUID) (*gamification.Outcome, error) {
	problem, err := s.problemRepo.GetByID(ctx, nil, problemID)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	now := time.Now().In(gamification.DayLocation)

	solved, err := s.activityRepo.IsSolved(ctx, nil, userID, problemID)
	if err != nil {
		return nil, fmt.Errorf("check solved state: %w", err)
	}
	if !solved {
		return nil, ErrNotSolved
	}

	patternName := ""
	if problem.Pattern != nil {
		patternName = problem.Pattern.Name
	}

	if problem.PatternID != nil {
		pp, err := s.patternRepo.GetByUserAndPattern(ctx, nil, userID, patternName)
		if err != nil {
			return nil, fmt.Errorf("load pattern progress: %w", err)
		}
		if pp != nil {
			ids := pp.CompletedIDs()
			kept := ids[:0]
			removed := false
			for _, id := range ids {
				if id == problemID {
					removed = true
					continue
				}
				kept = append(kept, id)
			}
			if removed {
				pp.SetCompletedIDs(kept)
				pp.CompletedAt = nil
				if err := s.patternRepo.Upsert(ctx, nil, pp); err != nil {
					return nil, fmt.Errorf("save pattern progress: %w", err)
				}
			}
		}
	}

	entry := &types.ActivityLogEntry{
		UserID:      userID,
		Type:        string(gamification.ActivityProblemUnsolved),
		ProblemID:   &problemID,
		PatternName: patternName,
		Date:        now,
		Metadata:    solveMetadata(problem),
	}
	if _, err := s.activityRepo.Append(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("append ledger entry: %w", err)
	}

	action := TriggeringAction{
		Type:      gamification.ActivityProblemUnsolved,
		ProblemID: &problemID,
		XPDelta:   -gamification.BaseSolveXP(problem.Difficulty),
		At:        now,
	}
	outcome, err := s.gamification.RunOrchestration(ctx, userID, action)
	if err != nil {
		return nil, err
	}

	s.notifier.DispatchOutcome(ctx, userID, outcome)
	s.leaderboard.NotifyChange(ctx, userID)
	return outcome, nil
}

func (s *progressService) GetPatternProgress(ctx context.Context, userID uuid.UUID) ([]*types.PatternProgress, error) {
	return s.patternRepo.GetByUserID(ctx, nil, userID)
}

func solveMetadata(problem *types.Problem) datatypes.JSON {
	meta := map[string]string{}
	if problem.Difficulty != "" {
		meta["difficulty"] = problem.Difficulty
	}
	if problem.Platform != "" {
		meta["platform"] = problem.Platform
	}
	if len(meta) == 0 {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return raw
}
