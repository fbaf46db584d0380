package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/repos"
)

const defaultLeaderboardSize = 50

// LeaderboardEntry is one ranked row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank     int       `json:"rank"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	TotalXP  int       `json:"total_xp"`
	Level    int       `json:"level"`
}

type LeaderboardService interface {
	TopByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	RankFor(ctx context.Context, userID uuid.UUID) (int, error)

	// NotifyChange re-broadcasts the top list and the user's rank after
	// an XP change. Best effort; failures are logged only.
	NotifyChange(ctx context.Context, userID uuid.UUID)
}

type leaderboardService struct {
	log      *logger.Logger
	gamRepo  repos.UserGamificationRepo
	notifier GamificationNotifier
}

func NewLeaderboardService(baseLog *logger.Logger, gamRepo repos.UserGamificationRepo, notifier GamificationNotifier) LeaderboardService {
	return &leaderboardService{
		log:      baseLog.With("service", "LeaderboardService"),
		gamRepo:  gamRepo,
		notifier: notifier,
	}
}

func (s *leaderboardService) TopByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultLeaderboardSize
	}
	rows, err := s.gamRepo.TopByXP(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entry := LeaderboardEntry{
			Rank:    i + 1,
			UserID:  row.UserID,
			TotalXP: row.TotalXP,
			Level:   row.CurrentLevel,
		}
		if row.User != nil {
			entry.Username = row.User.Username
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *leaderboardService) RankFor(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.gamRepo.RankByXP(ctx, nil, userID)
}

func (s *leaderboardService) NotifyChange(ctx context.Context, userID uuid.UUID) {
	entries, err := s.TopByXP(ctx, defaultLeaderboardSize)
	if err != nil {
		s.log.Warn("leaderboard refresh failed after xp change", "user_id", userID, "error", err)
		return
	}
	s.notifier.LeaderboardUpdate("xp", entries)

	rank, err := s.RankFor(ctx, userID)
	if err != nil {
		s.log.Warn("rank lookup failed after xp change", "user_id", userID, "error", err)
		return
	}
	s.notifier.RankUpdate(userID, rank)
}
