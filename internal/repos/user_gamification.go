package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type UserGamificationRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserGamification, error)
	CommitVersioned(ctx context.Context, tx *gorm.DB, row *types.UserGamification) error
	GetEarnedBadgeIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error)
	AppendEarned(ctx context.Context, tx *gorm.DB, rows []*types.EarnedBadge) error
	TopByXP(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserGamification, error)
	RankByXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
}

type userGamificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserGamificationRepo(db *gorm.DB, baseLog *logger.Logger) UserGamificationRepo {
	return &userGamificationRepo{db: db, log: baseLog.With("repo", "UserGamificationRepo")}
}

func (r *userGamificationRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserGamification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.UserGamification{UserID: userID, CurrentLevel: 1}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *userGamificationRepo) CommitVersioned(ctx context.Context, tx *gorm.DB, row *types.UserGamification) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.UserGamification{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]interface{}{
			"total_xp":      row.TotalXP,
			"current_level": row.CurrentLevel,
			"version":       row.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	row.Version++
	return nil
}

func (r *userGamificationRepo) GetEarnedBadgeIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []string
	if err := transaction.WithContext(ctx).
		Model(&types.EarnedBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *userGamificationRepo) AppendEarned(ctx context.Context, tx *gorm.DB, rows []*types.EarnedBadge) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *userGamificationRepo) TopByXP(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserGamification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.UserGamification
	if err := transaction.WithContext(ctx).
		Preload("User").
		Order("total_xp DESC, created_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// RankByXP is 1-based: users strictly above on XP, plus one.
func (r *userGamificationRepo) RankByXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row, err := r.GetOrCreate(ctx, transaction, userID)
	if err != nil {
		return 0, err
	}
	var above int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserGamification{}).
		Where("total_xp > ?", row.TotalXP).
		Count(&above).Error; err != nil {
		return 0, err
	}
	return int(above) + 1, nil
}
