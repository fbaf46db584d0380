package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/types"
)

// ErrVersionConflict signals a lost optimistic-versioned commit; the caller
// reloads and retries the whole pass.
var ErrVersionConflict = errors.New("version conflict")

type UserProgressRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error)
	CommitVersioned(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

// GetOrCreate lazily creates the progress aggregate on first access.
func (r *userProgressRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.UserProgress{UserID: userID}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		FirstOrCreate(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// CommitVersioned writes the counters guarded by the version column. A
// concurrent commit from the same user makes RowsAffected zero and the
// caller gets ErrVersionConflict instead of a lost update.
func (r *userProgressRepo) CommitVersioned(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]interface{}{
			"current_streak": row.CurrentStreak,
			"longest_streak": row.LongestStreak,
			"last_solved_at": row.LastSolvedAt,
			"version":        row.Version + 1,
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

type PatternProgressRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PatternProgress, error)
	GetByUserAndPattern(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patternName string) (*types.PatternProgress, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.PatternProgress) error
}

type patternProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatternProgressRepo(db *gorm.DB, baseLog *logger.Logger) PatternProgressRepo {
	return &patternProgressRepo{db: db, log: baseLog.With("repo", "PatternProgressRepo")}
}

func (r *patternProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PatternProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PatternProgress
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *patternProgressRepo) GetByUserAndPattern(ctx context.Context, tx *gorm.DB, userID uuid.UUID, patternName string) (*types.PatternProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.PatternProgress
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND pattern_name = ?", userID, patternName).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *patternProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.PatternProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND pattern_name = ?", row.UserID, row.PatternName).
		Assign(map[string]interface{}{
			"total_problems":     row.TotalProblems,
			"completed_problems": row.CompletedProblems,
			"completed_at":       row.CompletedAt,
		}).
		FirstOrCreate(row).Error
}
