package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type ActivityLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, row *types.ActivityLogEntry) (*types.ActivityLogEntry, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivityLogEntry, error)
	GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.ActivityLogEntry, error)
	IsSolved(ctx context.Context, tx *gorm.DB, userID, problemID uuid.UUID) (bool, error)
	GetMissingPlatform(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ActivityLogEntry, error)
	SetMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, metadata datatypes.JSON) error
}

type activityLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
	return &activityLogRepo{db: db, log: baseLog.With("repo", "ActivityLogRepo")}
}

func (r *activityLogRepo) Append(ctx context.Context, tx *gorm.DB, row *types.ActivityLogEntry) (*types.ActivityLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByUserID returns the full ledger in chronological order. Insertion
// order and date order coincide for ledger rows; created_at breaks ties.
func (r *activityLogRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ActivityLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ActivityLogEntry
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityLogRepo) GetByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.ActivityLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ActivityLogEntry
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// IsSolved reports the problem's current solved state from the ledger: the
// most recent problem_solved/problem_unsolved entry for the problem wins,
// no entry means never solved.
func (r *activityLogRepo) IsSolved(ctx context.Context, tx *gorm.DB, userID, problemID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.ActivityLogEntry
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND problem_id = ?", userID, problemID).
		Where("type IN ?", []string{"problem_solved", "problem_unsolved"}).
		Order("date DESC, created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return row.Type == "problem_solved", nil
}

// GetMissingPlatform finds solve entries whose metadata lacks a platform
// key, for the run-once backfill.
func (r *activityLogRepo) GetMissingPlatform(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ActivityLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Where("type = ?", "problem_solved").
		Where("metadata IS NULL OR metadata->>'platform' IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.ActivityLogEntry
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *activityLogRepo) SetMetadata(ctx context.Context, tx *gorm.DB, id uuid.UUID, metadata datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ActivityLogEntry{}).
		Where("id = ?", id).
		Update("metadata", metadata).Error
}
