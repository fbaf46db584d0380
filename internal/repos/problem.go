package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type ProblemRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Problem, error)
	ListByPattern(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) ([]*types.Problem, error)
	CountByPattern(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) (int, error)
}

type problemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProblemRepo(db *gorm.DB, baseLog *logger.Logger) ProblemRepo {
	return &problemRepo{db: db, log: baseLog.With("repo", "ProblemRepo")}
}

func (r *problemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Problem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Problem
	if err := transaction.WithContext(ctx).
		Preload("Pattern").
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *problemRepo) ListByPattern(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) ([]*types.Problem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Problem
	if err := transaction.WithContext(ctx).
		Where("pattern_id = ?", patternID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *problemRepo) CountByPattern(ctx context.Context, tx *gorm.DB, patternID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).
		Model(&types.Problem{}).
		Where("pattern_id = ?", patternID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

type PatternRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.Pattern, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Pattern, error)
}

type patternRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatternRepo(db *gorm.DB, baseLog *logger.Logger) PatternRepo {
	return &patternRepo{db: db, log: baseLog.With("repo", "PatternRepo")}
}

func (r *patternRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Pattern, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Pattern
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *patternRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Pattern, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row types.Pattern
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
