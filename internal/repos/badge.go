package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/questcoder/questcoder-backend/internal/logger"
	"github.com/questcoder/questcoder-backend/internal/types"
)

type BadgeRepo interface {
	ListCatalog(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error)
	Seed(ctx context.Context, tx *gorm.DB, rows []*types.Badge) error
	SetActive(ctx context.Context, tx *gorm.DB, badgeID string, active bool) error
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	return &badgeRepo{db: db, log: baseLog.With("repo", "BadgeRepo")}
}

// ListCatalog returns the catalog in its stable evaluation order.
func (r *badgeRepo) ListCatalog(ctx context.Context, tx *gorm.DB) ([]*types.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Badge
	if err := transaction.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Seed inserts catalog rows that do not exist yet. Existing rows keep
// their criteria (immutable once seeded); only is_active and sort_order
// follow the seed file.
func (r *badgeRepo) Seed(ctx context.Context, tx *gorm.DB, rows []*types.Badge) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	for _, row := range rows {
		var existing types.Badge
		err := transaction.WithContext(ctx).
			Where("id = ?", row.ID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if cErr := transaction.WithContext(ctx).Create(row).Error; cErr != nil {
				return cErr
			}
			continue
		}
		if err != nil {
			return err
		}
		if uErr := transaction.WithContext(ctx).
			Model(&types.Badge{}).
			Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"is_active":  row.IsActive,
				"sort_order": row.SortOrder,
			}).Error; uErr != nil {
			return uErr
		}
	}
	return nil
}

func (r *badgeRepo) SetActive(ctx context.Context, tx *gorm.DB, badgeID string, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Badge{}).
		Where("id = ?", badgeID).
		Update("is_active", active).Error
}
