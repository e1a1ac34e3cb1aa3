// Package versioned implements the optimistic concurrency check shared by the
// aggregate repositories. Every aggregate row carries a version column that is
// incremented on each successful write.
package versioned

import (
	"context"

	"postpurchase/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Update writes every column of dto except the ones in omit, provided the
// stored row still carries expected as its version. dto must already hold
// the next version. A missing row yields ObjectNotFound, a row with another
// version yields ConcurrencyConflict.
func Update(ctx context.Context, db *gorm.DB, entity string, id uuid.UUID, expected int64, dto any, omit ...string) error {
	result := db.WithContext(ctx).
		Model(dto).
		Select("*").
		Omit(append([]string{"id"}, omit...)...).
		Where("id = ? AND version = ?", id, expected).
		Updates(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(dto).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return errs.NewConcurrencyConflictError(entity, id.String())
}
