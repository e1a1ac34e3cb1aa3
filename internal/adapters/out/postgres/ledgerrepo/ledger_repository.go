package ledgerrepo

import (
	"context"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/domain/model/lifecycle"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements LedgerRepository using GORM.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts entries; ids that are already stored are skipped.
func (r *GormLedgerRepository) Append(ctx context.Context, entries ...ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(e))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dtos).Error
}

// ListByOrder returns all entries of the order, oldest first.
func (r *GormLedgerRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]ledger.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("at, seq").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListByAggregate returns the entries one aggregate recorded, oldest first.
func (r *GormLedgerRepository) ListByAggregate(
	ctx context.Context,
	l lifecycle.Lifecycle,
	aggregateID kernel.UUID,
) ([]ledger.Entry, error) {
	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).
		Where("lifecycle = ? AND aggregate_id = ?", l.String(), aggregateID.Bytes()).
		Order("at, seq").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}
