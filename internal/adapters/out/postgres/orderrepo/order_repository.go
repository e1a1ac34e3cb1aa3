package orderrepo

import (
	"context"
	"errors"

	"postpurchase/internal/adapters/out/postgres/ledgerrepo"
	"postpurchase/internal/adapters/out/postgres/versioned"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its items. The stored version starts at 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate, 1)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dto).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the mutable columns of an order. Items never change after
// purchase and are left alone.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _ := fromDomain(aggregate, aggregate.Version()+1)
	if err := versioned.Update(ctx, r.db, "order", dto.ID, aggregate.Version(), &dto, "created_at", "deleted_at"); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with items and status history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	var items []ItemDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", dto.ID).Order("position").Find(&items).Error; err != nil {
		return nil, err
	}

	history, err := ledgerrepo.NewGormLedgerRepository(r.db).ListByAggregate(ctx, lifecycle.Order, id)
	if err != nil {
		return nil, err
	}

	return toDomain(dto, items, history)
}
