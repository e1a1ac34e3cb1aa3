package refundrepo

import (
	"context"
	"errors"
	"time"

	"postpurchase/internal/adapters/out/postgres/versioned"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormRefundRepository implements RefundRepository using GORM.
type GormRefundRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormRefundRepository(db *gorm.DB, tracker aggregateTracker) *GormRefundRepository {
	return &GormRefundRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add stores a new refund. A second refund for the same cancellation or
// return violates a unique index and fails.
func (r *GormRefundRepository) Add(ctx context.Context, aggregate *refund.Refund) error {
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

func (r *GormRefundRepository) Update(ctx context.Context, aggregate *refund.Refund) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate, aggregate.Version()+1)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := versioned.Update(ctx, tx, "refund", dto.ID, aggregate.Version(), &dto, "created_at"); err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			keep = append(keep, item.ID)
		}
		if err := tx.Where("refund_id = ? AND id NOT IN ?", dto.ID, keep).Delete(&ItemDTO{}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&items).Error
	})
	if err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RefundDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("refund", id.String())
		}
		return nil, err
	}

	refunds, err := r.withItems(ctx, []RefundDTO{dto})
	if err != nil {
		return nil, err
	}
	return refunds[0], nil
}

func (r *GormRefundRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RefundDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, dtos)
}

// ListStuckProcessing returns Processing refunds last written before the
// given time, oldest first.
func (r *GormRefundRepository) ListStuckProcessing(ctx context.Context, before time.Time, limit int) ([]*refund.Refund, error) {
	var dtos []RefundDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", refund.Processing.String(), before).
		Order("updated_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, dtos)
}

func (r *GormRefundRepository) withItems(ctx context.Context, dtos []RefundDTO) ([]*refund.Refund, error) {
	if len(dtos) == 0 {
		return []*refund.Refund{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	var itemDTOs []ItemDTO
	if err := r.db.WithContext(ctx).Where("refund_id IN ?", ids).Order("position").Find(&itemDTOs).Error; err != nil {
		return nil, err
	}
	byRefund := make(map[uuid.UUID][]ItemDTO, len(dtos))
	for _, item := range itemDTOs {
		byRefund[item.RefundID] = append(byRefund[item.RefundID], item)
	}

	result := make([]*refund.Refund, 0, len(dtos))
	for _, dto := range dtos {
		rf, err := toDomain(dto, byRefund[dto.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, rf)
	}
	return result, nil
}
