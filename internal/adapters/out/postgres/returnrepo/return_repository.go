package returnrepo

import (
	"context"
	"errors"

	"postpurchase/internal/adapters/out/postgres/versioned"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormReturnRepository implements ReturnRepository using GORM.
type GormReturnRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormReturnRepository(db *gorm.DB, tracker aggregateTracker) *GormReturnRepository {
	return &GormReturnRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormReturnRepository) Add(ctx context.Context, aggregate *returns.Return) error {
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

// Update writes the request and synchronises its items: rows of items that
// were dropped are removed, the rest are upserted.
func (r *GormReturnRepository) Update(ctx context.Context, aggregate *returns.Return) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate, aggregate.Version()+1)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := versioned.Update(ctx, tx, "return", dto.ID, aggregate.Version(), &dto); err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			keep = append(keep, item.ID)
		}
		if err := tx.Where("return_id = ? AND id NOT IN ?", dto.ID, keep).Delete(&ItemDTO{}).Error; err != nil {
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

// Get returns the request even when it was withdrawn.
func (r *GormReturnRepository) Get(ctx context.Context, id kernel.UUID) (*returns.Return, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReturnDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("return", id.String())
		}
		return nil, err
	}

	items, err := r.items(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	return toDomain(dto, items[dto.ID])
}

func (r *GormReturnRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*returns.Return, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReturnDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("requested_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*returns.Return{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	items, err := r.items(ctx, ids...)
	if err != nil {
		return nil, err
	}

	result := make([]*returns.Return, 0, len(dtos))
	for _, dto := range dtos {
		ret, convErr := toDomain(dto, items[dto.ID])
		if convErr != nil {
			return nil, convErr
		}
		result = append(result, ret)
	}
	return result, nil
}

func (r *GormReturnRepository) items(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID][]ItemDTO, error) {
	var dtos []ItemDTO
	if err := r.db.WithContext(ctx).
		Where("return_id IN ?", ids).
		Order("position").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	byRequest := make(map[uuid.UUID][]ItemDTO, len(ids))
	for _, dto := range dtos {
		byRequest[dto.ReturnID] = append(byRequest[dto.ReturnID], dto)
	}
	return byRequest, nil
}
