package cancellationrepo

import (
	"context"
	"errors"

	"postpurchase/internal/adapters/out/postgres/versioned"
	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormCancellationRepository implements CancellationRepository using GORM.
type GormCancellationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormCancellationRepository(db *gorm.DB, tracker aggregateTracker) *GormCancellationRepository {
	return &GormCancellationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormCancellationRepository) Add(ctx context.Context, aggregate *cancellation.Cancellation) error {
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
func (r *GormCancellationRepository) Update(ctx context.Context, aggregate *cancellation.Cancellation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate, aggregate.Version()+1)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := versioned.Update(ctx, tx, "cancellation", dto.ID, aggregate.Version(), &dto); err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			keep = append(keep, item.ID)
		}
		if err := tx.Where("cancellation_id = ? AND id NOT IN ?", dto.ID, keep).Delete(&ItemDTO{}).Error; err != nil {
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
func (r *GormCancellationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CancellationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cancellation", id.String())
		}
		return nil, err
	}

	items, err := r.items(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	return toDomain(dto, items[dto.ID])
}

func (r *GormCancellationRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*cancellation.Cancellation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CancellationDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("requested_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*cancellation.Cancellation{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	items, err := r.items(ctx, ids...)
	if err != nil {
		return nil, err
	}

	result := make([]*cancellation.Cancellation, 0, len(dtos))
	for _, dto := range dtos {
		c, convErr := toDomain(dto, items[dto.ID])
		if convErr != nil {
			return nil, convErr
		}
		result = append(result, c)
	}
	return result, nil
}

func (r *GormCancellationRepository) items(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID][]ItemDTO, error) {
	var dtos []ItemDTO
	if err := r.db.WithContext(ctx).
		Where("cancellation_id IN ?", ids).
		Order("position").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	byRequest := make(map[uuid.UUID][]ItemDTO, len(ids))
	for _, dto := range dtos {
		byRequest[dto.CancellationID] = append(byRequest[dto.CancellationID], dto)
	}
	return byRequest, nil
}
