package shipmentrepo

import (
	"context"
	"errors"

	"postpurchase/internal/adapters/out/postgres/versioned"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/shipment"
	"postpurchase/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
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

// Update writes status and dates. The shipped items are fixed at creation.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _ := fromDomain(aggregate, aggregate.Version()+1)
	if err := versioned.Update(ctx, r.db, "shipment", dto.ID, aggregate.Version(), &dto, "created_at"); err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	shipments, err := r.withItems(ctx, []ShipmentDTO{dto})
	if err != nil {
		return nil, err
	}
	return shipments[0], nil
}

func (r *GormShipmentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipment.Shipment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ShipmentDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, dtos)
}

func (r *GormShipmentRepository) withItems(ctx context.Context, dtos []ShipmentDTO) ([]*shipment.Shipment, error) {
	if len(dtos) == 0 {
		return []*shipment.Shipment{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	var itemDTOs []ItemDTO
	if err := r.db.WithContext(ctx).Where("shipment_id IN ?", ids).Order("position").Find(&itemDTOs).Error; err != nil {
		return nil, err
	}
	byShipment := make(map[uuid.UUID][]ItemDTO, len(dtos))
	for _, item := range itemDTOs {
		byShipment[item.ShipmentID] = append(byShipment[item.ShipmentID], item)
	}

	result := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto, byShipment[dto.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}
