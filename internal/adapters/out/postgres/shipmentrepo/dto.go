// Package shipmentrepo persists shipments in the shipments and shipment_items tables.
package shipmentrepo

import (
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

type ShipmentDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"type:uuid;not null;index"`
	Carrier             string    `gorm:"not null"`
	TrackingNumber      string    `gorm:"not null"`
	Status              string    `gorm:"type:varchar(32);not null"`
	EstimatedDeliveryAt *time.Time
	DeliveredAt         *time.Time
	CreatedAt           time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime:false;not null"`
	Version             int64     `gorm:"not null"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type ItemDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID `gorm:"type:uuid;not null"`
	Position    int       `gorm:"not null"`
	Quantity    int       `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "shipment_items"
}

func fromDomain(s *shipment.Shipment, version int64) (ShipmentDTO, []ItemDTO) {
	dto := ShipmentDTO{
		ID:                  s.ID().Bytes(),
		OrderID:             s.OrderID().Bytes(),
		Carrier:             s.Carrier(),
		TrackingNumber:      s.TrackingNumber(),
		Status:              s.Status().String(),
		EstimatedDeliveryAt: s.EstimatedDeliveryAt(),
		DeliveredAt:         s.DeliveredAt(),
		CreatedAt:           s.CreatedAt(),
		UpdatedAt:           s.UpdatedAt(),
		Version:             version,
	}

	items := make([]ItemDTO, 0, len(s.Items()))
	for i, item := range s.Items() {
		items = append(items, ItemDTO{
			ID:          item.ID().Bytes(),
			ShipmentID:  dto.ID,
			OrderItemID: item.OrderItemID().Bytes(),
			Position:    i,
			Quantity:    item.Quantity(),
		})
	}
	return dto, items
}

func toDomain(dto ShipmentDTO, itemDTOs []ItemDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := lifecycle.ParseShipmentStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*shipment.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		itemID, idErr := kernel.UUIDFromBytes(itemDTO.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderItemID, idErr := kernel.UUIDFromBytes(itemDTO.OrderItemID[:])
		if idErr != nil {
			return nil, idErr
		}
		item, itemErr := shipment.NewItem(itemID, orderItemID, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return shipment.RestoreShipment(shipment.Snapshot{
		ID:                  id,
		OrderID:             orderID,
		Carrier:             dto.Carrier,
		TrackingNumber:      dto.TrackingNumber,
		Status:              status,
		Items:               items,
		EstimatedDeliveryAt: dto.EstimatedDeliveryAt,
		DeliveredAt:         dto.DeliveredAt,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
		Version:             dto.Version,
	})
}
