package ports

import (
	"context"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipments.
type ShipmentRepository interface {
	Add(ctx context.Context, aggregate *shipment.Shipment) error
	Update(ctx context.Context, aggregate *shipment.Shipment) error
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipment.Shipment, error)
}
