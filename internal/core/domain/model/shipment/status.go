package shipment

import "postpurchase/internal/core/domain/model/lifecycle"

type Status = lifecycle.ShipmentStatus

const (
	Unknown        = lifecycle.ShipmentUnknown
	Pending        = lifecycle.ShipmentPending
	Shipped        = lifecycle.ShipmentShipped
	InTransit      = lifecycle.ShipmentInTransit
	OutForDelivery = lifecycle.ShipmentOutForDelivery
	Delivered      = lifecycle.ShipmentDelivered
	Cancelled      = lifecycle.ShipmentCancelled
	Returned       = lifecycle.ShipmentReturned
)
