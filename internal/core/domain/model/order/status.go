package order

import "postpurchase/internal/core/domain/model/lifecycle"

// Status is the order lifecycle status.
type Status = lifecycle.OrderStatus

const (
	Unknown   = lifecycle.OrderUnknown
	Pending   = lifecycle.OrderPending
	Confirmed = lifecycle.OrderConfirmed
	Packed    = lifecycle.OrderPacked
	Shipped   = lifecycle.OrderShipped
	Delivered = lifecycle.OrderDelivered
	Cancelled = lifecycle.OrderCancelled
	Returned  = lifecycle.OrderReturned
)
