package lifecycle

import (
	"fmt"

	"postpurchase/internal/pkg/errs"
)

// Status is the constraint satisfied by every status type of this package.
type Status interface {
	~int
	fmt.Stringer
}

func validate[S Status](s S, names map[S]string) error {
	if _, ok := names[s]; !ok || int(s) == 0 {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

func name[S Status](s S, names map[S]string) string {
	if str, ok := names[s]; ok {
		return str
	}
	return "Unknown"
}

func parse[S Status](str string, names map[S]string) (S, error) {
	for s, n := range names {
		if int(s) != 0 && n == str {
			return s, nil
		}
	}
	var zero S
	return zero, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}

// OrderStatus is the status of an order.
type OrderStatus int

const (
	OrderUnknown OrderStatus = iota
	OrderPending
	OrderConfirmed
	OrderPacked
	OrderShipped
	OrderDelivered
	OrderCancelled
	OrderReturned
)

func getOrderStatusStrings() map[OrderStatus]string {
	return map[OrderStatus]string{
		OrderUnknown:   "Unknown",
		OrderPending:   "Pending",
		OrderConfirmed: "Confirmed",
		OrderPacked:    "Packed",
		OrderShipped:   "Shipped",
		OrderDelivered: "Delivered",
		OrderCancelled: "Cancelled",
		OrderReturned:  "Returned",
	}
}

func (s OrderStatus) String() string  { return name(s, getOrderStatusStrings()) }
func (s OrderStatus) Validate() error { return validate(s, getOrderStatusStrings()) }
func ParseOrderStatus(str string) (OrderStatus, error) {
	return parse(str, getOrderStatusStrings())
}

// CancellationStatus is the status of a cancellation request.
type CancellationStatus int

const (
	CancellationUnknown CancellationStatus = iota
	CancellationPending
	CancellationApproved
	CancellationRejected
)

func getCancellationStatusStrings() map[CancellationStatus]string {
	return map[CancellationStatus]string{
		CancellationUnknown:  "Unknown",
		CancellationPending:  "Pending",
		CancellationApproved: "Approved",
		CancellationRejected: "Rejected",
	}
}

func (s CancellationStatus) String() string  { return name(s, getCancellationStatusStrings()) }
func (s CancellationStatus) Validate() error { return validate(s, getCancellationStatusStrings()) }
func ParseCancellationStatus(str string) (CancellationStatus, error) {
	return parse(str, getCancellationStatusStrings())
}

// ReturnStatus is the status of a return request.
type ReturnStatus int

const (
	ReturnUnknown ReturnStatus = iota
	ReturnPending
	ReturnApproved
	ReturnRejected
)

func getReturnStatusStrings() map[ReturnStatus]string {
	return map[ReturnStatus]string{
		ReturnUnknown:  "Unknown",
		ReturnPending:  "Pending",
		ReturnApproved: "Approved",
		ReturnRejected: "Rejected",
	}
}

func (s ReturnStatus) String() string  { return name(s, getReturnStatusStrings()) }
func (s ReturnStatus) Validate() error { return validate(s, getReturnStatusStrings()) }
func ParseReturnStatus(str string) (ReturnStatus, error) {
	return parse(str, getReturnStatusStrings())
}

// RefundStatus is the status of a refund.
type RefundStatus int

const (
	RefundUnknown RefundStatus = iota
	RefundPending
	RefundProcessing
	RefundCompleted
	RefundFailed
	RefundCancelled
)

func getRefundStatusStrings() map[RefundStatus]string {
	return map[RefundStatus]string{
		RefundUnknown:    "Unknown",
		RefundPending:    "Pending",
		RefundProcessing: "Processing",
		RefundCompleted:  "Completed",
		RefundFailed:     "Failed",
		RefundCancelled:  "Cancelled",
	}
}

func (s RefundStatus) String() string  { return name(s, getRefundStatusStrings()) }
func (s RefundStatus) Validate() error { return validate(s, getRefundStatusStrings()) }
func ParseRefundStatus(str string) (RefundStatus, error) {
	return parse(str, getRefundStatusStrings())
}

// ShipmentStatus is the status of a shipment.
type ShipmentStatus int

const (
	ShipmentUnknown ShipmentStatus = iota
	ShipmentPending
	ShipmentShipped
	ShipmentInTransit
	ShipmentOutForDelivery
	ShipmentDelivered
	ShipmentCancelled
	ShipmentReturned
)

func getShipmentStatusStrings() map[ShipmentStatus]string {
	return map[ShipmentStatus]string{
		ShipmentUnknown:        "Unknown",
		ShipmentPending:        "Pending",
		ShipmentShipped:        "Shipped",
		ShipmentInTransit:      "InTransit",
		ShipmentOutForDelivery: "OutForDelivery",
		ShipmentDelivered:      "Delivered",
		ShipmentCancelled:      "Cancelled",
		ShipmentReturned:       "Returned",
	}
}

func (s ShipmentStatus) String() string  { return name(s, getShipmentStatusStrings()) }
func (s ShipmentStatus) Validate() error { return validate(s, getShipmentStatusStrings()) }
func ParseShipmentStatus(str string) (ShipmentStatus, error) {
	return parse(str, getShipmentStatusStrings())
}
