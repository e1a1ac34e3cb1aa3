// Package queries contains read operations for retrieving system state.
// Queries never modify aggregates and return read models shaped for callers.
package queries

import (
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
	"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery constructor",
)

// GetOrderDetailsQuery retrieves everything known about one order.
//
// Example:
//
//	query, err := NewGetOrderDetailsQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	details, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetOrderDetailsQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderDetailsQuery(orderID kernel.UUID) (GetOrderDetailsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	return GetOrderDetailsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

func (q GetOrderDetailsQuery) OrderID() kernel.UUID { return q.orderID }

// OrderDetails is the order read model. History holds the order's own status
// changes; Timeline holds every ledger entry recorded for the order, across
// all lifecycles, oldest first.
type OrderDetails struct {
	ID               kernel.UUID
	UserID           kernel.UUID
	Status           string
	PaymentMethod    string
	PaymentReference string
	ShippingAddress  string
	BillingAddress   string
	Subtotal         kernel.Money
	Discount         kernel.Money
	Tax              kernel.Money
	Shipping         kernel.Money
	Total            kernel.Money
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64

	Items         []OrderItemDetails
	History       []StatusChange
	Timeline      []StatusChange
	Cancellations []RequestDetails
	Returns       []RequestDetails
	Refunds       []RefundDetails
	Shipments     []ShipmentDetails
}

// OrderItemDetails carries the purchased line and how much of it is still
// free for a new cancellation or return.
type OrderItemDetails struct {
	ID          kernel.UUID
	ProductID   kernel.UUID
	ProductName string
	UnitPrice   kernel.Money
	Quantity    int
	Discount    kernel.Money
	LineTotal   kernel.Money
	Remaining   int
}

type StatusChange struct {
	Lifecycle   string
	AggregateID kernel.UUID
	From        string
	To          string
	Actor       string
	Remarks     string
	At          time.Time
}

// RequestDetails describes a cancellation or a return. Withdrawn requests
// are listed with Deleted set.
type RequestDetails struct {
	ID               kernel.UUID
	ReasonID         kernel.UUID
	Status           string
	IsPartial        bool
	Deleted          bool
	RequestedBy      string
	RequestedAt      time.Time
	ProcessedBy      string
	ProcessedAt      *time.Time
	Remarks          string
	DecisionRemarks  string
	RefundableAmount kernel.Money
	Items            []RequestItemDetails
}

type RequestItemDetails struct {
	OrderItemID      kernel.UUID
	Quantity         int
	RefundableAmount kernel.Money
	Remarks          string
}

type RefundDetails struct {
	ID                   kernel.UUID
	CancellationID       *kernel.UUID
	ReturnID             *kernel.UUID
	Status               string
	Base                 kernel.Money
	Discount             kernel.Money
	Tax                  kernel.Money
	Shipping             kernel.Money
	Total                kernel.Money
	PaymentMethod        string
	TransactionReference string
	FailureReason        string
	CompletedAt          *time.Time
	CreatedAt            time.Time
}

type ShipmentDetails struct {
	ID                  kernel.UUID
	Carrier             string
	TrackingNumber      string
	Status              string
	EstimatedDeliveryAt *time.Time
	DeliveredAt         *time.Time
	Items               map[kernel.UUID]int
}
