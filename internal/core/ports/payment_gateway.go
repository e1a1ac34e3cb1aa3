package ports

import (
	"context"
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
)

// ErrGatewayTimeout is wrapped by gateway adapters when a call ran out of time
// and its outcome is unknown.
var ErrGatewayTimeout = errors.New("payment gateway timed out")

type PaymentStatus int

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentPending
	PaymentSucceeded
	PaymentFailed
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentSucceeded:
		return "Succeeded"
	case PaymentFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

type PaymentRequest struct {
	OrderID        kernel.UUID
	Amount         kernel.Money
	Method         string
	IdempotencyKey string
}

type PaymentResult struct {
	Reference string
	Status    PaymentStatus
}

// PaymentInfo describes a payment or refund transaction known to the gateway.
type PaymentInfo struct {
	Reference      string
	Status         PaymentStatus
	Amount         kernel.Money
	RefundedAmount kernel.Money
}

type RefundRequest struct {
	RefundID         kernel.UUID
	PaymentReference string
	Amount           kernel.Money
	Reason           string
	IdempotencyKey   string
}

// RefundResult is the gateway verdict on a refund. Succeeded == false with a
// nil error means the gateway explicitly declined the refund.
type RefundResult struct {
	Succeeded            bool
	TransactionReference string
	FailureReason        string
}

// PaymentGateway moves money through an external provider. Every method is a
// network call; implementations may retry transient failures a bounded number
// of times and wrap ErrGatewayTimeout when the deadline is exceeded.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
	GetPaymentInfo(ctx context.Context, reference string) (PaymentInfo, error)
	InitiateRefund(ctx context.Context, req RefundRequest) (RefundResult, error)
}
