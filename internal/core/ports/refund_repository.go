package ports

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/refund"
)

// RefundRepository defines the persistence contract for refunds.
type RefundRepository interface {
	Add(ctx context.Context, aggregate *refund.Refund) error
	Update(ctx context.Context, aggregate *refund.Refund) error
	Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error)
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error)

	// ListStuckProcessing returns at most limit refunds that have been
	// Processing since before the given time, oldest first.
	ListStuckProcessing(ctx context.Context, before time.Time, limit int) ([]*refund.Refund, error)
}
