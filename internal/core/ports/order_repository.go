// Package ports defines the contracts between the post-purchase domain and its
// infrastructure: repositories bound to a unit of work, read-only master data,
// and the payment gateway.
package ports

import (
	"context"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The write succeeds only when
	// the stored version equals aggregate.Version(); otherwise it fails with
	// errs.ErrConcurrencyConflict and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items and status history.
	// Returns errs.ErrObjectNotFound for unknown or soft-deleted orders.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
