package ports

import (
	"context"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/returns"
)

// CancellationRepository defines the persistence contract for cancellation requests.
// Update follows the same versioning rules as OrderRepository.Update and
// synchronises the item set: stored items missing from the aggregate are removed.
type CancellationRepository interface {
	Add(ctx context.Context, aggregate *cancellation.Cancellation) error
	Update(ctx context.Context, aggregate *cancellation.Cancellation) error
	Get(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error)

	// ListByOrder returns every cancellation of the order, including soft-deleted
	// and decided ones, oldest first.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*cancellation.Cancellation, error)
}

// ReturnRepository is the return counterpart of CancellationRepository.
type ReturnRepository interface {
	Add(ctx context.Context, aggregate *returns.Return) error
	Update(ctx context.Context, aggregate *returns.Return) error
	Get(ctx context.Context, id kernel.UUID) (*returns.Return, error)
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*returns.Return, error)
}
