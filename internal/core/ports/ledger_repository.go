package ports

import (
	"context"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
)

// LedgerRepository is the append-only store of status changes. Entries are
// never changed or removed.
type LedgerRepository interface {
	// Append stores entries. Appending an entry whose id is already stored is a no-op.
	Append(ctx context.Context, entries ...ledger.Entry) error

	// ListByOrder returns every entry of every lifecycle that belongs to the
	// order, in chronological order.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]ledger.Entry, error)
}
