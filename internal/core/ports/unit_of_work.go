package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Repositories obtained from it share the transaction started by Begin.
// Ledger entries pending on aggregates written through those repositories are
// appended to the ledger by Commit, inside the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	CancellationRepository() CancellationRepository
	ReturnRepository() ReturnRepository
	RefundRepository() RefundRepository
	ShipmentRepository() ShipmentRepository
	LedgerRepository() LedgerRepository
}
