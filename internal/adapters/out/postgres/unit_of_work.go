// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains a list of objects affected by a business
// transaction and coordinates writing out changes and resolving concurrency problems.
//
// Every aggregate written through a repository of the unit of work is tracked.
// On Commit the status changes those aggregates recorded are appended to the
// status ledger inside the same transaction, so a status change and its audit
// entry are stored together or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.RefundRepository().Update(ctx, r); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Lost updates are prevented by the version column, not by locks
package postgres

import (
	"context"

	"postpurchase/internal/adapters/out/postgres/cancellationrepo"
	"postpurchase/internal/adapters/out/postgres/ledgerrepo"
	"postpurchase/internal/adapters/out/postgres/masterdatarepo"
	"postpurchase/internal/adapters/out/postgres/orderrepo"
	"postpurchase/internal/adapters/out/postgres/refundrepo"
	"postpurchase/internal/adapters/out/postgres/returnrepo"
	"postpurchase/internal/adapters/out/postgres/shipmentrepo"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/ledger"
	"postpurchase/internal/core/ports"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the adapters use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&cancellationrepo.CancellationDTO{},
		&cancellationrepo.ItemDTO{},
		&returnrepo.ReturnDTO{},
		&returnrepo.ItemDTO{},
		&refundrepo.RefundDTO{},
		&refundrepo.ItemDTO{},
		&shipmentrepo.ShipmentDTO{},
		&shipmentrepo.ItemDTO{},
		&ledgerrepo.EntryDTO{},
		&masterdatarepo.ReasonDTO{},
		&masterdatarepo.PolicyDTO{},
	)
}

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction and tracks the aggregates
// written in it. Repositories obtained before Begin, or after Commit or
// Rollback, run directly against the database.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit appends the pending ledger entries of every tracked aggregate and
// commits. The entries are cleared from the aggregates only once the commit
// succeeded. When appending fails the transaction is rolled back.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	recorders, entries := uow.pendingEntries()
	if len(entries) > 0 {
		if err := ledgerrepo.NewGormLedgerRepository(uow.tx).Append(ctx, entries...); err != nil {
			_ = uow.Rollback(ctx)
			return err
		}
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	for _, r := range recorders {
		r.ClearPendingEntries()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards all changes made within the current transaction.
// Pending ledger entries stay on the aggregates.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CancellationRepository() ports.CancellationRepository {
	return cancellationrepo.NewGormCancellationRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ReturnRepository() ports.ReturnRepository {
	return returnrepo.NewGormReturnRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) RefundRepository() ports.RefundRepository {
	return refundrepo.NewGormRefundRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

// LedgerRepository gives direct access to the ledger. Entries recorded by
// aggregates do not need to be appended through it; Commit does that.
func (uow *GormUnitOfWork) LedgerRepository() ports.LedgerRepository {
	return ledgerrepo.NewGormLedgerRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// This method is called by repository implementations when aggregates are
// added or updated.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// pendingEntries collects the entries of tracked recorders once each, even
// when an aggregate was written more than once.
func (uow *GormUnitOfWork) pendingEntries() ([]ledger.Recorder, []ledger.Entry) {
	var (
		recorders []ledger.Recorder
		entries   []ledger.Entry
		seenAgg   = make(map[any]struct{})
		seenEntry = make(map[kernel.UUID]struct{})
	)
	for _, tracked := range uow.trackedAggregates {
		recorder, ok := tracked.Aggregate.(ledger.Recorder)
		if !ok {
			continue
		}
		if _, dup := seenAgg[tracked.Aggregate]; dup {
			continue
		}
		seenAgg[tracked.Aggregate] = struct{}{}
		recorders = append(recorders, recorder)

		for _, e := range recorder.PendingEntries() {
			if _, dup := seenEntry[e.ID()]; dup {
				continue
			}
			seenEntry[e.ID()] = struct{}{}
			entries = append(entries, e)
		}
	}
	return recorders, entries
}
