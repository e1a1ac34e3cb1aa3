// Package commands contains the business operations that modify post-purchase state.
// Every handler follows the same shape: validate the command, open a unit of
// work, load aggregates, apply domain behaviour, persist, commit. Calls to the
// payment gateway are always made outside an open transaction.
package commands

import (
	"context"

	"postpurchase/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CancellationRepoFactory interface {
		CancellationRepository() ports.CancellationRepository
	}

	ReturnRepoFactory interface {
		ReturnRepository() ports.ReturnRepository
	}

	RefundRepoFactory interface {
		RefundRepository() ports.RefundRepository
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RefundUoW manages refund transactions. The order is only read, for the
	// payment reference refunds are sent against.
	RefundUoW interface {
		TxManager
		OrderRepoFactory
		RefundRepoFactory
	}

	RefundUoWFactory interface {
		Create() RefundUoW
	}

	// ShipmentUoW manages transactions for shipments, which are checked
	// against their order.
	ShipmentUoW interface {
		TxManager
		OrderRepoFactory
		ShipmentRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// RequestUoW spans everything a cancellation or return decision touches:
	// the order, both request kinds (eligibility counts both) and the refund
	// created on approval.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   cs, err := uow.CancellationRepository().ListByOrder(ctx, orderID)
	//   // ... decide, then write
	//
	//   err = uow.Commit(ctx)
	RequestUoW interface {
		TxManager
		OrderRepoFactory
		CancellationRepoFactory
		ReturnRepoFactory
		RefundRepoFactory
	}

	RequestUoWFactory interface {
		Create() RequestUoW
	}
)
