package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
)

// CreateOrderCommandHandler registers new orders in Pending status.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle builds the order aggregate, which computes subtotal and total, and
// persists it in one transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items := make([]*order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		item, err := order.NewItem(kernel.NewUUID(), line.ProductID, line.ProductName, line.UnitPrice, line.Quantity, line.Discount)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.UserID(), items, cmd.Checkout(), time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
