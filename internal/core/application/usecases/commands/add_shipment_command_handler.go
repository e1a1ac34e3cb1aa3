package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/shipment"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/errs"
)

// AddShipmentCommandHandler creates Pending shipments. Every line must belong
// to the order, and the quantity of an item across all shipments that were not
// cancelled never exceeds what was purchased.
type AddShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewAddShipmentCommandHandler(uowFactory ShipmentUoWFactory) AddShipmentCommandHandler {
	return AddShipmentCommandHandler{uowFactory: uowFactory}
}

func (h *AddShipmentCommandHandler) Handle(ctx context.Context, cmd AddShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.Status() == order.Cancelled || o.Status() == order.Returned {
		return errs.NewInvalidStateError("order", o.Status().String(), "add shipment")
	}

	shipments := uow.ShipmentRepository()
	existing, err := shipments.ListByOrder(ctx, o.ID())
	if err != nil {
		return err
	}
	if err = checkShippable(o, existing, cmd.Lines()); err != nil {
		return err
	}

	items := make([]*shipment.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		item, itemErr := shipment.NewItem(kernel.NewUUID(), line.OrderItemID, line.Quantity)
		if itemErr != nil {
			return itemErr
		}
		items = append(items, item)
	}

	now := time.Now()
	s, err := shipment.NewShipment(cmd.ShipmentID(), o.ID(), cmd.Carrier(), cmd.TrackingNumber(),
		items, cmd.EstimatedDeliveryAt(), now)
	if err != nil {
		return err
	}

	o.Touch(now)
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = shipments.Add(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func checkShippable(o *order.Order, existing []*shipment.Shipment, lines []services.Line) error {
	shipped := make(map[kernel.UUID]int)
	for _, s := range existing {
		if s.Status() == shipment.Cancelled {
			continue
		}
		for _, item := range s.Items() {
			shipped[item.OrderItemID()] += item.Quantity()
		}
	}

	for _, line := range lines {
		item, err := o.Item(line.OrderItemID)
		if err != nil {
			return err
		}
		if left := item.Quantity() - shipped[item.ID()]; line.Quantity > left {
			return errs.NewValueIsOutOfRangeError("quantity", line.Quantity, 1, left)
		}
	}
	return nil
}
