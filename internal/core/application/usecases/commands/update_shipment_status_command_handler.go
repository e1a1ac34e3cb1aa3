package commands

import (
	"context"
	"time"
)

// UpdateShipmentStatusCommandHandler moves a shipment along the shipment graph.
// The order status is not touched; keeping both consistent is up to the caller.
type UpdateShipmentStatusCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewUpdateShipmentStatusCommandHandler(uowFactory ShipmentUoWFactory) UpdateShipmentStatusCommandHandler {
	return UpdateShipmentStatusCommandHandler{uowFactory: uowFactory}
}

func (h *UpdateShipmentStatusCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentStatusCommand) error {
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

	repo := uow.ShipmentRepository()
	s, err := repo.Get(ctx, cmd.ShipmentID())
	if err != nil {
		return err
	}

	changed, err := s.ChangeStatus(cmd.Status(), cmd.Actor(), cmd.EstimatedDeliveryAt(), time.Now())
	if err != nil || !changed {
		return err
	}
	if err = repo.Update(ctx, s); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
