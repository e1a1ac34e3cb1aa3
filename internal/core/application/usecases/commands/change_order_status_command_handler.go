package commands

import (
	"context"
	"time"
)

// ChangeOrderStatusCommandHandler applies a status change and its history
// entry atomically. Requesting the current status is a successful no-op that
// writes nothing.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{uowFactory: uowFactory}
}

func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
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

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	changed, err := o.ChangeStatus(cmd.Status(), cmd.Actor(), cmd.Remarks(), time.Now())
	if err != nil || !changed {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
