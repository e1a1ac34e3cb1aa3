package commands

import (
	"context"
	"time"
)

// DeleteCancellationCommandHandler soft-deletes a Pending cancellation; its
// quantities become available again.
type DeleteCancellationCommandHandler struct {
	uowFactory RequestUoWFactory
}

func NewDeleteCancellationCommandHandler(uowFactory RequestUoWFactory) DeleteCancellationCommandHandler {
	return DeleteCancellationCommandHandler{uowFactory: uowFactory}
}

func (h *DeleteCancellationCommandHandler) Handle(ctx context.Context, cmd DeleteCancellationCommand) error {
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

	requests := uow.CancellationRepository()
	c, err := requests.Get(ctx, cmd.CancellationID())
	if err != nil {
		return err
	}
	if err = c.Delete(time.Now()); err != nil {
		return err
	}
	if err = requests.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
