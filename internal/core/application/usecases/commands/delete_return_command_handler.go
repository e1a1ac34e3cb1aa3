package commands

import (
	"context"
	"time"
)

// DeleteReturnCommandHandler soft-deletes a Pending return; its
// quantities become available again.
type DeleteReturnCommandHandler struct {
	uowFactory RequestUoWFactory
}

func NewDeleteReturnCommandHandler(uowFactory RequestUoWFactory) DeleteReturnCommandHandler {
	return DeleteReturnCommandHandler{uowFactory: uowFactory}
}

func (h *DeleteReturnCommandHandler) Handle(ctx context.Context, cmd DeleteReturnCommand) error {
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

	requests := uow.ReturnRepository()
	r, err := requests.Get(ctx, cmd.ReturnID())
	if err != nil {
		return err
	}
	if err = r.Delete(time.Now()); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
