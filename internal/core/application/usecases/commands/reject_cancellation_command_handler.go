package commands

import (
	"context"
	"time"
)

// RejectCancellationCommandHandler decides a cancellation against the
// customer. No refund is created.
type RejectCancellationCommandHandler struct {
	uowFactory RequestUoWFactory
}

func NewRejectCancellationCommandHandler(uowFactory RequestUoWFactory) RejectCancellationCommandHandler {
	return RejectCancellationCommandHandler{uowFactory: uowFactory}
}

func (h *RejectCancellationCommandHandler) Handle(ctx context.Context, cmd RejectCancellationCommand) error {
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
	if err = c.Reject(cmd.Rejecter(), cmd.Remarks(), time.Now()); err != nil {
		return err
	}
	if err = requests.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
