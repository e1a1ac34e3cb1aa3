package commands

import (
	"context"
	"time"
)

// RejectReturnCommandHandler decides a return against the
// customer. No refund is created.
type RejectReturnCommandHandler struct {
	uowFactory RequestUoWFactory
}

func NewRejectReturnCommandHandler(uowFactory RequestUoWFactory) RejectReturnCommandHandler {
	return RejectReturnCommandHandler{uowFactory: uowFactory}
}

func (h *RejectReturnCommandHandler) Handle(ctx context.Context, cmd RejectReturnCommand) error {
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
	if err = r.Reject(cmd.Rejecter(), cmd.Remarks(), time.Now()); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
