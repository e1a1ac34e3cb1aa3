package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"
)

// UpdateCancellationCommandHandler edits a Pending cancellation. Eligibility is
// recomputed without the request being edited, so its own quantities do not
// count against it.
type UpdateCancellationCommandHandler struct {
	uowFactory RequestUoWFactory
	masterData ports.MasterDataProvider
}

func NewUpdateCancellationCommandHandler(
	uowFactory RequestUoWFactory,
	masterData ports.MasterDataProvider,
) UpdateCancellationCommandHandler {
	return UpdateCancellationCommandHandler{uowFactory: uowFactory, masterData: masterData}
}

func (h *UpdateCancellationCommandHandler) Handle(ctx context.Context, cmd UpdateCancellationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkReason(ctx, h.masterData, masterdata.CancellationReason, cmd.ReasonID()); err != nil {
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
	if err = c.CheckPending("update"); err != nil {
		return err
	}

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, c.OrderID())
	if err != nil {
		return err
	}
	cs, rs, err := loadRequests(ctx, uow, o.ID())
	if err != nil {
		return err
	}
	eligibility := services.NewItemEligibility(o, cs, rs).Excluding(c.ID())
	if err = eligibility.Check(cmd.Lines()); err != nil {
		return err
	}

	items := make([]*cancellation.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		item, itemErr := cancellation.NewItem(kernel.NewUUID(), line.OrderItemID, line.Quantity)
		if itemErr != nil {
			return itemErr
		}
		items = append(items, item)
	}

	now := time.Now()
	if err = c.Update(cmd.ReasonID(), items, !eligibility.CoversRemainder(cmd.Lines()), cmd.Remarks(), now); err != nil {
		return err
	}

	o.Touch(now)
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = requests.Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
