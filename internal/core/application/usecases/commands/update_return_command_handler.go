package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"
)

type UpdateReturnCommandHandler struct {
	uowFactory RequestUoWFactory
	masterData ports.MasterDataProvider
}

func NewUpdateReturnCommandHandler(
	uowFactory RequestUoWFactory,
	masterData ports.MasterDataProvider,
) UpdateReturnCommandHandler {
	return UpdateReturnCommandHandler{uowFactory: uowFactory, masterData: masterData}
}

func (h *UpdateReturnCommandHandler) Handle(ctx context.Context, cmd UpdateReturnCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := checkReason(ctx, h.masterData, masterdata.ReturnReason, cmd.ReasonID()); err != nil {
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
	if err = r.CheckPending("update"); err != nil {
		return err
	}

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, r.OrderID())
	if err != nil {
		return err
	}
	cs, rs, err := loadRequests(ctx, uow, o.ID())
	if err != nil {
		return err
	}
	lines := toServiceLines(cmd.Lines())
	eligibility := services.NewItemEligibility(o, cs, rs).Excluding(r.ID())
	if err = eligibility.Check(lines); err != nil {
		return err
	}

	items := make([]*returns.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		item, itemErr := returns.NewItem(kernel.NewUUID(), line.OrderItemID, line.Quantity, line.Remarks)
		if itemErr != nil {
			return itemErr
		}
		items = append(items, item)
	}

	now := time.Now()
	if err = r.Update(cmd.ReasonID(), items, !eligibility.CoversRemainder(lines), cmd.Remarks(), now); err != nil {
		return err
	}

	o.Touch(now)
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
