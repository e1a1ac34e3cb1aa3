package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"
)

// RequestReturnCommandHandler creates Pending returns. Only Delivered orders
// can be returned, and only inside the return policy window counted from the
// delivery. Quantities follow the same eligibility rules as cancellations.
type RequestReturnCommandHandler struct {
	uowFactory RequestUoWFactory
	masterData ports.MasterDataProvider
}

func NewRequestReturnCommandHandler(
	uowFactory RequestUoWFactory,
	masterData ports.MasterDataProvider,
) RequestReturnCommandHandler {
	return RequestReturnCommandHandler{uowFactory: uowFactory, masterData: masterData}
}

func (h *RequestReturnCommandHandler) Handle(ctx context.Context, cmd RequestReturnCommand) error {
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

	now := time.Now()
	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = h.checkReturnable(ctx, o, now); err != nil {
		return err
	}

	cs, rs, err := loadRequests(ctx, uow, o.ID())
	if err != nil {
		return err
	}
	lines := toServiceLines(cmd.Lines())
	eligibility := services.NewItemEligibility(o, cs, rs)
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

	r, err := returns.NewReturn(
		cmd.ReturnID(), o.ID(), cmd.ReasonID(), items,
		!eligibility.CoversRemainder(lines),
		cmd.RequestedBy(), cmd.Remarks(), now,
	)
	if err != nil {
		return err
	}

	o.Touch(now)
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = uow.ReturnRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *RequestReturnCommandHandler) checkReturnable(ctx context.Context, o *order.Order, now time.Time) error {
	const operation = "request return"

	deliveredAt, delivered := o.DeliveredAt()
	if o.Status() != order.Delivered || !delivered {
		return errs.NewInvalidStateError("order", o.Status().String(), operation)
	}
	policyID := o.ReturnPolicyID()
	if policyID == nil {
		return nil
	}
	policy, err := h.masterData.GetReturnPolicy(ctx, *policyID)
	if err != nil {
		return err
	}
	if !policy.Allows(deliveredAt, now) {
		return errs.NewInvalidStateError("order", o.Status().String(), operation+" after the "+policy.Name+" window")
	}
	return nil
}
