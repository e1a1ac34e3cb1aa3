package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"
)

// RequestCancellationCommandHandler creates Pending cancellations.
//
// The order must still be cancellable according to the order status graph and,
// when it names a cancellation policy, be inside the policy window counted from
// the order date. Requested quantities are checked against what remains of each
// item after other Pending and Approved cancellations and returns.
//
// The order is written back with a new version in the same transaction, so two
// requests racing for the same quantity cannot both commit.
type RequestCancellationCommandHandler struct {
	uowFactory RequestUoWFactory
	masterData ports.MasterDataProvider
}

func NewRequestCancellationCommandHandler(
	uowFactory RequestUoWFactory,
	masterData ports.MasterDataProvider,
) RequestCancellationCommandHandler {
	return RequestCancellationCommandHandler{uowFactory: uowFactory, masterData: masterData}
}

func (h *RequestCancellationCommandHandler) Handle(ctx context.Context, cmd RequestCancellationCommand) error {
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

	now := time.Now()
	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = h.checkCancellable(ctx, o, now); err != nil {
		return err
	}

	cs, rs, err := loadRequests(ctx, uow, o.ID())
	if err != nil {
		return err
	}
	eligibility := services.NewItemEligibility(o, cs, rs)
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

	c, err := cancellation.NewCancellation(
		cmd.CancellationID(), o.ID(), cmd.ReasonID(), items,
		!eligibility.CoversRemainder(cmd.Lines()),
		cmd.RequestedBy(), cmd.Remarks(), now,
	)
	if err != nil {
		return err
	}

	o.Touch(now)
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = uow.CancellationRepository().Add(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *RequestCancellationCommandHandler) checkCancellable(ctx context.Context, o *order.Order, now time.Time) error {
	const operation = "request cancellation"

	if !o.CanMoveTo(order.Cancelled) {
		return errs.NewInvalidStateError("order", o.Status().String(), operation)
	}
	policyID := o.CancellationPolicyID()
	if policyID == nil {
		return nil
	}
	policy, err := h.masterData.GetCancellationPolicy(ctx, *policyID)
	if err != nil {
		return err
	}
	if !policy.Allows(o.CreatedAt(), now) {
		return errs.NewInvalidStateError("order", o.Status().String(), operation+" after the "+policy.Name+" window")
	}
	return nil
}
