package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/domain/services"
)

// ApproveReturnCommandHandler accepts a return and creates its refund in the
// same transaction. Shipping is never refunded for returns. When approved
// cancellations and returns together cover the whole order, the order moves
// to Returned. The order is written on every approval so that approvals
// against the same order conflict on its version.
type ApproveReturnCommandHandler struct {
	uowFactory RequestUoWFactory
	calculator services.RefundCalculator
}

func NewApproveReturnCommandHandler(
	uowFactory RequestUoWFactory,
	calculator services.RefundCalculator,
) ApproveReturnCommandHandler {
	return ApproveReturnCommandHandler{uowFactory: uowFactory, calculator: calculator}
}

func (h *ApproveReturnCommandHandler) Handle(ctx context.Context, cmd ApproveReturnCommand) error {
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
	if err = r.CheckPending("approve"); err != nil {
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
	rs = withReturn(rs, r)

	approved := services.NewItemEligibility(o, cs, rs).ApprovedQuantities()
	quote, err := h.calculator.Calculate(o, returnLines(r), approved, false)
	if err != nil {
		return err
	}

	now := time.Now()
	if err = r.Approve(cmd.Approver(), quote.Total, quote.Amounts(), cmd.Remarks(), now); err != nil {
		return err
	}
	items, err := quote.RefundItems()
	if err != nil {
		return err
	}
	rf, err := refund.NewRefund(cmd.RefundID(), o.ID(), refund.FromReturn(r.ID()),
		quote.Breakdown, items, o.PaymentMethod(), now)
	if err != nil {
		return err
	}

	if services.NewItemEligibility(o, cs, rs).FullyReturned() && o.CanMoveTo(order.Returned) {
		if _, err = o.ChangeStatus(order.Returned, cmd.Approver(), "all items returned", now); err != nil {
			return err
		}
	} else {
		o.Touch(now)
	}
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = requests.Update(ctx, r); err != nil {
		return err
	}
	if err = uow.RefundRepository().Add(ctx, rf); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
