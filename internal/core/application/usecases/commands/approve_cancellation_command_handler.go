package commands

import (
	"context"
	"time"

	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/errs"
)

// ApproveCancellationCommandHandler decides a cancellation in favour of the
// customer. In one transaction it
//   - prices the cancelled lines with the RefundCalculator
//   - stores the refundable amounts on the cancellation
//   - creates the Pending refund
//   - moves the order to Cancelled once nothing of it is left
//
// The order is written on every approval, so approvals against the same order
// race on the order version and the loser gets errs.ErrConcurrencyConflict.
// A loser that read the request after the winner committed gets
// errs.ErrInvalidState instead.
type ApproveCancellationCommandHandler struct {
	uowFactory RequestUoWFactory
	calculator services.RefundCalculator
}

func NewApproveCancellationCommandHandler(
	uowFactory RequestUoWFactory,
	calculator services.RefundCalculator,
) ApproveCancellationCommandHandler {
	return ApproveCancellationCommandHandler{uowFactory: uowFactory, calculator: calculator}
}

func (h *ApproveCancellationCommandHandler) Handle(ctx context.Context, cmd ApproveCancellationCommand) error {
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
	if err = c.CheckPending("approve"); err != nil {
		return err
	}

	orders := uow.OrderRepository()
	o, err := orders.Get(ctx, c.OrderID())
	if err != nil {
		return err
	}
	if o.Status() != order.Cancelled && !o.CanMoveTo(order.Cancelled) {
		return errs.NewInvalidStateError("order", o.Status().String(), "approve cancellation")
	}
	cs, rs, err := loadRequests(ctx, uow, o.ID())
	if err != nil {
		return err
	}

	lines := cancellationLines(c)
	eligibility := services.NewItemEligibility(o, withCancellation(cs, c), rs)
	cancelsAll := eligibility.CompletesCancellation(lines)
	quote, err := h.calculator.Calculate(o, lines, eligibility.ApprovedQuantities(), cancelsAll)
	if err != nil {
		return err
	}

	now := time.Now()
	if err = c.Approve(cmd.Approver(), quote.Total, quote.Amounts(), cmd.Remarks(), now); err != nil {
		return err
	}
	items, err := quote.RefundItems()
	if err != nil {
		return err
	}
	r, err := refund.NewRefund(cmd.RefundID(), o.ID(), refund.FromCancellation(c.ID()),
		quote.Breakdown, items, o.PaymentMethod(), now)
	if err != nil {
		return err
	}

	if cancelsAll && o.CanMoveTo(order.Cancelled) {
		if _, err = o.ChangeStatus(order.Cancelled, cmd.Approver(), "all items cancelled", now); err != nil {
			return err
		}
	} else {
		o.Touch(now)
	}
	if err = orders.Update(ctx, o); err != nil {
		return err
	}
	if err = requests.Update(ctx, c); err != nil {
		return err
	}
	if err = uow.RefundRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
