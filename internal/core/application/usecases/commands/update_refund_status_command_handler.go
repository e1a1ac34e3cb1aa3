package commands

import (
	"context"
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/lifecycle"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"
)

const gatewayTimeoutReason = "payment gateway timed out"

// UpdateRefundStatusCommandHandler drives a refund through its status graph.
//
// Moving to Processing sends the money: the refund is read and checked without
// a transaction, the gateway is called with the refund id as idempotency key,
// and the outcome is committed in a short transaction afterwards:
//   - accepted: Processing with the gateway transaction reference
//   - declined: Processing, then Failed with the gateway reason
//   - timed out: Processing, then Failed, and an ExternalDependency error
//   - any other gateway error: nothing is written, ExternalDependency error
//
// Every other move applies the requested changes together with the status.
type UpdateRefundStatusCommandHandler struct {
	uowFactory RefundUoWFactory
	gateway    ports.PaymentGateway
}

func NewUpdateRefundStatusCommandHandler(
	uowFactory RefundUoWFactory,
	gateway ports.PaymentGateway,
) UpdateRefundStatusCommandHandler {
	return UpdateRefundStatusCommandHandler{uowFactory: uowFactory, gateway: gateway}
}

func (h *UpdateRefundStatusCommandHandler) Handle(ctx context.Context, cmd UpdateRefundStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	reader := h.uowFactory.Create()
	r, err := reader.RefundRepository().Get(ctx, cmd.RefundID())
	if err != nil {
		return err
	}
	if r.Status() == cmd.Status() {
		return nil
	}
	if err = lifecycle.Refunds().Check(r.Status(), cmd.Status()); err != nil {
		return err
	}

	if cmd.Status() != refund.Processing {
		return h.apply(ctx, cmd, func(r *refund.Refund, now time.Time) (bool, error) {
			return r.ChangeStatus(cmd.Status(), cmd.Changes(), cmd.Actor(), now)
		})
	}

	o, err := reader.OrderRepository().Get(ctx, r.OrderID())
	if err != nil {
		return err
	}
	if o.PaymentReference() == "" {
		return errs.NewInvalidStateError("order", "Unpaid", "refund")
	}

	result, gatewayErr := h.gateway.InitiateRefund(ctx, ports.RefundRequest{
		RefundID:         r.ID(),
		PaymentReference: o.PaymentReference(),
		Amount:           r.Total(),
		Reason:           r.Source().String(),
		IdempotencyKey:   r.ID().String(),
	})
	timedOut := errors.Is(gatewayErr, ports.ErrGatewayTimeout)
	if gatewayErr != nil && !timedOut {
		return errs.NewExternalDependencyError(paymentGateway, "initiate refund", gatewayErr)
	}

	changes := cmd.Changes()
	if result.TransactionReference != "" {
		reference := result.TransactionReference
		changes.TransactionReference = &reference
	}

	err = h.apply(ctx, cmd, func(r *refund.Refund, now time.Time) (bool, error) {
		processing, err := r.ChangeStatus(refund.Processing, changes, cmd.Actor(), now)
		if err != nil || (result.Succeeded && !timedOut) {
			return processing, err
		}
		reason := result.FailureReason
		if timedOut {
			reason = gatewayTimeoutReason
		}
		failed, err := r.ChangeStatus(refund.Failed, refund.Changes{FailureReason: &reason}, cmd.Actor(), now)
		return processing || failed, err
	})
	if err != nil {
		return err
	}

	if timedOut {
		return errs.NewExternalDependencyError(paymentGateway, "initiate refund", gatewayErr)
	}
	return nil
}

// apply runs mutate on a fresh copy of the refund in its own transaction.
// Nothing is written when mutate reports no change, e.g. when a concurrent
// caller already made the move.
func (h *UpdateRefundStatusCommandHandler) apply(
	ctx context.Context,
	cmd UpdateRefundStatusCommand,
	mutate func(r *refund.Refund, now time.Time) (bool, error),
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.RefundRepository()
	r, err := repo.Get(ctx, cmd.RefundID())
	if err != nil {
		return err
	}
	changed, err := mutate(r, time.Now())
	if err != nil || !changed {
		return err
	}
	if err = repo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
