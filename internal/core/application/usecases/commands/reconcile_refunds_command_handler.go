package commands

import (
	"context"
	"errors"
	"time"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"
)

const reconcileActor = "reconciliation"

// ReconcileRefundsResult counts what one reconciliation pass did.
type ReconcileRefundsResult struct {
	Completed int
	Failed    int
	Skipped   int
}

// ReconcileRefundsCommandHandler asks the gateway about refunds stuck in
// Processing. Settled refunds become Completed and refunds the gateway still
// reports as pending are left for a later pass. Everything else becomes
// Failed. Each
// refund is resolved in its own transaction; one that changed concurrently is
// skipped and picked up by a later pass if still stuck.
type ReconcileRefundsCommandHandler struct {
	uowFactory RefundUoWFactory
	gateway    ports.PaymentGateway
}

func NewReconcileRefundsCommandHandler(
	uowFactory RefundUoWFactory,
	gateway ports.PaymentGateway,
) ReconcileRefundsCommandHandler {
	return ReconcileRefundsCommandHandler{uowFactory: uowFactory, gateway: gateway}
}

// Handle returns the pass summary together with the joined errors of refunds
// that could not be resolved.
func (h *ReconcileRefundsCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileRefundsCommand,
) (ReconcileRefundsResult, error) {
	var result ReconcileRefundsResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	stuck, err := h.uowFactory.Create().RefundRepository().
		ListStuckProcessing(ctx, time.Now().Add(-cmd.Deadline()), cmd.BatchSize())
	if err != nil {
		return result, err
	}

	var failures []error
	for _, r := range stuck {
		to, reason, err := h.verdict(ctx, r)
		if err != nil {
			result.Skipped++
			failures = append(failures, err)
			continue
		}
		if to == refund.Processing {
			result.Skipped++
			continue
		}

		err = h.resolve(ctx, r.ID(), to, reason)
		switch {
		case errors.Is(err, errs.ErrConcurrencyConflict), errors.Is(err, errs.ErrInvalidTransition):
			result.Skipped++
		case err != nil:
			result.Skipped++
			failures = append(failures, err)
		case to == refund.Completed:
			result.Completed++
		default:
			result.Failed++
		}
	}

	return result, errors.Join(failures...)
}

func (h *ReconcileRefundsCommandHandler) verdict(ctx context.Context, r *refund.Refund) (refund.Status, string, error) {
	if r.TransactionReference() == "" {
		return refund.Failed, "no transaction reference", nil
	}
	info, err := h.gateway.GetPaymentInfo(ctx, r.TransactionReference())
	if err != nil {
		return refund.Unknown, "", errs.NewExternalDependencyError(paymentGateway, "get payment info", err)
	}
	switch info.Status {
	case ports.PaymentSucceeded:
		return refund.Completed, "", nil
	case ports.PaymentPending:
		return refund.Processing, "", nil
	}
	return refund.Failed, "gateway reports " + info.Status.String(), nil
}

func (h *ReconcileRefundsCommandHandler) resolve(ctx context.Context, id kernel.UUID, to refund.Status, reason string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.RefundRepository()
	r, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	var changes refund.Changes
	if reason != "" {
		changes.FailureReason = &reason
	}
	changed, err := r.ChangeStatus(to, changes, reconcileActor, time.Now())
	if err != nil || !changed {
		return err
	}
	if err = repo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
