package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"
)

func validateLines(lines []services.Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, line := range lines {
		if err := line.OrderItemID.Validate(); err != nil {
			return err
		}
		if line.Quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 1", line.Quantity))
		}
	}
	return nil
}

func requireActor(param, actor string) error {
	if strings.TrimSpace(actor) == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}

// checkReason fails with a validation error unless the reason exists for the
// workflow and is active.
func checkReason(ctx context.Context, md ports.MasterDataProvider, reasonType masterdata.ReasonType, id kernel.UUID) error {
	reason, err := md.GetReason(ctx, reasonType, id)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errs.NewValueIsInvalidErrorWithCause("reasonId", err)
		}
		return err
	}
	if !reason.IsActive {
		return errs.NewValueIsInvalidErrorWithCause("reasonId", fmt.Errorf("reason %s is inactive", reason.Code))
	}
	return nil
}

// loadRequests returns every cancellation and return of the order, as seen by the transaction.
func loadRequests(
	ctx context.Context,
	uow RequestUoW,
	orderID kernel.UUID,
) ([]*cancellation.Cancellation, []*returns.Return, error) {
	cs, err := uow.CancellationRepository().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	rs, err := uow.ReturnRepository().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return cs, rs, nil
}

// withCancellation puts c in place of its stored copy so that eligibility sees
// the in-memory state.
func withCancellation(cs []*cancellation.Cancellation, c *cancellation.Cancellation) []*cancellation.Cancellation {
	out := make([]*cancellation.Cancellation, 0, len(cs)+1)
	for _, existing := range cs {
		if !existing.ID().IsEqual(c.ID()) {
			out = append(out, existing)
		}
	}
	return append(out, c)
}

func withReturn(rs []*returns.Return, r *returns.Return) []*returns.Return {
	out := make([]*returns.Return, 0, len(rs)+1)
	for _, existing := range rs {
		if !existing.ID().IsEqual(r.ID()) {
			out = append(out, existing)
		}
	}
	return append(out, r)
}

func cancellationLines(c *cancellation.Cancellation) []services.Line {
	lines := make([]services.Line, 0, len(c.Items()))
	for _, item := range c.Items() {
		lines = append(lines, services.Line{OrderItemID: item.OrderItemID(), Quantity: item.Quantity()})
	}
	return lines
}

func returnLines(r *returns.Return) []services.Line {
	lines := make([]services.Line, 0, len(r.Items()))
	for _, item := range r.Items() {
		lines = append(lines, services.Line{OrderItemID: item.OrderItemID(), Quantity: item.Quantity()})
	}
	return lines
}
