package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/pkg/guard"
)

var ErrUpdateRefundStatusCommandIsNotConstructed = errors.New(
	"UpdateRefundStatusCommand must be created via NewUpdateRefundStatusCommand constructor",
)

// UpdateRefundStatusCommand moves a refund to a new status, optionally changing
// its transaction reference, amounts or payment method in the same step.
type UpdateRefundStatusCommand struct { //nolint:recvcheck //using for validation
	refundID kernel.UUID
	status   refund.Status
	actor    string
	changes  refund.Changes

	guard guard.ConstructorGuard
}

func NewUpdateRefundStatusCommand(
	refundID kernel.UUID,
	status refund.Status,
	actor string,
	changes refund.Changes,
) (UpdateRefundStatusCommand, error) {
	if err := errors.Join(refundID.Validate(), status.Validate(), requireActor("actor", actor)); err != nil {
		return UpdateRefundStatusCommand{}, err
	}

	return UpdateRefundStatusCommand{
		refundID: refundID,
		status:   status,
		actor:    actor,
		changes:  changes,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateRefundStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRefundStatusCommandIsNotConstructed)
}

func (c UpdateRefundStatusCommand) RefundID() kernel.UUID   { return c.refundID }
func (c UpdateRefundStatusCommand) Status() refund.Status   { return c.status }
func (c UpdateRefundStatusCommand) Actor() string           { return c.actor }
func (c UpdateRefundStatusCommand) Changes() refund.Changes { return c.changes }
