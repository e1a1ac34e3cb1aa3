package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrApproveCancellationCommandIsNotConstructed = errors.New(
	"ApproveCancellationCommand must be created via NewApproveCancellationCommand constructor",
)

// ApproveCancellationCommand approves a Pending cancellation. RefundID is the
// identity given to the refund created by the approval.
type ApproveCancellationCommand struct { //nolint:recvcheck //using for validation
	cancellationID kernel.UUID
	refundID       kernel.UUID
	approver       string
	remarks        string

	guard guard.ConstructorGuard
}

func NewApproveCancellationCommand(
	cancellationID, refundID kernel.UUID,
	approver, remarks string,
) (ApproveCancellationCommand, error) {
	if err := errors.Join(cancellationID.Validate(), refundID.Validate(), requireActor("approver", approver)); err != nil {
		return ApproveCancellationCommand{}, err
	}

	return ApproveCancellationCommand{
		cancellationID: cancellationID,
		refundID:       refundID,
		approver:       approver,
		remarks:        remarks,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c ApproveCancellationCommand) Validate() error {
	return c.guard.Validate(ErrApproveCancellationCommandIsNotConstructed)
}

func (c ApproveCancellationCommand) CancellationID() kernel.UUID { return c.cancellationID }
func (c ApproveCancellationCommand) RefundID() kernel.UUID       { return c.refundID }
func (c ApproveCancellationCommand) Approver() string            { return c.approver }
func (c ApproveCancellationCommand) Remarks() string             { return c.remarks }
