package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrApproveReturnCommandIsNotConstructed = errors.New(
	"ApproveReturnCommand must be created via NewApproveReturnCommand constructor",
)

// ApproveReturnCommand approves a Pending return. RefundID is the
// identity given to the refund created by the approval.
type ApproveReturnCommand struct { //nolint:recvcheck //using for validation
	returnID kernel.UUID
	refundID kernel.UUID
	approver string
	remarks  string

	guard guard.ConstructorGuard
}

func NewApproveReturnCommand(
	returnID, refundID kernel.UUID,
	approver, remarks string,
) (ApproveReturnCommand, error) {
	if err := errors.Join(returnID.Validate(), refundID.Validate(), requireActor("approver", approver)); err != nil {
		return ApproveReturnCommand{}, err
	}

	return ApproveReturnCommand{
		returnID: returnID,
		refundID: refundID,
		approver: approver,
		remarks:  remarks,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ApproveReturnCommand) Validate() error {
	return c.guard.Validate(ErrApproveReturnCommandIsNotConstructed)
}

func (c ApproveReturnCommand) ReturnID() kernel.UUID { return c.returnID }
func (c ApproveReturnCommand) RefundID() kernel.UUID { return c.refundID }
func (c ApproveReturnCommand) Approver() string      { return c.approver }
func (c ApproveReturnCommand) Remarks() string       { return c.remarks }
