package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrRejectReturnCommandIsNotConstructed = errors.New(
	"RejectReturnCommand must be created via NewRejectReturnCommand constructor",
)

type RejectReturnCommand struct { //nolint:recvcheck //using for validation
	returnID kernel.UUID
	rejecter string
	remarks  string

	guard guard.ConstructorGuard
}

func NewRejectReturnCommand(returnID kernel.UUID, rejecter, remarks string) (RejectReturnCommand, error) {
	if err := errors.Join(returnID.Validate(), requireActor("rejecter", rejecter)); err != nil {
		return RejectReturnCommand{}, err
	}

	return RejectReturnCommand{
		returnID: returnID,
		rejecter: rejecter,
		remarks:  remarks,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RejectReturnCommand) Validate() error {
	return c.guard.Validate(ErrRejectReturnCommandIsNotConstructed)
}

func (c RejectReturnCommand) ReturnID() kernel.UUID { return c.returnID }
func (c RejectReturnCommand) Rejecter() string      { return c.rejecter }
func (c RejectReturnCommand) Remarks() string       { return c.remarks }
