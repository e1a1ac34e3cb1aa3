package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrDeleteReturnCommandIsNotConstructed = errors.New(
	"DeleteReturnCommand must be created via NewDeleteReturnCommand constructor",
)

// DeleteReturnCommand withdraws a Pending return request.
type DeleteReturnCommand struct {
	returnID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteReturnCommand(returnID kernel.UUID) (DeleteReturnCommand, error) {
	if err := returnID.Validate(); err != nil {
		return DeleteReturnCommand{}, err
	}
	return DeleteReturnCommand{returnID: returnID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteReturnCommand) Validate() error {
	return c.guard.Validate(ErrDeleteReturnCommandIsNotConstructed)
}

func (c DeleteReturnCommand) ReturnID() kernel.UUID { return c.returnID }
