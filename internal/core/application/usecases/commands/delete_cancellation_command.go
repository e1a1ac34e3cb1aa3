package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrDeleteCancellationCommandIsNotConstructed = errors.New(
	"DeleteCancellationCommand must be created via NewDeleteCancellationCommand constructor",
)

// DeleteCancellationCommand withdraws a Pending cancellation.
type DeleteCancellationCommand struct {
	cancellationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeleteCancellationCommand(cancellationID kernel.UUID) (DeleteCancellationCommand, error) {
	if err := cancellationID.Validate(); err != nil {
		return DeleteCancellationCommand{}, err
	}
	return DeleteCancellationCommand{cancellationID: cancellationID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeleteCancellationCommand) Validate() error {
	return c.guard.Validate(ErrDeleteCancellationCommandIsNotConstructed)
}

func (c DeleteCancellationCommand) CancellationID() kernel.UUID { return c.cancellationID }
