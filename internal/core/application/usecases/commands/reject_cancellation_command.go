package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrRejectCancellationCommandIsNotConstructed = errors.New(
	"RejectCancellationCommand must be created via NewRejectCancellationCommand constructor",
)

type RejectCancellationCommand struct { //nolint:recvcheck //using for validation
	cancellationID kernel.UUID
	rejecter       string
	remarks        string

	guard guard.ConstructorGuard
}

func NewRejectCancellationCommand(cancellationID kernel.UUID, rejecter, remarks string) (RejectCancellationCommand, error) {
	if err := errors.Join(cancellationID.Validate(), requireActor("rejecter", rejecter)); err != nil {
		return RejectCancellationCommand{}, err
	}

	return RejectCancellationCommand{
		cancellationID: cancellationID,
		rejecter:       rejecter,
		remarks:        remarks,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c RejectCancellationCommand) Validate() error {
	return c.guard.Validate(ErrRejectCancellationCommandIsNotConstructed)
}

func (c RejectCancellationCommand) CancellationID() kernel.UUID { return c.cancellationID }
func (c RejectCancellationCommand) Rejecter() string            { return c.rejecter }
func (c RejectCancellationCommand) Remarks() string             { return c.remarks }
