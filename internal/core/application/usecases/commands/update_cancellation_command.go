package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/guard"
)

var ErrUpdateCancellationCommandIsNotConstructed = errors.New(
	"UpdateCancellationCommand must be created via NewUpdateCancellationCommand constructor",
)

// UpdateCancellationCommand replaces the reason, remarks and item set of a
// Pending cancellation.
type UpdateCancellationCommand struct { //nolint:recvcheck //using for validation
	cancellationID kernel.UUID
	reasonID       kernel.UUID
	lines          []services.Line
	remarks        string

	guard guard.ConstructorGuard
}

func NewUpdateCancellationCommand(
	cancellationID, reasonID kernel.UUID,
	lines []services.Line,
	remarks string,
) (UpdateCancellationCommand, error) {
	if err := errors.Join(cancellationID.Validate(), reasonID.Validate(), validateLines(lines)); err != nil {
		return UpdateCancellationCommand{}, err
	}

	return UpdateCancellationCommand{
		cancellationID: cancellationID,
		reasonID:       reasonID,
		lines:          append([]services.Line(nil), lines...),
		remarks:        remarks,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCancellationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCancellationCommandIsNotConstructed)
}

func (c UpdateCancellationCommand) CancellationID() kernel.UUID { return c.cancellationID }
func (c UpdateCancellationCommand) ReasonID() kernel.UUID       { return c.reasonID }
func (c UpdateCancellationCommand) Lines() []services.Line {
	return append([]services.Line(nil), c.lines...)
}
func (c UpdateCancellationCommand) Remarks() string { return c.remarks }
