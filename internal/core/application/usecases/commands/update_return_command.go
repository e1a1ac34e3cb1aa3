package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrUpdateReturnCommandIsNotConstructed = errors.New(
	"UpdateReturnCommand must be created via NewUpdateReturnCommand constructor",
)

// UpdateReturnCommand replaces the reason, remarks and item set of a Pending return.
type UpdateReturnCommand struct { //nolint:recvcheck //using for validation
	returnID kernel.UUID
	reasonID kernel.UUID
	lines    []ReturnLine
	remarks  string

	guard guard.ConstructorGuard
}

func NewUpdateReturnCommand(returnID, reasonID kernel.UUID, lines []ReturnLine, remarks string) (UpdateReturnCommand, error) {
	if err := errors.Join(returnID.Validate(), reasonID.Validate(), validateLines(toServiceLines(lines))); err != nil {
		return UpdateReturnCommand{}, err
	}

	return UpdateReturnCommand{
		returnID: returnID,
		reasonID: reasonID,
		lines:    append([]ReturnLine(nil), lines...),
		remarks:  remarks,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateReturnCommand) Validate() error {
	return c.guard.Validate(ErrUpdateReturnCommandIsNotConstructed)
}

func (c UpdateReturnCommand) ReturnID() kernel.UUID { return c.returnID }
func (c UpdateReturnCommand) ReasonID() kernel.UUID { return c.reasonID }
func (c UpdateReturnCommand) Lines() []ReturnLine   { return append([]ReturnLine(nil), c.lines...) }
func (c UpdateReturnCommand) Remarks() string       { return c.remarks }
