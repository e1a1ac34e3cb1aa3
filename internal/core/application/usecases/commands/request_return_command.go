package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/guard"
)

var ErrRequestReturnCommandIsNotConstructed = errors.New(
	"RequestReturnCommand must be created via NewRequestReturnCommand constructor",
)

// ReturnLine is a quantity of an order item sent back, with inspection notes.
type ReturnLine struct {
	OrderItemID kernel.UUID
	Quantity    int
	Remarks     string
}

func toServiceLines(lines []ReturnLine) []services.Line {
	out := make([]services.Line, 0, len(lines))
	for _, line := range lines {
		out = append(out, services.Line{OrderItemID: line.OrderItemID, Quantity: line.Quantity})
	}
	return out
}

// RequestReturnCommand asks to return delivered items.
type RequestReturnCommand struct { //nolint:recvcheck //using for validation
	returnID    kernel.UUID
	orderID     kernel.UUID
	reasonID    kernel.UUID
	lines       []ReturnLine
	requestedBy string
	remarks     string

	guard guard.ConstructorGuard
}

func NewRequestReturnCommand(
	returnID, orderID, reasonID kernel.UUID,
	lines []ReturnLine,
	requestedBy, remarks string,
) (RequestReturnCommand, error) {
	if err := errors.Join(
		returnID.Validate(),
		orderID.Validate(),
		reasonID.Validate(),
		validateLines(toServiceLines(lines)),
		requireActor("requestedBy", requestedBy),
	); err != nil {
		return RequestReturnCommand{}, err
	}

	return RequestReturnCommand{
		returnID:    returnID,
		orderID:     orderID,
		reasonID:    reasonID,
		lines:       append([]ReturnLine(nil), lines...),
		requestedBy: requestedBy,
		remarks:     remarks,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RequestReturnCommand) Validate() error {
	return c.guard.Validate(ErrRequestReturnCommandIsNotConstructed)
}

func (c RequestReturnCommand) ReturnID() kernel.UUID { return c.returnID }
func (c RequestReturnCommand) OrderID() kernel.UUID  { return c.orderID }
func (c RequestReturnCommand) ReasonID() kernel.UUID { return c.reasonID }
func (c RequestReturnCommand) Lines() []ReturnLine   { return append([]ReturnLine(nil), c.lines...) }
func (c RequestReturnCommand) RequestedBy() string   { return c.requestedBy }
func (c RequestReturnCommand) Remarks() string       { return c.remarks }
