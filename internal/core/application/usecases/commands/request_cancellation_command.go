package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/guard"
)

var ErrRequestCancellationCommandIsNotConstructed = errors.New(
	"RequestCancellationCommand must be created via NewRequestCancellationCommand constructor",
)

// RequestCancellationCommand asks to cancel some quantity of an order's items.
//
// Example:
//
//	cmd, err := NewRequestCancellationCommand(kernel.NewUUID(), orderID, reasonID,
//	    []services.Line{{OrderItemID: itemID, Quantity: 2}}, "customer-42", "ordered twice")
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrValueIsOutOfRange) {
//	    // more than what remains of the item
//	}
type RequestCancellationCommand struct { //nolint:recvcheck //using for validation
	cancellationID kernel.UUID
	orderID        kernel.UUID
	reasonID       kernel.UUID
	lines          []services.Line
	requestedBy    string
	remarks        string

	guard guard.ConstructorGuard
}

func NewRequestCancellationCommand(
	cancellationID, orderID, reasonID kernel.UUID,
	lines []services.Line,
	requestedBy, remarks string,
) (RequestCancellationCommand, error) {
	if err := errors.Join(
		cancellationID.Validate(),
		orderID.Validate(),
		reasonID.Validate(),
		validateLines(lines),
		requireActor("requestedBy", requestedBy),
	); err != nil {
		return RequestCancellationCommand{}, err
	}

	return RequestCancellationCommand{
		cancellationID: cancellationID,
		orderID:        orderID,
		reasonID:       reasonID,
		lines:          append([]services.Line(nil), lines...),
		requestedBy:    requestedBy,
		remarks:        remarks,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c RequestCancellationCommand) Validate() error {
	return c.guard.Validate(ErrRequestCancellationCommandIsNotConstructed)
}

func (c RequestCancellationCommand) CancellationID() kernel.UUID { return c.cancellationID }
func (c RequestCancellationCommand) OrderID() kernel.UUID        { return c.orderID }
func (c RequestCancellationCommand) ReasonID() kernel.UUID       { return c.reasonID }
func (c RequestCancellationCommand) Lines() []services.Line {
	return append([]services.Line(nil), c.lines...)
}
func (c RequestCancellationCommand) RequestedBy() string { return c.requestedBy }
func (c RequestCancellationCommand) Remarks() string     { return c.remarks }
