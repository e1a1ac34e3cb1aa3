package commands

import (
	"errors"
	"strings"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/pkg/errs"
	"postpurchase/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order along the order status graph.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	actor   string
	remarks string

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	actor, remarks string,
) (ChangeOrderStatusCommand, error) {
	var actorErr error
	if strings.TrimSpace(actor) == "" {
		actorErr = errs.NewValueIsRequiredError("actor")
	}
	if err := errors.Join(orderID.Validate(), status.Validate(), actorErr); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		orderID: orderID,
		status:  status,
		actor:   actor,
		remarks: remarks,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c ChangeOrderStatusCommand) Status() order.Status { return c.status }
func (c ChangeOrderStatusCommand) Actor() string        { return c.actor }
func (c ChangeOrderStatusCommand) Remarks() string      { return c.remarks }
