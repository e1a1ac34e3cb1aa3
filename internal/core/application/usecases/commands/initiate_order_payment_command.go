package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/pkg/guard"
)

var ErrInitiateOrderPaymentCommandIsNotConstructed = errors.New(
	"InitiateOrderPaymentCommand must be created via NewInitiateOrderPaymentCommand constructor",
)

// InitiateOrderPaymentCommand charges the order total through the payment gateway.
type InitiateOrderPaymentCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewInitiateOrderPaymentCommand(orderID kernel.UUID) (InitiateOrderPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return InitiateOrderPaymentCommand{}, err
	}
	return InitiateOrderPaymentCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c InitiateOrderPaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiateOrderPaymentCommandIsNotConstructed)
}

func (c InitiateOrderPaymentCommand) OrderID() kernel.UUID { return c.orderID }
