package commands

import (
	"errors"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/pkg/errs"
	"postpurchase/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one purchased product of a new order.
type OrderLine struct {
	ProductID   kernel.UUID
	ProductName string
	UnitPrice   kernel.Money
	Quantity    int
	Discount    kernel.Money
}

// CreateOrderCommand represents a request to register a purchased order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), userID, []OrderLine{
//	    {ProductID: lampID, ProductName: "Desk lamp", UnitPrice: price, Quantity: 2},
//	}, order.Checkout{PaymentMethod: "card", ShippingAddress: addr, BillingAddress: addr})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	userID   kernel.UUID
	lines    []OrderLine
	checkout order.Checkout

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers and that at least one line is given.
// Prices, quantities and charges are validated by the order aggregate.
func NewCreateOrderCommand(
	orderID, userID kernel.UUID,
	lines []OrderLine,
	checkout order.Checkout,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		checkout: checkout,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CreateOrderCommand) UserID() kernel.UUID      { return c.userID }
func (c CreateOrderCommand) Lines() []OrderLine       { return append([]OrderLine(nil), c.lines...) }
func (c CreateOrderCommand) Checkout() order.Checkout { return c.checkout }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.lines = append([]OrderLine(nil), lines...)
	return nil
}
