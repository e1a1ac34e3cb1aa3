package commands

import (
	"context"
	"errors"
	"time"

	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"
)

const paymentGateway = "payment gateway"

// ErrPaymentDeclined is wrapped when the gateway refuses to take a payment.
var ErrPaymentDeclined = errors.New("payment declined")

// InitiateOrderPaymentCommandHandler charges an order and stores the gateway
// payment reference on it. The gateway is called with no transaction open;
// the reference is written afterwards in a short one. An order that already
// has a reference is not charged again.
type InitiateOrderPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
}

func NewInitiateOrderPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
) InitiateOrderPaymentCommandHandler {
	return InitiateOrderPaymentCommandHandler{uowFactory: uowFactory, gateway: gateway}
}

// Handle returns the payment reference of the order.
func (h *InitiateOrderPaymentCommandHandler) Handle(ctx context.Context, cmd InitiateOrderPaymentCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if o.PaymentReference() != "" {
		return o.PaymentReference(), nil
	}

	result, err := h.gateway.InitiatePayment(ctx, ports.PaymentRequest{
		OrderID:        o.ID(),
		Amount:         o.Total(),
		Method:         o.PaymentMethod(),
		IdempotencyKey: "order-" + o.ID().String(),
	})
	if err != nil {
		return "", errs.NewExternalDependencyError(paymentGateway, "initiate payment", err)
	}
	if result.Status == ports.PaymentFailed {
		return "", errs.NewExternalDependencyError(paymentGateway, "initiate payment", ErrPaymentDeclined)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err = repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return "", err
	}
	if err = o.AttachPayment(result.Reference, time.Now()); err != nil {
		return "", err
	}
	if err = repo.Update(ctx, o); err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return result.Reference, nil
}
