package commands_test

import (
	"errors"
	"testing"

	"postpurchase/internal/core/application/usecases/commands"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/ports"
	"postpurchase/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func unpaidOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []*order.Item{orderItem(t, "40.00", 2)}, order.Checkout{
		PaymentMethod:   "card",
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
	}, placedAt)
	require.NoError(t, err)
	return o
}

func TestInitiateOrderPaymentCommandHandler_Handle(t *testing.T) {
	t.Run("should charge the order and store the reference", func(t *testing.T) {
		ctx := t.Context()
		o := unpaidOrder(t)
		cmd, err := commands.NewInitiateOrderPaymentCommand(o.ID())
		require.NoError(t, err)

		mockRepo := new(MockOrderRepository)
		mockUoW := new(MockUoW)
		mockFactory := new(MockOrderUoWFactory)
		gateway := new(MockPaymentGateway)

		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("OrderRepository").Return(mockRepo)
		mock.InOrder(
			mockRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			gateway.On("InitiatePayment", ctx, ports.PaymentRequest{
				OrderID:        o.ID(),
				Amount:         o.Total(),
				Method:         "card",
				IdempotencyKey: "order-" + o.ID().String(),
			}).Return(ports.PaymentResult{Reference: "pay_1", Status: ports.PaymentSucceeded}, nil).Once(),
			mockUoW.On("Begin", ctx).Return(nil).Once(),
			mockRepo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			mockRepo.On("Update", ctx, o).Return(nil).Once(),
			mockUoW.On("Commit", ctx).Return(nil).Once(),
			mockUoW.On("Rollback", ctx).Return(nil).Once(),
		)
		handler := commands.NewInitiateOrderPaymentCommandHandler(mockFactory, gateway)

		reference, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "pay_1", reference)
		assert.Equal(t, "pay_1", o.PaymentReference())
		gateway.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
		mockUoW.AssertExpectations(t)
	})

	t.Run("should not charge a paid order twice", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, []*order.Item{orderItem(t, "40.00", 1)})
		cmd, err := commands.NewInitiateOrderPaymentCommand(o.ID())
		require.NoError(t, err)

		mockRepo := new(MockOrderRepository)
		mockUoW := new(MockUoW)
		mockFactory := new(MockOrderUoWFactory)
		gateway := new(MockPaymentGateway)
		mockFactory.On("Create").Return(mockUoW).Once()
		mockUoW.On("OrderRepository").Return(mockRepo).Once()
		mockRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		handler := commands.NewInitiateOrderPaymentCommandHandler(mockFactory, gateway)

		reference, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "pay_123", reference)
		gateway.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything)
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should wrap gateway failures and write nothing", func(t *testing.T) {
		ctx := t.Context()
		o := unpaidOrder(t)
		cmd, err := commands.NewInitiateOrderPaymentCommand(o.ID())
		require.NoError(t, err)

		mockRepo := new(MockOrderRepository)
		mockUoW := new(MockUoW)
		mockFactory := new(MockOrderUoWFactory)
		gateway := new(MockPaymentGateway)
		mockFactory.On("Create").Return(mockUoW).Once()
		mockUoW.On("OrderRepository").Return(mockRepo).Once()
		mockRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		gateway.On("InitiatePayment", ctx, mock.Anything).
			Return(ports.PaymentResult{}, errors.New("connection reset")).Once()
		handler := commands.NewInitiateOrderPaymentCommandHandler(mockFactory, gateway)

		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrExternalDependency)
		assert.Empty(t, o.PaymentReference())
		mockUoW.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("should report a declined payment", func(t *testing.T) {
		ctx := t.Context()
		o := unpaidOrder(t)
		cmd, err := commands.NewInitiateOrderPaymentCommand(o.ID())
		require.NoError(t, err)

		mockRepo := new(MockOrderRepository)
		mockUoW := new(MockUoW)
		mockFactory := new(MockOrderUoWFactory)
		gateway := new(MockPaymentGateway)
		mockFactory.On("Create").Return(mockUoW).Once()
		mockUoW.On("OrderRepository").Return(mockRepo).Once()
		mockRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		gateway.On("InitiatePayment", ctx, mock.Anything).
			Return(ports.PaymentResult{Status: ports.PaymentFailed}, nil).Once()
		handler := commands.NewInitiateOrderPaymentCommandHandler(mockFactory, gateway)

		_, err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, commands.ErrPaymentDeclined)
	})
}
