package commands_test

import (
	"errors"
	"testing"

	"postpurchase/internal/core/application/usecases/commands"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), []commands.OrderLine{
		{ProductID: kernel.NewUUID(), ProductName: "Desk lamp", UnitPrice: money(t, "25.00"), Quantity: 3, Discount: money(t, "5.00")},
		{ProductID: kernel.NewUUID(), ProductName: "Desk", UnitPrice: money(t, "100.00"), Quantity: 1},
	}, order.Checkout{
		PaymentMethod:   "card",
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
		Tax:             money(t, "8.50"),
		Shipping:        money(t, "5.00"),
	})
	require.NoError(t, err)
	return cmd
}

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("should require lines", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), nil, order.Checkout{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.CreateOrderCommand

		assert.Equal(t, commands.ErrCreateOrderCommandIsNotConstructed, cmd.Validate())
	})
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd := createOrderCommand(t)

	mockRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockOrderUoWFactory)

	isPlacedOrder := mock.MatchedBy(func(o *order.Order) bool {
		return o.ID() == cmd.OrderID() && o.Status() == order.Pending && o.Total().String() == "183.50"
	})

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, isPlacedOrder).Return(nil).Once(),
		mockUoW.On("Commit", ctx).Return(nil).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateOrderCommandHandler(mockFactory)

	// Act
	err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InvalidCommand(t *testing.T) {
	ctx := t.Context()
	mockFactory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(mockFactory)

	err := handler.Handle(ctx, commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	mockFactory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RepositoryError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd := createOrderCommand(t)
	repoErr := errors.New("duplicate key")

	mockRepo := new(MockOrderRepository)
	mockUoW := new(MockUoW)
	mockFactory := new(MockOrderUoWFactory)

	mock.InOrder(
		mockUoW.On("Begin", ctx).Return(nil).Once(),
		mockUoW.On("OrderRepository").Return(mockRepo).Once(),
		mockRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(repoErr).Once(),
		mockUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	mockFactory.On("Create").Return(mockUoW).Once()

	handler := commands.NewCreateOrderCommandHandler(mockFactory)

	// Act
	err := handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, repoErr)
	mockUoW.AssertNotCalled(t, "Commit", ctx)
	mockUoW.AssertExpectations(t)
}
