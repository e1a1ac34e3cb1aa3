package commands_test

import (
	"testing"

	"postpurchase/internal/core/application/usecases/commands"
	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func approveCancellation(t *testing.T, c *cancellation.Cancellation) commands.ApproveCancellationCommand {
	t.Helper()
	cmd, err := commands.NewApproveCancellationCommand(c.ID(), kernel.NewUUID(), "admin", "approved")
	require.NoError(t, err)
	return cmd
}

func TestApproveCancellationCommandHandler_Handle(t *testing.T) {
	t.Run("should refund two of three units", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		c := pendingCancellation(t, o, item, 2)
		cmd := approveCancellation(t, c)

		f := newRequestFixture()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.expectRequests(o, []*cancellation.Cancellation{c}, nil)
		isRefund := mock.MatchedBy(func(r *refund.Refund) bool {
			return r.ID() == cmd.RefundID() && r.Status() == refund.Pending &&
				r.Total().String() == "25.00" && *r.Source().CancellationID == c.ID()
		})
		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Update", ctx, o).Return(nil).Once(),
			f.cancellations.On("Update", ctx, c).Return(nil).Once(),
			f.refunds.On("Add", ctx, isRefund).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		handler := commands.NewApproveCancellationCommandHandler(f.factory, services.NewRefundCalculator())

		err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, cancellation.Approved, c.Status())
		assert.Equal(t, "25.00", c.RefundableAmount().String())
		assert.Equal(t, "25.00", c.Items()[0].RefundableAmount().String())
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Empty(t, o.PendingEntries())
		f.orders.AssertExpectations(t)
		f.refunds.AssertExpectations(t)
		f.uow.AssertExpectations(t)
	})

	t.Run("should cancel the order once nothing is left", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		c := pendingCancellation(t, o, item, 3)
		cmd := approveCancellation(t, c)

		f := newRequestFixture()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.expectRequests(o, []*cancellation.Cancellation{c}, nil)
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.cancellations.On("Update", ctx, c).Return(nil).Once()
		f.refunds.On("Add", ctx, mock.AnythingOfType("*refund.Refund")).Return(nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewApproveCancellationCommandHandler(f.factory, services.NewRefundCalculator())

		err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		require.Len(t, o.PendingEntries(), 1)
		assert.Equal(t, "all items cancelled", o.PendingEntries()[0].Remarks())
		f.orders.AssertExpectations(t)
	})

	t.Run("should lose to a concurrent approval on the same order", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 2)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		first := pendingCancellation(t, o, item, 1)
		second := pendingCancellation(t, o, item, 1)
		cmd := approveCancellation(t, second)

		// Both requests are still Pending as read by this transaction, so the
		// approval alone does not complete the cancellation.
		f := newRequestFixture()
		f.cancellations.On("Get", ctx, second.ID()).Return(second, nil).Once()
		f.expectRequests(o, []*cancellation.Cancellation{first, second}, nil)
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Update", ctx, o).
			Return(errs.NewConcurrencyConflictError("order", o.ID().String())).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewApproveCancellationCommandHandler(f.factory, services.NewRefundCalculator())

		err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
		assert.Equal(t, order.Confirmed, o.Status())
		f.cancellations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.refunds.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should complete the order with the last approval", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 2)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		first := pendingCancellation(t, o, item, 1)
		require.NoError(t, first.Approve("admin", money(t, "12.50"),
			map[kernel.UUID]kernel.Money{item.ID(): money(t, "12.50")}, "", placedAt))
		second := pendingCancellation(t, o, item, 1)
		cmd := approveCancellation(t, second)

		f := newRequestFixture()
		f.cancellations.On("Get", ctx, second.ID()).Return(second, nil).Once()
		f.expectRequests(o, []*cancellation.Cancellation{first, second}, nil)
		isRefund := mock.MatchedBy(func(r *refund.Refund) bool { return r.Total().String() == "12.50" })
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.orders.On("Update", ctx, o).Return(nil).Once()
		f.cancellations.On("Update", ctx, second).Return(nil).Once()
		f.refunds.On("Add", ctx, isRefund).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewApproveCancellationCommandHandler(f.factory, services.NewRefundCalculator())

		err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		f.refunds.AssertExpectations(t)
	})

	t.Run("should refuse once the order can no longer be cancelled", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, deliveredPath...)
		c := pendingCancellation(t, o, item, 1)
		cmd := approveCancellation(t, c)

		f := newRequestFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewApproveCancellationCommandHandler(f.factory, services.NewRefundCalculator())

		err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Contains(t, err.Error(), "Delivered")
		assert.Equal(t, cancellation.Pending, c.Status())
		f.cancellations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.refunds.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should refuse an already decided request", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		c := pendingCancellation(t, o, item, 2)
		require.NoError(t, c.Reject("admin", "", placedAt))
		cmd := approveCancellation(t, c)

		f := newRequestFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewApproveCancellationCommandHandler(f.factory, services.NewRefundCalculator())

		err := handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		f.orders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
