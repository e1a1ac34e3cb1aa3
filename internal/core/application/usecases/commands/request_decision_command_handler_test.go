package commands_test

import (
	"testing"

	"postpurchase/internal/core/application/usecases/commands"
	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRejectCancellationCommandHandler_Handle(t *testing.T) {
	t.Run("should reject a pending cancellation", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		c := pendingCancellation(t, o, item, 1)
		cmd, err := commands.NewRejectCancellationCommand(c.ID(), "admin", "already packed")
		require.NoError(t, err)

		f := newRequestFixture()
		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once(),
			f.cancellations.On("Update", ctx, c).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		handler := commands.NewRejectCancellationCommandHandler(f.factory)

		err = handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, cancellation.Rejected, c.Status())
		assert.Equal(t, "already packed", c.DecisionRemarks())
		require.Len(t, c.PendingEntries(), 1)
		f.uow.AssertExpectations(t)
		f.refunds.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("should refuse a decided cancellation", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		c := pendingCancellation(t, o, item, 1)
		require.NoError(t, c.Reject("admin", "", placedAt))
		cmd, err := commands.NewRejectCancellationCommand(c.ID(), "admin", "")
		require.NoError(t, err)

		f := newRequestFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewRejectCancellationCommandHandler(f.factory)

		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		f.cancellations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should require a rejecter", func(t *testing.T) {
		_, err := commands.NewRejectCancellationCommand(kernel.NewUUID(), " ", "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestDeleteReturnCommandHandler_Handle(t *testing.T) {
	t.Run("should soft delete a pending return", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, deliveredPath...)
		r := pendingReturn(t, o, item, 2)
		cmd, err := commands.NewDeleteReturnCommand(r.ID())
		require.NoError(t, err)

		f := newRequestFixture()
		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.returns.On("Get", ctx, r.ID()).Return(r, nil).Once(),
			f.returns.On("Update", ctx, r).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		handler := commands.NewDeleteReturnCommandHandler(f.factory)

		err = handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, r.IsDeleted())
		assert.Equal(t, returns.Pending, r.Status())
		assert.Empty(t, r.PendingEntries())
		f.uow.AssertExpectations(t)
	})

	t.Run("should refuse an approved return", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, deliveredPath...)
		r := pendingReturn(t, o, item, 1)
		require.NoError(t, r.Approve("warehouse", money(t, "12.50"),
			map[kernel.UUID]kernel.Money{item.ID(): money(t, "12.50")}, "", placedAt))
		cmd, err := commands.NewDeleteReturnCommand(r.ID())
		require.NoError(t, err)

		f := newRequestFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.returns.On("Get", ctx, r.ID()).Return(r, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewDeleteReturnCommandHandler(f.factory)

		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.False(t, r.IsDeleted())
		f.returns.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("should pass through a missing return", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		cmd, err := commands.NewDeleteReturnCommand(id)
		require.NoError(t, err)

		f := newRequestFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.returns.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("return", id)).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewDeleteReturnCommandHandler(f.factory)

		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestUpdateCancellationCommandHandler_Handle_Remainder(t *testing.T) {
	reason := activeReason(masterdata.CancellationReason)

	t.Run("should take the whole remainder and keep item ids", func(t *testing.T) {
		ctx := t.Context()
		item := orderItem(t, "12.50", 3)
		o := newOrder(t, []*order.Item{item}, order.Confirmed)
		c := pendingCancellation(t, o, item, 1)
		originalItemID := c.Items()[0].ID()
		cmd, err := commands.NewUpdateCancellationCommand(c.ID(), reason.ID,
			[]services.Line{{OrderItemID: item.ID(), Quantity: 3}}, "all of them")
		require.NoError(t, err)

		f := newRequestFixture()
		f.masterData.On("GetReason", ctx, masterdata.CancellationReason, reason.ID).Return(reason, nil).Once()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.expectRequests(o, []*cancellation.Cancellation{c}, nil)
		mock.InOrder(
			f.uow.On("Begin", ctx).Return(nil).Once(),
			f.orders.On("Update", ctx, o).Return(nil).Once(),
			f.cancellations.On("Update", ctx, c).Return(nil).Once(),
			f.uow.On("Commit", ctx).Return(nil).Once(),
			f.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		handler := commands.NewUpdateCancellationCommandHandler(f.factory, f.masterData)

		err = handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.Len(t, c.Items(), 1)
		assert.Equal(t, originalItemID, c.Items()[0].ID())
		assert.Equal(t, 3, c.Items()[0].Quantity())
		assert.False(t, c.IsPartial())
		assert.Equal(t, "all of them", c.Remarks())
		f.cancellations.AssertExpectations(t)
	})

	t.Run("should refuse an item held by another pending request", func(t *testing.T) {
		ctx := t.Context()
		lamp, chair := orderItem(t, "12.50", 3), orderItem(t, "40.00", 1)
		o := newOrder(t, []*order.Item{lamp, chair}, order.Confirmed)
		c := pendingCancellation(t, o, lamp, 1)
		other := pendingCancellation(t, o, chair, 1)
		cmd, err := commands.NewUpdateCancellationCommand(c.ID(), reason.ID,
			[]services.Line{{OrderItemID: lamp.ID(), Quantity: 1}, {OrderItemID: chair.ID(), Quantity: 1}}, "")
		require.NoError(t, err)

		f := newRequestFixture()
		f.masterData.On("GetReason", ctx, masterdata.CancellationReason, reason.ID).Return(reason, nil).Once()
		f.cancellations.On("Get", ctx, c.ID()).Return(c, nil).Once()
		f.expectRequests(o, []*cancellation.Cancellation{c, other}, nil)
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		handler := commands.NewUpdateCancellationCommandHandler(f.factory, f.masterData)

		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), services.ErrActiveRequestExists.Error())
		assert.Len(t, c.Items(), 1)
		f.cancellations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should refuse an inactive reason before opening a transaction", func(t *testing.T) {
		ctx := t.Context()
		inactive := masterdata.Reason{ID: kernel.NewUUID(), Type: masterdata.CancellationReason, Code: "OLD"}
		cmd, err := commands.NewUpdateCancellationCommand(kernel.NewUUID(), inactive.ID,
			[]services.Line{{OrderItemID: kernel.NewUUID(), Quantity: 1}}, "")
		require.NoError(t, err)

		f := newRequestFixture()
		f.masterData.On("GetReason", ctx, masterdata.CancellationReason, inactive.ID).Return(inactive, nil).Once()
		handler := commands.NewUpdateCancellationCommandHandler(f.factory, f.masterData)

		err = handler.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})
}
