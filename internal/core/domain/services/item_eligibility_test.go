package services_test

import (
	"testing"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/services"
	"postpurchase/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemEligibility_Remaining(t *testing.T) {
	mugs := orderItem(t, "10.00", 3, "0")
	plates := orderItem(t, "20.00", 2, "0")
	o := newOrder(t, "0", "0", "0", mugs, plates)

	approved := newCancellation(t, o, qty{mugs, 1})
	require.NoError(t, approved.Approve("admin", kernel.Money{}, amounts(qty{mugs, 1}), "", now))
	pending := newCancellation(t, o, qty{plates, 1})
	rejected := newCancellation(t, o, qty{mugs, 2})
	require.NoError(t, rejected.Reject("admin", "", now))
	deleted := newReturn(t, o, qty{mugs, 2})
	require.NoError(t, deleted.Delete(now))

	e := services.NewItemEligibility(o, []*cancellation.Cancellation{approved, pending, rejected}, []*returns.Return{deleted})

	remaining, err := e.Remaining(mugs.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	remaining, err = e.Remaining(plates.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	_, err = e.Remaining(kernel.NewUUID())
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestItemEligibility_Check(t *testing.T) {
	mugs := orderItem(t, "10.00", 3, "0")
	plates := orderItem(t, "20.00", 2, "0")
	o := newOrder(t, "0", "0", "0", mugs, plates)
	pending := newCancellation(t, o, qty{plates, 1})
	e := services.NewItemEligibility(o, []*cancellation.Cancellation{pending}, nil)

	t.Run("should accept quantities within what remains", func(t *testing.T) {
		err := e.Check([]services.Line{{OrderItemID: mugs.ID(), Quantity: 3}})

		assert.NoError(t, err)
	})

	t.Run("should reject more than remains", func(t *testing.T) {
		err := e.Check([]services.Line{{OrderItemID: mugs.ID(), Quantity: 4}})

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject items with an active request", func(t *testing.T) {
		err := e.Check([]services.Line{{OrderItemID: plates.ID(), Quantity: 1}})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), services.ErrActiveRequestExists.Error())
	})

	t.Run("should ignore the excluded request", func(t *testing.T) {
		err := e.Excluding(pending.ID()).Check([]services.Line{{OrderItemID: plates.ID(), Quantity: 2}})

		assert.NoError(t, err)
	})

	t.Run("should reject foreign items", func(t *testing.T) {
		err := e.Check([]services.Line{{OrderItemID: kernel.NewUUID(), Quantity: 1}})

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject an empty request", func(t *testing.T) {
		assert.ErrorIs(t, e.Check(nil), errs.ErrValueIsRequired)
	})
}

func TestItemEligibility_CoversRemainder(t *testing.T) {
	mugs := orderItem(t, "10.00", 3, "0")
	plates := orderItem(t, "20.00", 2, "0")
	o := newOrder(t, "0", "0", "0", mugs, plates)
	e := services.NewItemEligibility(o, nil, nil)

	assert.False(t, e.CoversRemainder([]services.Line{{OrderItemID: mugs.ID(), Quantity: 3}}))
	assert.True(t, e.CoversRemainder([]services.Line{
		{OrderItemID: mugs.ID(), Quantity: 3},
		{OrderItemID: plates.ID(), Quantity: 2},
	}))
}

func TestItemEligibility_Settlement(t *testing.T) {
	mugs := orderItem(t, "10.00", 3, "0")
	plates := orderItem(t, "20.00", 2, "0")
	o := newOrder(t, "0", "0", "0", mugs, plates)

	cancelled := newCancellation(t, o, qty{mugs, 3})
	require.NoError(t, cancelled.Approve("admin", kernel.Money{}, amounts(qty{mugs, 3}), "", now))
	returned := newReturn(t, o, qty{plates, 2})

	e := services.NewItemEligibility(o, []*cancellation.Cancellation{cancelled}, []*returns.Return{returned})
	assert.False(t, e.FullyCancelled())
	assert.False(t, e.FullyReturned())

	require.NoError(t, returned.Approve("admin", kernel.Money{}, amounts(qty{plates, 2}), "", now))
	e = services.NewItemEligibility(o, []*cancellation.Cancellation{cancelled}, []*returns.Return{returned})
	assert.False(t, e.FullyCancelled())
	assert.True(t, e.FullyReturned())

	all := newCancellation(t, o, qty{plates, 2})
	require.NoError(t, all.Approve("admin", kernel.Money{}, amounts(qty{plates, 2}), "", now))
	e = services.NewItemEligibility(o, []*cancellation.Cancellation{cancelled, all}, nil)
	assert.True(t, e.FullyCancelled())
	assert.False(t, e.FullyReturned())
}

func TestItemEligibility_ApprovedQuantities(t *testing.T) {
	mugs := orderItem(t, "10.00", 3, "0")
	plates := orderItem(t, "20.00", 2, "0")
	o := newOrder(t, "0", "0", "0", mugs, plates)

	cancelled := newCancellation(t, o, qty{mugs, 1})
	require.NoError(t, cancelled.Approve("admin", kernel.Money{}, amounts(qty{mugs, 1}), "", now))
	returned := newReturn(t, o, qty{mugs, 1})
	require.NoError(t, returned.Approve("admin", kernel.Money{}, amounts(qty{mugs, 1}), "", now))
	pending := newCancellation(t, o, qty{plates, 1})

	e := services.NewItemEligibility(o, []*cancellation.Cancellation{cancelled, pending}, []*returns.Return{returned})

	assert.Equal(t, map[kernel.UUID]int{mugs.ID(): 2}, e.ApprovedQuantities())
}

func TestItemEligibility_CompletesCancellation(t *testing.T) {
	mugs := orderItem(t, "10.00", 3, "0")
	plates := orderItem(t, "20.00", 2, "0")
	o := newOrder(t, "0", "0", "0", mugs, plates)
	earlier := newCancellation(t, o, qty{plates, 2})
	require.NoError(t, earlier.Approve("admin", kernel.Money{}, amounts(qty{plates, 2}), "", now))

	e := services.NewItemEligibility(o, []*cancellation.Cancellation{earlier}, nil)

	assert.False(t, e.CompletesCancellation([]services.Line{{OrderItemID: mugs.ID(), Quantity: 2}}))
	assert.True(t, e.CompletesCancellation([]services.Line{{OrderItemID: mugs.ID(), Quantity: 3}}))
}
