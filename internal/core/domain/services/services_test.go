package services_test

import (
	"testing"
	"time"

	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/returns"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 8, 4, 10, 0, 0, 0, time.UTC)

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func orderItem(t *testing.T, price string, qty int, discount string) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Mug", money(t, price), qty, money(t, discount))
	require.NoError(t, err)
	return item
}

func newOrder(t *testing.T, discount, tax, shipping string, items ...*order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, order.Checkout{
		PaymentMethod:   "card",
		ShippingAddress: "2 Elm St",
		BillingAddress:  "2 Elm St",
		Discount:        money(t, discount),
		Tax:             money(t, tax),
		Shipping:        money(t, shipping),
	}, now)
	require.NoError(t, err)
	return o
}

type qty struct {
	item *order.Item
	n    int
}

func newCancellation(t *testing.T, o *order.Order, lines ...qty) *cancellation.Cancellation {
	t.Helper()
	items := make([]*cancellation.Item, 0, len(lines))
	for _, l := range lines {
		item, err := cancellation.NewItem(kernel.NewUUID(), l.item.ID(), l.n)
		require.NoError(t, err)
		items = append(items, item)
	}
	c, err := cancellation.NewCancellation(kernel.NewUUID(), o.ID(), kernel.NewUUID(), items, true, "customer", "", now)
	require.NoError(t, err)
	return c
}

func newReturn(t *testing.T, o *order.Order, lines ...qty) *returns.Return {
	t.Helper()
	items := make([]*returns.Item, 0, len(lines))
	for _, l := range lines {
		item, err := returns.NewItem(kernel.NewUUID(), l.item.ID(), l.n, "")
		require.NoError(t, err)
		items = append(items, item)
	}
	r, err := returns.NewReturn(kernel.NewUUID(), o.ID(), kernel.NewUUID(), items, true, "customer", "", now)
	require.NoError(t, err)
	return r
}

func amounts(lines ...qty) map[kernel.UUID]kernel.Money {
	m := make(map[kernel.UUID]kernel.Money, len(lines))
	for _, l := range lines {
		m[l.item.ID()] = kernel.Money{}
	}
	return m
}
