package commands_test

import (
	"context"
	"testing"
	"time"

	"postpurchase/internal/core/application/usecases/commands"
	"postpurchase/internal/core/domain/model/cancellation"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/domain/model/masterdata"
	"postpurchase/internal/core/domain/model/order"
	"postpurchase/internal/core/domain/model/refund"
	"postpurchase/internal/core/domain/model/returns"
	"postpurchase/internal/core/domain/model/shipment"
	"postpurchase/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing.
type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockCancellationRepository struct{ mock.Mock }

func (m *MockCancellationRepository) Add(ctx context.Context, c *cancellation.Cancellation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCancellationRepository) Update(ctx context.Context, c *cancellation.Cancellation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCancellationRepository) Get(ctx context.Context, id kernel.UUID) (*cancellation.Cancellation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancellation.Cancellation), args.Error(1)
}

func (m *MockCancellationRepository) ListByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*cancellation.Cancellation, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cancellation.Cancellation), args.Error(1)
}

type MockReturnRepository struct{ mock.Mock }

func (m *MockReturnRepository) Add(ctx context.Context, r *returns.Return) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) Update(ctx context.Context, r *returns.Return) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepository) Get(ctx context.Context, id kernel.UUID) (*returns.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.Return), args.Error(1)
}

func (m *MockReturnRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*returns.Return, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*returns.Return), args.Error(1)
}

type MockRefundRepository struct{ mock.Mock }

func (m *MockRefundRepository) Add(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) Update(ctx context.Context, r *refund.Refund) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) Get(ctx context.Context, id kernel.UUID) (*refund.Refund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refund.Refund), args.Error(1)
}

func (m *MockRefundRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*refund.Refund, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}

func (m *MockRefundRepository) ListStuckProcessing(
	ctx context.Context,
	before time.Time,
	limit int,
) ([]*refund.Refund, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.Refund), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

// MockUoW satisfies every unit of work the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CancellationRepository() ports.CancellationRepository {
	args := m.Called()
	return args.Get(0).(ports.CancellationRepository)
}

func (m *MockUoW) ReturnRepository() ports.ReturnRepository {
	args := m.Called()
	return args.Get(0).(ports.ReturnRepository)
}

func (m *MockUoW) RefundRepository() ports.RefundRepository {
	args := m.Called()
	return args.Get(0).(ports.RefundRepository)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRequestUoWFactory struct{ mock.Mock }

func (m *MockRequestUoWFactory) Create() commands.RequestUoW {
	args := m.Called()
	return args.Get(0).(commands.RequestUoW)
}

type MockRefundUoWFactory struct{ mock.Mock }

func (m *MockRefundUoWFactory) Create() commands.RefundUoW {
	args := m.Called()
	return args.Get(0).(commands.RefundUoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockMasterDataProvider struct{ mock.Mock }

func (m *MockMasterDataProvider) GetReason(
	ctx context.Context,
	reasonType masterdata.ReasonType,
	id kernel.UUID,
) (masterdata.Reason, error) {
	args := m.Called(ctx, reasonType, id)
	return args.Get(0).(masterdata.Reason), args.Error(1)
}

func (m *MockMasterDataProvider) GetCancellationPolicy(ctx context.Context, id kernel.UUID) (masterdata.Policy, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(masterdata.Policy), args.Error(1)
}

func (m *MockMasterDataProvider) GetReturnPolicy(ctx context.Context, id kernel.UUID) (masterdata.Policy, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(masterdata.Policy), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentResult), args.Error(1)
}

func (m *MockPaymentGateway) GetPaymentInfo(ctx context.Context, reference string) (ports.PaymentInfo, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(ports.PaymentInfo), args.Error(1)
}

func (m *MockPaymentGateway) InitiateRefund(ctx context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.RefundResult), args.Error(1)
}

// Fixtures.

var placedAt = time.Now().Add(-48 * time.Hour).UTC()

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func orderItem(t *testing.T, price string, qty int) *order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Desk lamp", money(t, price), qty, kernel.Money{})
	require.NoError(t, err)
	return item
}

// newOrder builds a paid order without order-level amounts, moved along the
// graph up to the given statuses.
func newOrder(t *testing.T, items []*order.Item, path ...order.Status) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, order.Checkout{
		PaymentMethod:   "card",
		ShippingAddress: "1 Main St",
		BillingAddress:  "1 Main St",
	}, placedAt)
	require.NoError(t, err)
	require.NoError(t, o.AttachPayment("pay_123", placedAt))
	for _, to := range path {
		_, err = o.ChangeStatus(to, "admin", "", placedAt.Add(time.Hour))
		require.NoError(t, err)
	}
	o.ClearPendingEntries()
	return o
}

func pendingCancellation(t *testing.T, o *order.Order, item *order.Item, qty int) *cancellation.Cancellation {
	t.Helper()
	ci, err := cancellation.NewItem(kernel.NewUUID(), item.ID(), qty)
	require.NoError(t, err)
	c, err := cancellation.NewCancellation(kernel.NewUUID(), o.ID(), kernel.NewUUID(),
		[]*cancellation.Item{ci}, qty < item.Quantity(), "customer-1", "", placedAt)
	require.NoError(t, err)
	return c
}

func pendingReturn(t *testing.T, o *order.Order, item *order.Item, qty int) *returns.Return {
	t.Helper()
	ri, err := returns.NewItem(kernel.NewUUID(), item.ID(), qty, "")
	require.NoError(t, err)
	r, err := returns.NewReturn(kernel.NewUUID(), o.ID(), kernel.NewUUID(),
		[]*returns.Item{ri}, qty < item.Quantity(), "customer-1", "", placedAt)
	require.NoError(t, err)
	return r
}

// pendingRefund is a 25.00 refund against a cancellation of o.
func pendingRefund(t *testing.T, o *order.Order) *refund.Refund {
	t.Helper()
	item, err := refund.NewItem(kernel.NewUUID(), o.Items()[0].ID(), 1, money(t, "25.00"))
	require.NoError(t, err)
	r, err := refund.NewRefund(kernel.NewUUID(), o.ID(), refund.FromCancellation(kernel.NewUUID()),
		refund.Breakdown{Base: money(t, "25.00")}, []*refund.Item{item}, "card", placedAt)
	require.NoError(t, err)
	return r
}

func activeReason(reasonType masterdata.ReasonType) masterdata.Reason {
	return masterdata.Reason{ID: kernel.NewUUID(), Type: reasonType, Code: "CHANGED_MIND", IsActive: true}
}
