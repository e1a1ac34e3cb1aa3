package stripegateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

type fakeIntents struct {
	created *stripe.PaymentIntentParams
	intent  *stripe.PaymentIntent
	err     error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.created = params
	return f.intent, f.err
}

func (f *fakeIntents) Get(id string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.intent == nil || f.intent.ID != id {
		return nil, &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Msg: "no such payment_intent"}
	}
	return f.intent, nil
}

type fakeRefunds struct {
	created *stripe.RefundParams
	refund  *stripe.Refund
	err     error
}

func (f *fakeRefunds) New(params *stripe.RefundParams) (*stripe.Refund, error) {
	f.created = params
	return f.refund, f.err
}

func (f *fakeRefunds) Get(_ string, _ *stripe.RefundParams) (*stripe.Refund, error) {
	return f.refund, f.err
}

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func refundRequest(t *testing.T) ports.RefundRequest {
	id := kernel.NewUUID()
	return ports.RefundRequest{
		RefundID:         id,
		PaymentReference: "pi_1",
		Amount:           money(t, "12.34"),
		Reason:           "return approved",
		IdempotencyKey:   id.String(),
	}
}

func TestNewGateway(t *testing.T) {
	_, err := NewGateway(Config{})
	require.Error(t, err)
}

func TestGateway_InitiatePayment(t *testing.T) {
	intents := &fakeIntents{intent: &stripe.PaymentIntent{ID: "pi_1", Status: stripe.PaymentIntentStatusRequiresConfirmation}}
	g := newGateway(intents, &fakeRefunds{}, Config{Currency: "EUR"})
	orderID := kernel.NewUUID()

	result, err := g.InitiatePayment(context.Background(), ports.PaymentRequest{
		OrderID:        orderID,
		Amount:         money(t, "99.95"),
		Method:         "pm_card_visa",
		IdempotencyKey: "order-" + orderID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_1", result.Reference)
	assert.Equal(t, ports.PaymentPending, result.Status)
	require.NotNil(t, intents.created)
	assert.Equal(t, int64(9995), *intents.created.Amount)
	assert.Equal(t, "eur", *intents.created.Currency)
	assert.Equal(t, "pm_card_visa", *intents.created.PaymentMethod)
	assert.True(t, *intents.created.Confirm)
	assert.Equal(t, "order-"+orderID.String(), *intents.created.IdempotencyKey)
	assert.Equal(t, orderID.String(), intents.created.Metadata["order_id"])
}

func TestGateway_InitiateRefund(t *testing.T) {
	t.Run("should refund the intent in cents", func(t *testing.T) {
		refunds := &fakeRefunds{refund: &stripe.Refund{ID: "re_1", Status: stripe.RefundStatusPending}}
		g := newGateway(&fakeIntents{}, refunds, Config{})
		req := refundRequest(t)

		result, err := g.InitiateRefund(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.Equal(t, "re_1", result.TransactionReference)
		assert.Equal(t, int64(1234), *refunds.created.Amount)
		assert.Equal(t, "pi_1", *refunds.created.PaymentIntent)
		assert.Equal(t, req.IdempotencyKey, *refunds.created.IdempotencyKey)
		assert.Equal(t, req.RefundID.String(), refunds.created.Metadata["refund_id"])
	})

	t.Run("should report a card error as a decline", func(t *testing.T) {
		refunds := &fakeRefunds{err: &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "charge already refunded"}}
		g := newGateway(&fakeIntents{}, refunds, Config{})

		result, err := g.InitiateRefund(context.Background(), refundRequest(t))

		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, "charge already refunded", result.FailureReason)
	})

	t.Run("should report a failed refund as a decline", func(t *testing.T) {
		refunds := &fakeRefunds{refund: &stripe.Refund{
			ID:            "re_2",
			Status:        stripe.RefundStatusFailed,
			FailureReason: stripe.RefundFailureReasonExpiredOrCanceledCard,
		}}
		g := newGateway(&fakeIntents{}, refunds, Config{})

		result, err := g.InitiateRefund(context.Background(), refundRequest(t))

		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, "re_2", result.TransactionReference)
		assert.Equal(t, "expired_or_canceled_card", result.FailureReason)
	})

	t.Run("should wrap a deadline as gateway timeout", func(t *testing.T) {
		refunds := &fakeRefunds{err: fmt.Errorf("post refunds: %w", context.DeadlineExceeded)}
		g := newGateway(&fakeIntents{}, refunds, Config{})

		_, err := g.InitiateRefund(context.Background(), refundRequest(t))

		require.ErrorIs(t, err, ports.ErrGatewayTimeout)
	})

	t.Run("should return other errors", func(t *testing.T) {
		refunds := &fakeRefunds{err: errors.New("connection reset")}
		g := newGateway(&fakeIntents{}, refunds, Config{})

		_, err := g.InitiateRefund(context.Background(), refundRequest(t))

		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrGatewayTimeout)
	})
}

func TestGateway_GetPaymentInfo(t *testing.T) {
	t.Run("should look up refunds by prefix", func(t *testing.T) {
		refunds := &fakeRefunds{refund: &stripe.Refund{ID: "re_1", Status: stripe.RefundStatusSucceeded, Amount: 1234}}
		g := newGateway(&fakeIntents{}, refunds, Config{})

		info, err := g.GetPaymentInfo(context.Background(), "re_1")

		require.NoError(t, err)
		assert.Equal(t, ports.PaymentSucceeded, info.Status)
		assert.Equal(t, "12.34", info.Amount.String())
		assert.Equal(t, "12.34", info.RefundedAmount.String())
	})

	t.Run("should look up payment intents", func(t *testing.T) {
		intents := &fakeIntents{intent: &stripe.PaymentIntent{
			ID:           "pi_1",
			Status:       stripe.PaymentIntentStatusSucceeded,
			Amount:       5000,
			LatestCharge: &stripe.Charge{AmountRefunded: 1500},
		}}
		g := newGateway(intents, &fakeRefunds{}, Config{})

		info, err := g.GetPaymentInfo(context.Background(), "pi_1")

		require.NoError(t, err)
		assert.Equal(t, ports.PaymentSucceeded, info.Status)
		assert.Equal(t, "50.00", info.Amount.String())
		assert.Equal(t, "15.00", info.RefundedAmount.String())
	})

	t.Run("should fail for an unknown intent", func(t *testing.T) {
		g := newGateway(&fakeIntents{}, &fakeRefunds{}, Config{})

		_, err := g.GetPaymentInfo(context.Background(), "pi_missing")

		var stripeErr *stripe.Error
		require.ErrorAs(t, err, &stripeErr)
	})
}
