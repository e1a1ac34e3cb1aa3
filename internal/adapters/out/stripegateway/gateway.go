// Package stripegateway implements ports.PaymentGateway on Stripe Payment
// Intents and Refunds. Amounts travel as integer cents in a single configured
// currency. References starting with "re_" are refunds, anything else is
// looked up as a payment intent.
package stripegateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/ports"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

const (
	defaultCurrency = "usd"
	refundPrefix    = "re_"
)

type paymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type refundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
	Get(id string, params *stripe.RefundParams) (*stripe.Refund, error)
}

type Config struct {
	APIKey   string
	Currency string
	Backends *stripe.Backends
	Logger   *slog.Logger
}

type Gateway struct {
	intents  paymentIntentAPI
	refunds  refundAPI
	currency string
	logger   *slog.Logger
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func NewGateway(cfg Config) (*Gateway, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("stripe: api key is required")
	}
	sc := client.New(apiKey, cfg.Backends)
	return newGateway(sc.PaymentIntents, sc.Refunds, cfg), nil
}

func newGateway(intents paymentIntentAPI, refunds refundAPI, cfg Config) *Gateway {
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		intents:  intents,
		refunds:  refunds,
		currency: currency,
		logger:   logger.With("component", "stripe_gateway"),
	}
}

// InitiatePayment creates and confirms a payment intent. A method that looks
// like a Stripe payment method id ("pm_...") is attached directly, any other
// value is used as the allowed payment method type.
func (g *Gateway) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents(req.Amount)),
		Currency: stripe.String(g.currency),
	}
	params.Context = ctx
	if strings.HasPrefix(req.Method, "pm_") {
		params.PaymentMethod = stripe.String(req.Method)
		params.Confirm = stripe.Bool(true)
	} else if req.Method != "" {
		params.PaymentMethodTypes = []*string{stripe.String(strings.ToLower(req.Method))}
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	params.AddMetadata("order_id", req.OrderID.String())

	intent, err := g.intents.New(params)
	if err != nil {
		return ports.PaymentResult{}, wrap("create payment intent", err)
	}
	g.logger.InfoContext(ctx, "payment intent created",
		"payment_intent", intent.ID, "order_id", req.OrderID.String(), "status", intent.Status)

	return ports.PaymentResult{Reference: intent.ID, Status: intentStatus(intent.Status)}, nil
}

func (g *Gateway) GetPaymentInfo(ctx context.Context, reference string) (ports.PaymentInfo, error) {
	if strings.HasPrefix(reference, refundPrefix) {
		params := &stripe.RefundParams{}
		params.Context = ctx
		r, err := g.refunds.Get(reference, params)
		if err != nil {
			return ports.PaymentInfo{}, wrap("get refund", err)
		}
		amount, err := kernel.MoneyFromCents(r.Amount)
		if err != nil {
			return ports.PaymentInfo{}, err
		}
		info := ports.PaymentInfo{Reference: r.ID, Status: refundStatus(r.Status), Amount: amount}
		if info.Status == ports.PaymentSucceeded {
			info.RefundedAmount = amount
		}
		return info, nil
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddExpand("latest_charge")
	intent, err := g.intents.Get(reference, params)
	if err != nil {
		return ports.PaymentInfo{}, wrap("get payment intent", err)
	}
	amount, err := kernel.MoneyFromCents(intent.Amount)
	if err != nil {
		return ports.PaymentInfo{}, err
	}
	var refundedCents int64
	if intent.LatestCharge != nil {
		refundedCents = intent.LatestCharge.AmountRefunded
	}
	refunded, err := kernel.MoneyFromCents(refundedCents)
	if err != nil {
		return ports.PaymentInfo{}, err
	}
	return ports.PaymentInfo{
		Reference:      intent.ID,
		Status:         intentStatus(intent.Status),
		Amount:         amount,
		RefundedAmount: refunded,
	}, nil
}

// InitiateRefund refunds part of a payment intent. Card and request errors
// reported by Stripe are declines; anything else is a transport failure.
func (g *Gateway) InitiateRefund(ctx context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentReference),
		Amount:        stripe.Int64(cents(req.Amount)),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	params.AddMetadata("refund_id", req.RefundID.String())
	if req.Reason != "" {
		params.AddMetadata("reason", req.Reason)
	}

	r, err := g.refunds.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) &&
			(stripeErr.Type == stripe.ErrorTypeCard || stripeErr.Type == stripe.ErrorTypeInvalidRequest) {
			g.logger.WarnContext(ctx, "refund declined",
				"refund_id", req.RefundID.String(), "code", stripeErr.Code, "message", stripeErr.Msg)
			return ports.RefundResult{FailureReason: stripeErr.Msg}, nil
		}
		return ports.RefundResult{}, wrap("create refund", err)
	}
	g.logger.InfoContext(ctx, "refund created",
		"refund_id", req.RefundID.String(), "stripe_refund", r.ID, "status", r.Status)

	switch r.Status {
	case stripe.RefundStatusFailed, stripe.RefundStatusCanceled:
		reason := string(r.FailureReason)
		if reason == "" {
			reason = "refund " + string(r.Status)
		}
		return ports.RefundResult{TransactionReference: r.ID, FailureReason: reason}, nil
	default:
		return ports.RefundResult{Succeeded: true, TransactionReference: r.ID}, nil
	}
}

func intentStatus(s stripe.PaymentIntentStatus) ports.PaymentStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return ports.PaymentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return ports.PaymentFailed
	case stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresCapture,
		stripe.PaymentIntentStatusRequiresConfirmation,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		return ports.PaymentPending
	default:
		return ports.PaymentStatusUnknown
	}
}

func refundStatus(s stripe.RefundStatus) ports.PaymentStatus {
	switch s {
	case stripe.RefundStatusSucceeded:
		return ports.PaymentSucceeded
	case stripe.RefundStatusFailed, stripe.RefundStatusCanceled:
		return ports.PaymentFailed
	case stripe.RefundStatusPending, stripe.RefundStatusRequiresAction:
		return ports.PaymentPending
	default:
		return ports.PaymentStatusUnknown
	}
}

func cents(m kernel.Money) int64 {
	return m.Decimal().Shift(kernel.MoneyScale).IntPart()
}

func wrap(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: stripe: %s: %w", ports.ErrGatewayTimeout, operation, err)
	}
	return fmt.Errorf("stripe: %s: %w", operation, err)
}
