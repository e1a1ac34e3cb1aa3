package paymentgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/ports"
)

const (
	createPaymentPath = "/api/payments/create"
	paymentInfoPath   = "/api/payments/info"
	refundPath        = "/api/payments/refund"
)

type createPaymentRequest struct {
	OrderID        string `json:"orderId"`
	Amount         string `json:"amount"`
	PaymentMethod  string `json:"paymentMethod"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

type createPaymentResponse struct {
	PaymentReference string `json:"paymentReference"`
	Status           string `json:"status"`
}

type paymentInfoRequest struct {
	PaymentReference string `json:"paymentReference"`
}

type paymentInfoResponse struct {
	PaymentReference string `json:"paymentReference"`
	Status           string `json:"status"`
	Amount           string `json:"amount"`
	RefundedAmount   string `json:"refundedAmount"`
}

type refundRequest struct {
	RefundID         string `json:"refundId"`
	PaymentReference string `json:"paymentReference"`
	Amount           string `json:"amount"`
	Reason           string `json:"reason,omitempty"`
}

type refundResponse struct {
	TransactionReference string `json:"transactionReference"`
	Status               string `json:"status"`
	FailureReason        string `json:"failureReason"`
}

func (c *Client) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (ports.PaymentResult, error) {
	env, err := c.call(ctx, "initiate_payment", createPaymentPath, req.IdempotencyKey, createPaymentRequest{
		OrderID:        req.OrderID.String(),
		Amount:         req.Amount.String(),
		PaymentMethod:  req.Method,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return ports.PaymentResult{}, err
	}
	if !env.Success {
		return ports.PaymentResult{Status: ports.PaymentFailed}, nil
	}

	var data createPaymentResponse
	if err := decodeData(env, &data); err != nil {
		return ports.PaymentResult{}, err
	}
	return ports.PaymentResult{Reference: data.PaymentReference, Status: parseStatus(data.Status)}, nil
}

// GetPaymentInfo looks up a payment or refund transaction. An unsuccessful
// envelope means the provider does not know the reference.
func (c *Client) GetPaymentInfo(ctx context.Context, reference string) (ports.PaymentInfo, error) {
	env, err := c.call(ctx, "get_payment_info", paymentInfoPath, "", paymentInfoRequest{PaymentReference: reference})
	if err != nil {
		return ports.PaymentInfo{}, err
	}
	if !env.Success {
		return ports.PaymentInfo{}, fmt.Errorf("%w: payment %q: %s", ErrRejected, reference, env.Message)
	}

	var data paymentInfoResponse
	if err := decodeData(env, &data); err != nil {
		return ports.PaymentInfo{}, err
	}
	amount, err := parseAmount(data.Amount)
	if err != nil {
		return ports.PaymentInfo{}, err
	}
	refunded, err := parseAmount(data.RefundedAmount)
	if err != nil {
		return ports.PaymentInfo{}, err
	}

	ref := data.PaymentReference
	if ref == "" {
		ref = reference
	}
	return ports.PaymentInfo{
		Reference:      ref,
		Status:         parseStatus(data.Status),
		Amount:         amount,
		RefundedAmount: refunded,
	}, nil
}

// InitiateRefund sends the refund with its id as idempotency key. An
// unsuccessful envelope or a failed status is an explicit decline.
func (c *Client) InitiateRefund(ctx context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	env, err := c.call(ctx, "initiate_refund", refundPath, req.IdempotencyKey, refundRequest{
		RefundID:         req.RefundID.String(),
		PaymentReference: req.PaymentReference,
		Amount:           req.Amount.String(),
		Reason:           req.Reason,
	})
	if err != nil {
		return ports.RefundResult{}, err
	}
	if !env.Success {
		return ports.RefundResult{FailureReason: declineReason(env.Message)}, nil
	}

	var data refundResponse
	if err := decodeData(env, &data); err != nil {
		return ports.RefundResult{}, err
	}
	if parseStatus(data.Status) == ports.PaymentFailed {
		reason := data.FailureReason
		if reason == "" {
			reason = declineReason(env.Message)
		}
		return ports.RefundResult{TransactionReference: data.TransactionReference, FailureReason: reason}, nil
	}
	return ports.RefundResult{Succeeded: true, TransactionReference: data.TransactionReference}, nil
}

func decodeData(env envelope, dst any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return errors.New("payment service response has no data")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("decode payment service data: %w", err)
	}
	return nil
}

func parseAmount(s string) (kernel.Money, error) {
	if strings.TrimSpace(s) == "" {
		return kernel.Money{}, nil
	}
	return kernel.MoneyFromString(s)
}

func parseStatus(s string) ports.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "processing", "initiated":
		return ports.PaymentPending
	case "succeeded", "success", "completed", "paid", "refunded":
		return ports.PaymentSucceeded
	case "failed", "declined", "cancelled", "canceled":
		return ports.PaymentFailed
	default:
		return ports.PaymentStatusUnknown
	}
}

func declineReason(message string) string {
	if strings.TrimSpace(message) == "" {
		return "declined by payment service"
	}
	return message
}
