package paymentgateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"postpurchase/internal/adapters/out/paymentgateway"
	"postpurchase/internal/core/domain/model/kernel"
	"postpurchase/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "secret-token"

func newClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration, retries uint64) *paymentgateway.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:       server.URL + "/",
		Token:         token,
		Timeout:       timeout,
		MaxRetries:    retries,
		RetryInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func refundRequest(t *testing.T) ports.RefundRequest {
	refundID := kernel.NewUUID()
	return ports.RefundRequest{
		RefundID:         refundID,
		PaymentReference: "pay_1",
		Amount:           money(t, "42.50"),
		Reason:           "order cancelled",
		IdempotencyKey:   refundID.String(),
	}
}

func TestNewClient(t *testing.T) {
	_, err := paymentgateway.NewClient(paymentgateway.Config{Token: token})
	require.Error(t, err)

	_, err = paymentgateway.NewClient(paymentgateway.Config{BaseURL: "http://payments"})
	require.Error(t, err)
}

func TestClient_InitiateRefund(t *testing.T) {
	t.Run("should send an authenticated idempotent request", func(t *testing.T) {
		req := refundRequest(t)
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/payments/refund", r.URL.Path)
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			assert.Equal(t, req.IdempotencyKey, r.Header.Get("Idempotency-Key"))

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, req.RefundID.String(), body["refundId"])
			assert.Equal(t, "pay_1", body["paymentReference"])
			assert.Equal(t, "42.50", body["amount"])

			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"transactionReference": "re_1", "status": "Succeeded"},
			})
		}, time.Second, 0)

		result, err := client.InitiateRefund(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.Equal(t, "re_1", result.TransactionReference)
	})

	t.Run("should report an explicit decline without error", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "insufficient balance"})
		}, time.Second, 0)

		result, err := client.InitiateRefund(context.Background(), refundRequest(t))

		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, "insufficient balance", result.FailureReason)
	})

	t.Run("should report a failed refund status as a decline", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"transactionReference": "re_2", "status": "Failed", "failureReason": "card expired"},
			})
		}, time.Second, 0)

		result, err := client.InitiateRefund(context.Background(), refundRequest(t))

		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Equal(t, "card expired", result.FailureReason)
	})

	t.Run("should retry server errors", func(t *testing.T) {
		var calls atomic.Int32
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"transactionReference": "re_3", "status": "Processing"},
			})
		}, time.Second, 2)

		result, err := client.InitiateRefund(context.Background(), refundRequest(t))

		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should stop after the retry budget", func(t *testing.T) {
		var calls atomic.Int32
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}, time.Second, 2)

		_, err := client.InitiateRefund(context.Background(), refundRequest(t))

		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrGatewayTimeout)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("should not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}, time.Second, 3)

		_, err := client.InitiateRefund(context.Background(), refundRequest(t))

		require.ErrorIs(t, err, paymentgateway.ErrRejected)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("should wrap the gateway timeout", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			w.WriteHeader(http.StatusOK)
		}, 50*time.Millisecond, 1)

		_, err := client.InitiateRefund(context.Background(), refundRequest(t))

		require.ErrorIs(t, err, ports.ErrGatewayTimeout)
	})
}

func TestClient_GetPaymentInfo(t *testing.T) {
	t.Run("should decode the transaction", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/payments/info", r.URL.Path)
			assert.Empty(t, r.Header.Get("Idempotency-Key"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"paymentReference": "re_1",
					"status":           "Completed",
					"amount":           "42.50",
					"refundedAmount":   "42.50",
				},
			})
		}, time.Second, 0)

		info, err := client.GetPaymentInfo(context.Background(), "re_1")

		require.NoError(t, err)
		assert.Equal(t, "re_1", info.Reference)
		assert.Equal(t, ports.PaymentSucceeded, info.Status)
		assert.Equal(t, "42.50", info.Amount.String())
		assert.Equal(t, "42.50", info.RefundedAmount.String())
	})

	t.Run("should fail for an unknown reference", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "not found"})
		}, time.Second, 0)

		_, err := client.GetPaymentInfo(context.Background(), "re_missing")

		require.ErrorIs(t, err, paymentgateway.ErrRejected)
	})
}

func TestClient_InitiatePayment(t *testing.T) {
	orderID := kernel.NewUUID()
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/create", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, orderID.String(), body["orderId"])
		assert.Equal(t, "99.90", body["amount"])
		assert.Equal(t, "card", body["paymentMethod"])

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"paymentReference": "pay_9", "status": "Pending"},
		})
	}, time.Second, 0)

	result, err := client.InitiatePayment(context.Background(), ports.PaymentRequest{
		OrderID:        orderID,
		Amount:         money(t, "99.90"),
		Method:         "card",
		IdempotencyKey: "order-" + orderID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "pay_9", result.Reference)
	assert.Equal(t, ports.PaymentPending, result.Status)
}
