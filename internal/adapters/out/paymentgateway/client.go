// Package paymentgateway is the HTTP client for the payment service.
//
// Every call is a bearer-authenticated JSON POST answered with a
// {"success": bool, "data": ..., "message": string} envelope. Transport
// errors, 429 and 5xx answers are retried with exponential backoff a bounded
// number of times; the whole call, retries included, runs under the
// configured timeout. When that timeout expires the returned error wraps
// ports.ErrGatewayTimeout because the outcome on the provider side is unknown.
package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"postpurchase/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "postpurchase/internal/adapters/out/paymentgateway"

	defaultTimeout       = 10 * time.Second
	defaultRetryInterval = 200 * time.Millisecond
	maxErrorBody         = 1 << 12
)

// ErrRejected is wrapped when the payment service refuses a request with a
// non-retryable status.
var ErrRejected = errors.New("payment service rejected the request")

type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	MaxRetries    uint64
	RetryInterval time.Duration
}

type clientConfig struct {
	httpClient *http.Client
	meter      metric.Meter
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option customises Client construction.
type Option func(*clientConfig)

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

func WithMeter(m metric.Meter) Option {
	return func(cfg *clientConfig) {
		cfg.meter = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(cfg *clientConfig) {
		cfg.tracer = t
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) {
		cfg.logger = l
	}
}

// Client implements ports.PaymentGateway over HTTP.
type Client struct {
	baseURL       string
	token         string
	timeout       time.Duration
	maxRetries    uint64
	retryInterval time.Duration

	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger

	latency         metric.Float64Histogram
	latencyEnabled  bool
	failures        metric.Int64Counter
	failuresEnabled bool
}

var _ ports.PaymentGateway = (*Client)(nil)

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("paymentgateway: base url is required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("paymentgateway: token is required")
	}

	cc := clientConfig{}
	for _, opt := range opts {
		opt(&cc)
	}
	if cc.httpClient == nil {
		cc.httpClient = &http.Client{}
	}
	if cc.meter == nil {
		cc.meter = otel.GetMeterProvider().Meter(instrumentationName)
	}
	if cc.tracer == nil {
		cc.tracer = otel.Tracer(instrumentationName)
	}
	if cc.logger == nil {
		cc.logger = slog.Default()
	}
	logger := cc.logger.With("component", "payment_gateway")

	latency, latencyErr := cc.meter.Float64Histogram(
		"payment_gateway.request.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration of payment service calls including retries"),
	)
	if latencyErr != nil {
		logger.Warn("unable to register latency metric", "error", latencyErr)
	}
	failures, failuresErr := cc.meter.Int64Counter(
		"payment_gateway.request.failures",
		metric.WithDescription("Count of payment service calls that ended in an error"),
	)
	if failuresErr != nil {
		logger.Warn("unable to register failure metric", "error", failuresErr)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	return &Client{
		baseURL:         baseURL,
		token:           cfg.Token,
		timeout:         timeout,
		maxRetries:      cfg.MaxRetries,
		retryInterval:   retryInterval,
		httpClient:      cc.httpClient,
		tracer:          cc.tracer,
		logger:          logger,
		latency:         latency,
		latencyEnabled:  latencyErr == nil,
		failures:        failures,
		failuresEnabled: failuresErr == nil,
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// call posts body to path and decodes the envelope. idempotencyKey, when set,
// is sent on every attempt so the provider can deduplicate retries.
func (c *Client) call(ctx context.Context, operation, path, idempotencyKey string, body any) (envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "payment_gateway."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.route", path)),
	)
	defer span.End()

	start := time.Now()
	attempts := 0
	var env envelope
	err := backoff.RetryNotify(func() error {
		attempts++
		var attemptErr error
		env, attemptErr = c.post(ctx, path, idempotencyKey, body)
		if attemptErr != nil && ctx.Err() != nil {
			return backoff.Permanent(attemptErr)
		}
		return attemptErr
	}, c.backOff(ctx), func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "payment service call failed, retrying",
			"operation", operation, "attempt", attempts, "wait", wait, "error", err)
	})

	attrs := metric.WithAttributes(attribute.String("operation", operation))
	if c.latencyEnabled {
		c.latency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
	span.SetAttributes(attribute.Int("payment_gateway.attempts", attempts))

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			err = fmt.Errorf("%w: %s: %w", ports.ErrGatewayTimeout, operation, err)
		}
		if c.failuresEnabled {
			c.failures.Add(ctx, 1, attrs)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return envelope{}, err
	}
	return env, nil
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, body any) (envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return envelope{}, backoff.Permanent(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return envelope{}, backoff.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return envelope{}, fmt.Errorf("%s answered %d: %s", path, resp.StatusCode, readSnippet(resp.Body))
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return envelope{}, backoff.Permanent(
			fmt.Errorf("%w: %s answered %d: %s", ErrRejected, path, resp.StatusCode, readSnippet(resp.Body)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, backoff.Permanent(fmt.Errorf("decode %s response: %w", path, err))
	}
	return env, nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(b))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
